package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
)

// TesseractCLIEngine runs the tesseract binary. Each instance owns a
// temporary working directory that Terminate removes.
type TesseractCLIEngine struct {
	tesseractPath string
	binary        string
	workDir       string
	language      string
}

// NewTesseractCLIEngine creates an engine for the binary at path, or
// "tesseract" from PATH when empty
func NewTesseractCLIEngine(path string) *TesseractCLIEngine {
	if path == "" {
		path = "tesseract" // Assumes tesseract is in PATH
	}
	return &TesseractCLIEngine{tesseractPath: path}
}

// Name returns the engine name
func (e *TesseractCLIEngine) Name() string {
	return "Tesseract CLI"
}

// Load resolves the binary and creates the working directory
func (e *TesseractCLIEngine) Load(ctx context.Context) error {
	binary, err := exec.LookPath(e.tesseractPath)
	if err != nil {
		return fmt.Errorf("tesseract binary not found: %w", err)
	}
	e.binary = binary

	dir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	e.workDir = dir
	return nil
}

// LoadLanguage checks that the language pack is installed
func (e *TesseractCLIEngine) LoadLanguage(ctx context.Context, language string) error {
	out, err := exec.CommandContext(ctx, e.binary, "--list-langs").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract --list-langs failed: %w, output: %s", err, string(out))
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of available languages") {
			continue
		}
		if line == language {
			return nil
		}
	}
	return fmt.Errorf("language pack %q is not installed", language)
}

// Initialize records the language used by Recognize
func (e *TesseractCLIEngine) Initialize(ctx context.Context, language string) error {
	if e.workDir == "" {
		return fmt.Errorf("engine not loaded")
	}
	e.language = language
	return nil
}

// Recognize writes the image into the work dir and reads the text from stdout.
// The binary reports no progress, so listeners see 0 and then 100.
func (e *TesseractCLIEngine) Recognize(ctx context.Context, image ingest.ImagePayload, cfg RecognizeConfig, onProgress ProgressFunc) (string, error) {
	if e.language == "" {
		return "", fmt.Errorf("engine not initialized")
	}

	imagePath := filepath.Join(e.workDir, "input"+extensionFor(image.MediaType))
	if err := os.WriteFile(imagePath, image.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}

	notify(onProgress, 0)

	// tesseract input stdout -l eng --oem 1 --psm 1 -c preserve_interword_spaces=1
	args := []string{
		imagePath, "stdout",
		"-l", e.language,
		"--oem", strconv.Itoa(cfg.EngineMode),
		"--psm", strconv.Itoa(cfg.PageSegMode),
	}
	if cfg.PreserveInterwordSpaces {
		args = append(args, "-c", "preserve_interword_spaces=1")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("tesseract command failed: %w, output: %s", err, stderr.String())
	}

	notify(onProgress, 100)
	return stdout.String(), nil
}

// Terminate removes the working directory
func (e *TesseractCLIEngine) Terminate() error {
	if e.workDir == "" {
		return nil
	}
	dir := e.workDir
	e.workDir = ""
	return os.RemoveAll(dir)
}

func notify(fn ProgressFunc, percent int) {
	if fn != nil {
		fn(Progress{Percent: percent, Phase: PhaseRecognizing})
	}
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tif"
	default:
		return ".img"
	}
}
