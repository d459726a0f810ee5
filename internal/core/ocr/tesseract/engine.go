// Package tesseract provides the in-process Tesseract engine (libtesseract via
// gosseract). It needs libtesseract and leptonica at build time.
package tesseract

import (
	"context"
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr"
)

// Engine wraps a single gosseract client. It is not safe for concurrent use;
// the manager creates one per extraction.
type Engine struct {
	tessdataPrefix string

	client *gosseract.Client
	// init-time config file holding the engine mode, removed on Terminate
	configPath string
	// inflight is closed when the last cgo call started by Recognize returns
	inflight chan struct{}
}

// New creates an engine; tessdataPrefix may be empty to use the system default
func New(tessdataPrefix string) *Engine {
	return &Engine{tessdataPrefix: tessdataPrefix}
}

// Factory adapts New to ocr.EngineFactory
func Factory(tessdataPrefix string) ocr.EngineFactory {
	return func() (ocr.Engine, error) {
		return New(tessdataPrefix), nil
	}
}

// Name returns the engine name
func (e *Engine) Name() string {
	return "Tesseract (gosseract)"
}

// Load allocates the native client
func (e *Engine) Load(ctx context.Context) error {
	e.client = gosseract.NewClient()
	if e.tessdataPrefix != "" {
		e.client.TessdataPrefix = e.tessdataPrefix
	}
	return nil
}

// LoadLanguage checks that the traineddata file is installed, in the
// tessdata prefix when one is set and in the system tessdata dir otherwise.
func (e *Engine) LoadLanguage(ctx context.Context, language string) error {
	var (
		langs []string
		err   error
	)
	if e.tessdataPrefix != "" {
		langs, err = ocr.TessdataLanguages(e.tessdataPrefix)
	} else {
		langs, err = gosseract.GetAvailableLanguages()
	}
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	for _, l := range langs {
		if l == language {
			return nil
		}
	}
	return fmt.Errorf("language pack %q is not installed", language)
}

// Initialize selects the language
func (e *Engine) Initialize(ctx context.Context, language string) error {
	if e.client == nil {
		return fmt.Errorf("engine not loaded")
	}
	if err := e.client.SetLanguage(language); err != nil {
		return fmt.Errorf("failed to set language %q: %w", language, err)
	}
	return nil
}

// Recognize applies cfg and runs recognition. The engine mode is init-only
// in Tesseract and gosseract has no setter for it, so it is written to a
// config file that gosseract passes to init. Page segmentation mode 1
// includes orientation detection, which covers RotateAuto. gosseract exposes
// no progress hook, so listeners see 0 and then 100.
func (e *Engine) Recognize(ctx context.Context, image ingest.ImagePayload, cfg ocr.RecognizeConfig, onProgress ocr.ProgressFunc) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("engine not loaded")
	}

	if err := e.applyInitConfig(cfg); err != nil {
		return "", err
	}
	if err := e.client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode %d: %w", cfg.PageSegMode, err)
	}
	if cfg.PreserveInterwordSpaces {
		if err := e.client.SetVariable("preserve_interword_spaces", "1"); err != nil {
			return "", fmt.Errorf("failed to set preserve_interword_spaces: %w", err)
		}
	}
	if err := e.client.SetImageFromBytes(image.Data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	progress(onProgress, 0)

	type result struct {
		text string
		err  error
	}
	// Buffered so the goroutine never blocks after a cancelled caller left
	resultCh := make(chan result, 1)

	client := e.client
	done := make(chan struct{})
	e.inflight = done
	go func() {
		defer close(done)
		text, err := client.Text()
		resultCh <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to extract text: %w", res.err)
		}
		progress(onProgress, 100)
		return res.text, nil
	}
}

// Terminate frees the native client. If a cancelled Recognize is still inside
// libtesseract, the close happens once that call returns.
func (e *Engine) Terminate() error {
	if e.client == nil {
		return nil
	}
	client := e.client
	configPath := e.configPath
	e.client = nil
	e.configPath = ""

	release := func() error {
		err := client.Close()
		if configPath != "" {
			_ = os.Remove(configPath)
		}
		return err
	}

	if e.inflight == nil {
		return release()
	}
	select {
	case <-e.inflight:
		return release()
	default:
		done := e.inflight
		go func() {
			<-done
			_ = release()
		}()
		return nil
	}
}

func (e *Engine) applyInitConfig(cfg ocr.RecognizeConfig) error {
	f, err := os.CreateTemp("", "gosseract-*.config")
	if err != nil {
		return fmt.Errorf("failed to create init config: %w", err)
	}
	e.configPath = f.Name()

	_, werr := f.WriteString(ocr.TesseractInitConfig(cfg))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("failed to write init config: %w", werr)
	}

	if err := e.client.SetConfigFile(e.configPath); err != nil {
		return fmt.Errorf("failed to set engine mode %d: %w", cfg.EngineMode, err)
	}
	return nil
}

func progress(fn ocr.ProgressFunc, percent int) {
	if fn != nil {
		fn(ocr.Progress{Percent: percent, Phase: ocr.PhaseRecognizing})
	}
}
