package ocr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTesseract writes a shell script that behaves like the tesseract binary
// and records its arguments in args.log next to it.
func fakeTesseract(t *testing.T, output string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}

	dir := t.TempDir()
	script := `#!/bin/sh
if [ "$1" = "--list-langs" ]; then
  echo "List of available languages in \"/usr/share/tessdata/\" (2):"
  echo "eng"
  echo "spa"
  exit 0
fi
echo "$@" > "` + filepath.Join(dir, "args.log") + `"
printf '%s' "` + output + `"
exit ` + string(rune('0'+exitCode)) + `
`
	path := filepath.Join(dir, "tesseract")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestTesseractCLIEngine_Lifecycle(t *testing.T) {
	bin := fakeTesseract(t, "Hello   world", 0)
	engine := NewTesseractCLIEngine(bin)
	ctx := context.Background()

	require.NoError(t, engine.Load(ctx))
	workDir := engine.workDir
	assert.DirExists(t, workDir)

	require.NoError(t, engine.LoadLanguage(ctx, "eng"))
	require.NoError(t, engine.Initialize(ctx, "eng"))

	var seen []int
	text, err := engine.Recognize(ctx, testImage, DefaultRecognizeConfig("eng"), func(p Progress) {
		seen = append(seen, p.Percent)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello   world", text)
	assert.Equal(t, []int{0, 100}, seen)

	args, err := os.ReadFile(filepath.Join(filepath.Dir(bin), "args.log"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "stdout -l eng --oem 1 --psm 1 -c preserve_interword_spaces=1")
	assert.Contains(t, string(args), "input.png")

	require.NoError(t, engine.Terminate())
	assert.NoDirExists(t, workDir)
	assert.NoError(t, engine.Terminate())
}

func TestTesseractCLIEngine_MissingLanguage(t *testing.T) {
	engine := NewTesseractCLIEngine(fakeTesseract(t, "", 0))
	ctx := context.Background()
	require.NoError(t, engine.Load(ctx))
	defer engine.Terminate()

	err := engine.LoadLanguage(ctx, "jpn")
	assert.ErrorContains(t, err, `"jpn" is not installed`)
}

func TestTesseractCLIEngine_CommandFailure(t *testing.T) {
	engine := NewTesseractCLIEngine(fakeTesseract(t, "", 1))
	ctx := context.Background()
	require.NoError(t, engine.Load(ctx))
	defer engine.Terminate()
	require.NoError(t, engine.Initialize(ctx, "eng"))

	_, err := engine.Recognize(ctx, testImage, DefaultRecognizeConfig("eng"), nil)
	assert.ErrorContains(t, err, "tesseract command failed")
}

func TestTesseractCLIEngine_MissingBinary(t *testing.T) {
	engine := NewTesseractCLIEngine(filepath.Join(t.TempDir(), "no-such-tesseract"))
	assert.Error(t, engine.Load(context.Background()))
	assert.NoError(t, engine.Terminate())
}

func TestTesseractCLIEngine_ThroughManager(t *testing.T) {
	bin := fakeTesseract(t, "  Line one  \n\n\nLine   two ", 0)

	var created *TesseractCLIEngine
	m := NewManager("cli", func() (Engine, error) {
		created = NewTesseractCLIEngine(bin)
		return created, nil
	}, "eng")

	text, err := m.Extract(context.Background(), testImage, nil)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", text)
	assert.Empty(t, created.workDir)
}
