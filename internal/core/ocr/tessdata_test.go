package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTessdataLanguages(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "eng.traineddata"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "README"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(prefix, "tessdata"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "tessdata", "spa.traineddata"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "tessdata", "eng.traineddata"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(prefix, "tessdata", "configs"), 0o755))

	langs, err := TessdataLanguages(prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"eng", "spa"}, langs)
}

func TestTessdataLanguages_OnlyPrefixSearched(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(prefix, "deu.traineddata"), []byte("x"), 0o644))

	langs, err := TessdataLanguages(prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"deu"}, langs)
	assert.NotContains(t, langs, "eng")
}

func TestTessdataLanguages_MissingPrefix(t *testing.T) {
	_, err := TessdataLanguages(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestTesseractInitConfig(t *testing.T) {
	cfg := DefaultRecognizeConfig("eng")
	assert.Equal(t, "tessedit_ocr_engine_mode 1\npreserve_interword_spaces 1\n", TesseractInitConfig(cfg))

	cfg.EngineMode = 3
	cfg.PreserveInterwordSpaces = false
	assert.Equal(t, "tessedit_ocr_engine_mode 3\n", TesseractInitConfig(cfg))
}
