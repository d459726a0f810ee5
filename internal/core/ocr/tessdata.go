package ocr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const traineddataExt = ".traineddata"

// TessdataLanguages lists the language packs installed under prefix. Both
// layouts Tesseract accepts are searched: prefix itself and prefix/tessdata.
func TessdataLanguages(prefix string) ([]string, error) {
	seen := map[string]struct{}{}
	found := false
	for _, dir := range []string{prefix, filepath.Join(prefix, "tessdata")} {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tessdata dir %s: %w", dir, err)
		}
		found = true
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, traineddataExt) {
				continue
			}
			seen[strings.TrimSuffix(name, traineddataExt)] = struct{}{}
		}
	}
	if !found {
		return nil, fmt.Errorf("tessdata dir %s does not exist", prefix)
	}

	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// TesseractInitConfig renders a Tesseract config file for cfg. The engine
// mode is init-only, so engines that cannot pass --oem hand this file to
// Tesseract's init instead.
func TesseractInitConfig(cfg RecognizeConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tessedit_ocr_engine_mode %d\n", cfg.EngineMode)
	if cfg.PreserveInterwordSpaces {
		b.WriteString("preserve_interword_spaces 1\n")
	}
	return b.String()
}
