// Package engines selects the recognition engine named by OCR_PROVIDER.
package engines

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr/tesseract"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/config"
)

// Provider names accepted in OCR_PROVIDER
const (
	ProviderGosseract    = "gosseract"
	ProviderTesseract    = "tesseract"
	ProviderOCRSpace     = "ocrspace"
	ProviderGoogleVision = "google_vision"
)

// NewFactory returns an engine factory and the engine's display name
func NewFactory(cfg *config.Config) (ocr.EngineFactory, string, error) {
	switch strings.ToLower(cfg.OCRProvider) {
	case ProviderGosseract, "":
		return tesseract.Factory(""), tesseract.New("").Name(), nil

	case ProviderTesseract:
		path := cfg.TesseractPath
		return func() (ocr.Engine, error) {
			return ocr.NewTesseractCLIEngine(path), nil
		}, ocr.NewTesseractCLIEngine(path).Name(), nil

	case ProviderOCRSpace:
		if cfg.OCRSpaceAPIKey == "" {
			return nil, "", fmt.Errorf("OCR_SPACE_API_KEY is required for provider %q", ProviderOCRSpace)
		}
		key := cfg.OCRSpaceAPIKey
		return func() (ocr.Engine, error) {
			return ocr.NewOCRSpaceEngine(key, ""), nil
		}, ocr.NewOCRSpaceEngine(key, "").Name(), nil

	case ProviderGoogleVision:
		if cfg.GoogleVisionAPIKey == "" {
			return nil, "", fmt.Errorf("GOOGLE_VISION_API_KEY is required for provider %q", ProviderGoogleVision)
		}
		key := cfg.GoogleVisionAPIKey
		return func() (ocr.Engine, error) {
			return ocr.NewGoogleVisionEngine(key, ""), nil
		}, ocr.NewGoogleVisionEngine(key, "").Name(), nil

	default:
		return nil, "", fmt.Errorf("unknown OCR provider %q", cfg.OCRProvider)
	}
}

// NewManager builds an ocr.Manager for cfg
func NewManager(cfg *config.Config) (*ocr.Manager, error) {
	factory, name, err := NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	return ocr.NewManager(name, factory, cfg.OCRLanguage), nil
}
