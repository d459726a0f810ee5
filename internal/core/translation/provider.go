package translation

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/config"
)

// Provider names accepted in TRANSLATION_PROVIDER
const (
	ProviderMyMemory = "mymemory"
	ProviderOpenAI   = "openai"
)

// NewFromConfig builds the translator named by cfg.TranslationProvider
func NewFromConfig(cfg *config.Config) (Translator, error) {
	switch strings.ToLower(cfg.TranslationProvider) {
	case ProviderMyMemory, "":
		return NewMyMemoryClient(
			WithBaseURL(cfg.MyMemoryURL),
			WithEmail(cfg.MyMemoryEmail),
		), nil

	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %q", ProviderOpenAI)
		}
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.TranslationProvider)
	}
}
