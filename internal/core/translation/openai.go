package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/language"
)

// OpenAIClient translates through a chat completion model. It is an
// alternative backend to MyMemory for deployments that already pay for one.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates an OpenAI-backed translator. baseURL may be empty.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.2,
		maxTokens:   2048,
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return "OpenAI"
}

// Translate asks the model for the translation only
func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &Error{Kind: ErrServiceRejected, Status: apiErr.HTTPStatusCode, Detail: apiErr.Message}
		}
		return "", transport("openai request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", transport("no response from OpenAI", nil)
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", transport("empty completion from OpenAI", nil)
	}
	return translated, nil
}

func buildSystemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(`You are a translation engine. Translate the user's text from %s to %s.
Return ONLY the translated text. Keep line breaks. Do not explain, do not add quotes.`,
		describe(sourceLang), describe(targetLang))
}

func describe(code string) string {
	if name, ok := language.Name(code); ok {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return code
}
