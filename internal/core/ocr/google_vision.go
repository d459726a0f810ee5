package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
)

// DefaultGoogleVisionURL is the images:annotate endpoint
const DefaultGoogleVisionURL = "https://vision.googleapis.com/v1/images:annotate"

// Tesseract codes mapped to the BCP-47 hints Vision understands
var visionLanguageHints = map[string]string{
	"eng": "en",
	"spa": "es",
	"fra": "fr",
	"deu": "de",
	"ita": "it",
	"por": "pt",
	"ind": "id",
	"nld": "nl",
	"rus": "ru",
	"jpn": "ja",
	"kor": "ko",
}

// GoogleVisionEngine implements Engine using Google Cloud Vision API
type GoogleVisionEngine struct {
	apiKey   string
	endpoint string
	client   *http.Client
	hints    []string
}

// NewGoogleVisionEngine creates a new Google Vision engine. An empty endpoint
// uses DefaultGoogleVisionURL.
func NewGoogleVisionEngine(apiKey, endpoint string) *GoogleVisionEngine {
	if endpoint == "" {
		endpoint = DefaultGoogleVisionURL
	}
	return &GoogleVisionEngine{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the engine name
func (e *GoogleVisionEngine) Name() string {
	return "Google Cloud Vision"
}

// Load checks the API key
func (e *GoogleVisionEngine) Load(ctx context.Context) error {
	if e.apiKey == "" {
		return fmt.Errorf("GOOGLE_VISION_API_KEY is not set")
	}
	return nil
}

// LoadLanguage never fails; unknown codes just send no hint
func (e *GoogleVisionEngine) LoadLanguage(ctx context.Context, language string) error {
	return nil
}

// Initialize prepares the language hints
func (e *GoogleVisionEngine) Initialize(ctx context.Context, language string) error {
	e.hints = nil
	if hint, ok := visionLanguageHints[language]; ok {
		e.hints = []string{hint}
	}
	return nil
}

// Google Vision API request/response structures
type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image        visionImage         `json:"image"`
	Features     []visionFeature     `json:"features"`
	ImageContext *visionImageContext `json:"imageContext,omitempty"`
}

type visionImage struct {
	Content string `json:"content"` // base64 encoded image
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation,omitempty"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

// Recognize sends the image to Vision. Vision corrects rotation on its own,
// so only the language hints come from the config.
func (e *GoogleVisionEngine) Recognize(ctx context.Context, image ingest.ImagePayload, cfg RecognizeConfig, onProgress ProgressFunc) (string, error) {
	item := visionRequestItem{
		Image: visionImage{
			Content: base64.StdEncoding.EncodeToString(image.Data),
		},
		Features: []visionFeature{
			{
				Type:       "TEXT_DETECTION",
				MaxResults: 1,
			},
		},
	}
	if len(e.hints) > 0 {
		item.ImageContext = &visionImageContext{LanguageHints: e.hints}
	}

	jsonData, err := json.Marshal(visionRequest{Requests: []visionRequestItem{item}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := e.endpoint + "?key=" + url.QueryEscape(e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	notify(onProgress, 0)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google vision request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google vision error (status: %d): %s", resp.StatusCode, string(body))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(visionResp.Responses) == 0 {
		return "", fmt.Errorf("no response from Google Vision")
	}

	first := visionResp.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("google vision API error: %s", first.Error.Message)
	}

	notify(onProgress, 100)

	if first.FullTextAnnotation != nil && first.FullTextAnnotation.Text != "" {
		return first.FullTextAnnotation.Text, nil
	}
	// First annotation contains the full text
	if len(first.TextAnnotations) > 0 {
		return first.TextAnnotations[0].Description, nil
	}
	return "", nil
}

// Terminate drops idle connections
func (e *GoogleVisionEngine) Terminate() error {
	e.client.CloseIdleConnections()
	return nil
}
