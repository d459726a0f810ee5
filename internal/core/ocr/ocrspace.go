package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
)

// DefaultOCRSpaceURL is the public OCR.space parse endpoint
const DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// OCRSpaceEngine implements Engine using the OCR.space API
type OCRSpaceEngine struct {
	apiKey   string
	endpoint string
	client   *http.Client
	language string
}

// NewOCRSpaceEngine creates a new OCR.space engine. An empty endpoint uses
// DefaultOCRSpaceURL.
func NewOCRSpaceEngine(apiKey, endpoint string) *OCRSpaceEngine {
	if endpoint == "" {
		endpoint = DefaultOCRSpaceURL
	}
	return &OCRSpaceEngine{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the engine name
func (e *OCRSpaceEngine) Name() string {
	return "OCR.space"
}

// Load checks the API key
func (e *OCRSpaceEngine) Load(ctx context.Context) error {
	if e.apiKey == "" {
		return fmt.Errorf("OCR_SPACE_API_KEY is not set")
	}
	return nil
}

// LoadLanguage accepts any three-letter code; OCR.space validates it server side
func (e *OCRSpaceEngine) LoadLanguage(ctx context.Context, language string) error {
	if len(language) != 3 {
		return fmt.Errorf("OCR.space expects a three-letter language code, got %q", language)
	}
	return nil
}

// Initialize records the language used by Recognize
func (e *OCRSpaceEngine) Initialize(ctx context.Context, language string) error {
	e.language = language
	return nil
}

// OCR.space API response structure
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
		ErrorMessage      string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage,omitempty"`
}

// errorMessage handles both the string and the []string shape of ErrorMessage
func (r ocrSpaceResponse) errorMessage() string {
	if len(r.ErrorMessage) == 0 {
		return "unknown error"
	}
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(r.ErrorMessage, &single); err == nil && single != "" {
		return single
	}
	return "unknown error"
}

// Recognize uploads the image and returns the parsed text of every page
func (e *OCRSpaceEngine) Recognize(ctx context.Context, image ingest.ImagePayload, cfg RecognizeConfig, onProgress ProgressFunc) (string, error) {
	// Create multipart form data
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image"+extensionFor(image.MediaType))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}

	fields := map[string]string{
		"apikey":            e.apiKey,
		"language":          e.language,
		"detectOrientation": strconv.FormatBool(cfg.RotateAuto),
		"OCREngine":         strconv.Itoa(ocrSpaceEngineFor(cfg.EngineMode)),
		"isOverlayRequired": "false",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	notify(onProgress, 0)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocrspace request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocrspace error (status: %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if ocrResp.IsErroredOnProcessing {
		return "", fmt.Errorf("ocrspace processing error: %s", ocrResp.errorMessage())
	}
	// 1 = all pages parsed, 2 = partially parsed
	if ocrResp.OCRExitCode != 1 && ocrResp.OCRExitCode != 2 {
		return "", fmt.Errorf("ocrspace exit code: %d", ocrResp.OCRExitCode)
	}

	pages := make([]string, 0, len(ocrResp.ParsedResults))
	for _, r := range ocrResp.ParsedResults {
		pages = append(pages, r.ParsedText)
	}

	notify(onProgress, 100)
	return strings.Join(pages, "\n"), nil
}

// Terminate drops idle connections
func (e *OCRSpaceEngine) Terminate() error {
	e.client.CloseIdleConnections()
	return nil
}

// OCR.space only knows engines 1, 2 and 3
func ocrSpaceEngineFor(mode int) int {
	if mode >= 1 && mode <= 3 {
		return mode
	}
	return 1
}
