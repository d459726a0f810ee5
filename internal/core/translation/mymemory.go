package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultMyMemoryURL is the public MyMemory endpoint
const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

// MyMemoryClient implements Translator against the MyMemory "get" API
type MyMemoryClient struct {
	baseURL string
	email   string
	client  *http.Client
}

// MyMemoryOption configures a MyMemoryClient
type MyMemoryOption func(*MyMemoryClient)

// WithBaseURL points the client at another host (tests, proxies)
func WithBaseURL(u string) MyMemoryOption {
	return func(c *MyMemoryClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithEmail sends the "de" parameter, which raises MyMemory's daily quota
func WithEmail(email string) MyMemoryOption {
	return func(c *MyMemoryClient) {
		c.email = email
	}
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) MyMemoryOption {
	return func(c *MyMemoryClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewMyMemoryClient creates a new MyMemory translation client
func NewMyMemoryClient(opts ...MyMemoryOption) *MyMemoryClient {
	c := &MyMemoryClient{
		baseURL: DefaultMyMemoryURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name
func (c *MyMemoryClient) Name() string {
	return "MyMemory"
}

// statusCode accepts both 200 and "200"; MyMemory sends either.
type statusCode int

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid responseStatus %q: %w", string(b), err)
	}
	*s = statusCode(n)
	return nil
}

type myMemoryResponse struct {
	ResponseStatus  statusCode `json:"responseStatus"`
	ResponseDetails string     `json:"responseDetails"`
	ResponseData    *struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate issues one GET request and parses the structured response
func (c *MyMemoryClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", sourceLang+"|"+targetLang)
	if c.email != "" {
		params.Set("de", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", transport("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", transport("mymemory request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transport("failed to read response", err)
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", transport(fmt.Sprintf("failed to parse response (http %d)", resp.StatusCode), err)
	}

	if parsed.ResponseStatus == 0 {
		return "", transport(fmt.Sprintf("response carried no status (http %d)", resp.StatusCode), nil)
	}

	if parsed.ResponseStatus != http.StatusOK {
		return "", rejected(int(parsed.ResponseStatus), parsed.ResponseDetails)
	}

	if parsed.ResponseData == nil || parsed.ResponseData.TranslatedText == "" {
		return "", transport("response carried no translated text", nil)
	}

	return parsed.ResponseData.TranslatedText, nil
}
