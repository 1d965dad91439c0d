package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a failed response body is kept for diagnostics
const maxErrorBody = 2048

// RESTClient posts the generateContent envelope directly over HTTP
type RESTClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

// NewRESTClient creates a REST client. A nil httpClient gets one bounded by config.RequestTimeout.
func NewRESTClient(config *Config, apiKey string, httpClient *http.Client) (*RESTClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	config = config.normalized()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.RequestTimeout}
	}
	return &RESTClient{httpClient: httpClient, config: config, apiKey: apiKey}, nil
}

// Endpoint returns the generateContent URL for the configured model
func (c *RESTClient) Endpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/models/" + url.PathEscape(c.config.Model) + ":generateContent"
}

// Generate posts {"contents":[{"parts":[{"text":prompt}]}],"generationConfig":{...}} and decodes the envelope
func (c *RESTClient) Generate(ctx context.Context, prompt string) (*Envelope, error) {
	body, err := json.Marshal(newGenerateRequest(prompt, c.config.Temperature))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &UnavailableError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Message:    "generateContent returned 429: " + readSnippet(resp.Body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UnavailableError{
			Message:    fmt.Sprintf("generateContent returned %d: %s", resp.StatusCode, readSnippet(resp.Body)),
			StatusCode: resp.StatusCode,
		}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &MalformedResponseError{Message: "failed to decode response envelope", Cause: err}
	}
	return &env, nil
}

// Close is a no-op; the HTTP client has no resources of its own
func (c *RESTClient) Close() error {
	return nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
