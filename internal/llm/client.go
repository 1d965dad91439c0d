package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Generator submits one prompt and returns the raw response envelope.
// Implementations classify failures as *RateLimitError, *UnavailableError or *MalformedResponseError.
type Generator interface {
	// Generate performs a single non-streaming call
	Generate(ctx context.Context, prompt string) (*Envelope, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Generator, error) {
	config = config.normalized()

	switch config.Transport {
	case TransportSDK:
		return NewGeminiClient(ctx, config, apiKey)
	case TransportREST:
		return NewRESTClient(config, apiKey, nil)
	default:
		return nil, fmt.Errorf("unknown LLM transport %q", config.Transport)
	}
}

// GeminiClient implements Generator for Google Gemini through the SDK
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config.normalized(),
	}, nil
}

// Generate sends the prompt through the SDK and converts the reply into an Envelope
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*Envelope, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifySDKError(err)
	}
	return envelopeFromSDK(resp), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// classifySDKError maps SDK failures onto the package error taxonomy
func classifySDKError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return &RateLimitError{
				Message:    "generateContent returned 429",
				RetryAfter: parseRetryAfter(apiErr.Header.Get("Retry-After")),
				Cause:      err,
			}
		}
		return &UnavailableError{
			Message:    fmt.Sprintf("generateContent returned %d", apiErr.Code),
			StatusCode: apiErr.Code,
			Cause:      err,
		}
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &MalformedResponseError{Message: "response was blocked", Cause: err}
	}
	return &UnavailableError{Message: "failed to generate content", Cause: err}
}

// envelopeFromSDK keeps the candidate/part layout so callers navigate one shape for both transports
func envelopeFromSDK(resp *genai.GenerateContentResponse) *Envelope {
	env := &Envelope{}
	if resp == nil {
		return env
	}
	for _, cand := range resp.Candidates {
		out := Candidate{}
		if cand != nil {
			out.FinishReason = cand.FinishReason.String()
			if cand.Content != nil {
				content := &Content{}
				for _, part := range cand.Content.Parts {
					if text, ok := part.(genai.Text); ok {
						content.Parts = append(content.Parts, TextPart(string(text)))
					} else {
						content.Parts = append(content.Parts, Part{})
					}
				}
				out.Content = content
			}
		}
		env.Candidates = append(env.Candidates, out)
	}
	return env
}

// parseRetryAfter reads a delay-seconds Retry-After header
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
