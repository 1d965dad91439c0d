// Package llm provides the client for the upstream generative API.
// Two transports share one contract: a plain REST client speaking the documented
// generateContent envelope, and the Gemini SDK client.
package llm

import "time"

// Transport selects how requests reach the generative API
type Transport string

// Transport constants define the supported client implementations
const (
	// TransportREST posts the raw JSON envelope over net/http
	TransportREST Transport = "rest"
	// TransportSDK uses the generative-ai-go SDK
	TransportSDK Transport = "sdk"
)

const (
	// DefaultBaseURL is the public Gemini REST endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.0-flash"
	// DefaultTemperature keeps the analysis output stable across calls
	DefaultTemperature float32 = 0.1
	// DefaultRequestTimeout bounds a single upstream call
	DefaultRequestTimeout = 90 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Transport      Transport
	Model          string
	BaseURL        string
	Temperature    float32
	RequestTimeout time.Duration
}

// DefaultConfig returns the default configuration (REST transport against Gemini)
func DefaultConfig() *Config {
	return &Config{
		Transport:      TransportREST,
		Model:          DefaultModel,
		BaseURL:        DefaultBaseURL,
		Temperature:    DefaultTemperature,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// WithModel returns a new Config with a different model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

// normalized fills zero fields from DefaultConfig
func (c *Config) normalized() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.Transport == "" {
		out.Transport = def.Transport
	}
	if out.Model == "" {
		out.Model = def.Model
	}
	if out.BaseURL == "" {
		out.BaseURL = def.BaseURL
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = def.RequestTimeout
	}
	return &out
}
