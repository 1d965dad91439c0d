// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-rewrite/internal/cache"
	"github.com/jonathan/resume-rewrite/internal/llm"
	"github.com/jonathan/resume-rewrite/internal/storage"
	"github.com/jonathan/resume-rewrite/internal/typeset"
)

// Defaults for values not set by file or environment
const (
	DefaultPort   = 8080
	DefaultRegion = "us-east-1"
)

// Duration is a time.Duration that reads from JSON as a Go duration string ("90s") or as seconds
type Duration time.Duration

// UnmarshalJSON accepts "1m30s" or 90
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds")
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration string form
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is the service configuration. Every field may come from the JSON file or the environment.
type Config struct {
	// Upstream model
	APIKey      string  `json:"api_key,omitempty"`   // GEMINI_API_KEY
	Model       string  `json:"model,omitempty"`     // GEMINI_MODEL
	APIURL      string  `json:"api_url,omitempty" validate:"omitempty,url"`
	Transport   string  `json:"transport,omitempty" validate:"omitempty,oneof=rest sdk"`
	Temperature float64 `json:"temperature,omitempty" validate:"gte=0,lte=2"`

	// HTTP server
	Port          int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	AllowedOrigin string `json:"allowed_origin,omitempty"`

	// Object storage
	AWSRegion          string `json:"aws_region,omitempty"`
	S3Bucket           string `json:"s3_bucket,omitempty"`
	AWSAccessKeyID     string `json:"aws_access_key_id,omitempty" validate:"required_with=AWSSecretAccessKey"`
	AWSSecretAccessKey string `json:"aws_secret_access_key,omitempty" validate:"required_with=AWSAccessKeyID"`
	S3Endpoint         string `json:"s3_endpoint,omitempty" validate:"omitempty,url"`

	// Typesetting
	TypesetBinary  string   `json:"typeset_binary,omitempty"`
	TypesetTimeout Duration `json:"typeset_timeout,omitempty" validate:"gte=0"`

	// Result cache
	CacheTTL        Duration `json:"cache_ttl,omitempty" validate:"gte=0"`
	CacheMaxEntries int      `json:"cache_max_entries,omitempty" validate:"gte=0"`

	// Job posting fetch
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job boards

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Model:           llm.DefaultModel,
		APIURL:          llm.DefaultBaseURL,
		Transport:       string(llm.TransportREST),
		Temperature:     float64(llm.DefaultTemperature),
		Port:            DefaultPort,
		AllowedOrigin:   "*",
		AWSRegion:       DefaultRegion,
		TypesetBinary:   typeset.DefaultBinary,
		TypesetTimeout:  Duration(typeset.DefaultTimeout),
		CacheTTL:        Duration(cache.DefaultTTL),
		CacheMaxEntries: cache.DefaultMaxEntries,
	}
}

// Load reads the optional JSON file, applies the environment over it and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with the environment variables that are set.
// Malformed numeric or duration values are reported rather than ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *Duration) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = Duration(d)
		}
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("GEMINI_API_KEY", &c.APIKey)
	str("GEMINI_MODEL", &c.Model)
	str("GEMINI_API_URL", &c.APIURL)
	str("GEMINI_TRANSPORT", &c.Transport)
	integer("PORT", &c.Port)
	str("ALLOWED_ORIGIN", &c.AllowedOrigin)
	str("AWS_REGION", &c.AWSRegion)
	str("AWS_S3_BUCKET_NAME", &c.S3Bucket)
	str("AWS_ACCESS_KEY_ID", &c.AWSAccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &c.AWSSecretAccessKey)
	str("AWS_S3_ENDPOINT", &c.S3Endpoint)
	str("TYPESET_BINARY", &c.TypesetBinary)
	duration("TYPESET_TIMEOUT", &c.TypesetTimeout)
	duration("CACHE_TTL", &c.CacheTTL)
	integer("CACHE_MAX_ENTRIES", &c.CacheMaxEntries)
	boolean("USE_BROWSER", &c.UseBrowser)

	if len(errs) > 0 {
		return fmt.Errorf("config error: invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks that the configuration has valid values.
// The API key is not required here since only model-backed commands need it.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed on '%s'", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireAPIKey reports a missing model key
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Bools cannot distinguish unset from false, so they are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, f := range []struct{ dst, def *string }{
		{&result.APIKey, &defaults.APIKey},
		{&result.Model, &defaults.Model},
		{&result.APIURL, &defaults.APIURL},
		{&result.Transport, &defaults.Transport},
		{&result.AllowedOrigin, &defaults.AllowedOrigin},
		{&result.AWSRegion, &defaults.AWSRegion},
		{&result.S3Bucket, &defaults.S3Bucket},
		{&result.S3Endpoint, &defaults.S3Endpoint},
		{&result.TypesetBinary, &defaults.TypesetBinary},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TypesetTimeout == 0 {
		result.TypesetTimeout = defaults.TypesetTimeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.CacheMaxEntries == 0 {
		result.CacheMaxEntries = defaults.CacheMaxEntries
	}

	return result
}

// LLMConfig returns the model client configuration
func (c *Config) LLMConfig() *llm.Config {
	return &llm.Config{
		Transport:   llm.Transport(c.Transport),
		Model:       c.Model,
		BaseURL:     c.APIURL,
		Temperature: float32(c.Temperature),
	}
}

// StorageEnabled reports whether a bucket is configured
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// StorageConfig returns the object storage configuration
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Bucket:          c.S3Bucket,
		Region:          c.AWSRegion,
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
	}
}

// CacheConfig returns the result cache bounds
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{TTL: time.Duration(c.CacheTTL), MaxEntries: c.CacheMaxEntries}
}

// Compiler returns the typesetter described by the configuration
func (c *Config) Compiler() *typeset.Compiler {
	return typeset.New(c.TypesetBinary, time.Duration(c.TypesetTimeout))
}
