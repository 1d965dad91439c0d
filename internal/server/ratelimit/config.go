package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the per-minute limit for endpoints without their own tier
const DefaultLimit = 300

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration using getenv for lookups.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: endpointConfigs(
			env.integer("RATE_LIMIT_ANALYSIS_PER_HOUR", 30),
			env.integer("RATE_LIMIT_PDF_PER_HOUR", 60),
		),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(30, 60)
}

func endpointConfigs(analysisPerHour, pdfPerHour int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model calls
		{Path: "/api/process", Method: "POST", Limit: analysisPerHour, Window: time.Hour, Burst: 5},

		// Tier 2: subprocess compilation
		{Path: "/api/generate-pdf", Method: "POST", Limit: pdfPerHour, Window: time.Hour, Burst: 5},

		// Tier 3: cheap writes
		{Path: "/api/render", Method: "POST", Limit: 100, Window: time.Minute, Burst: 20},
		{Path: "/api/presigned-upload", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/download", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

type envReader func(string) string

func (e envReader) str(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) integer(key string, defaultValue int) int {
	if value, err := strconv.Atoi(e(key)); err == nil {
		return value
	}
	return defaultValue
}

func (e envReader) boolean(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(e(key)); err == nil {
		return value
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(e(key)); err == nil {
		return value
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
