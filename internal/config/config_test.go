package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-rewrite/internal/llm"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"model": "gemini-1.5-pro",
		"port": 9090,
		"s3_bucket": "uploads",
		"typeset_timeout": "45s",
		"cache_ttl": 120,
		"use_browser": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "uploads", cfg.S3Bucket)
	assert.Equal(t, Duration(45*time.Second), cfg.TypesetTimeout)
	assert.Equal(t, Duration(2*time.Minute), cfg.CacheTTL)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"typeset_timeout": "soon"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Model: "from-file", Port: 1}
	err := cfg.ApplyEnv(envMap(map[string]string{
		"GEMINI_API_KEY":     "key",
		"GEMINI_TRANSPORT":   "sdk",
		"PORT":               "3001",
		"AWS_S3_BUCKET_NAME": "bucket",
		"TYPESET_TIMEOUT":    "2m",
		"CACHE_MAX_ENTRIES":  "10",
		"USE_BROWSER":        "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "from-file", cfg.Model, "unset variables keep file values")
	assert.Equal(t, "sdk", cfg.Transport)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, Duration(2*time.Minute), cfg.TypesetTimeout)
	assert.Equal(t, 10, cfg.CacheMaxEntries)
	assert.True(t, cfg.UseBrowser)
}

func TestApplyEnv_ReportsMalformedValues(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "eighty", "CACHE_TTL": "forever"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Model: "custom", Port: 9000}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom", merged.Model)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, llm.DefaultBaseURL, merged.APIURL)
	assert.Equal(t, "rest", merged.Transport)
	assert.Equal(t, "tectonic", merged.TypesetBinary)
	assert.Equal(t, Duration(60*time.Second), merged.TypesetTimeout)
	assert.Equal(t, Duration(10*time.Minute), merged.CacheTTL)
	assert.Equal(t, 256, merged.CacheMaxEntries)
	assert.Equal(t, "us-east-1", merged.AWSRegion)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad transport", func(c *Config) { c.Transport = "grpc" }, "Transport"},
		{"port range", func(c *Config) { c.Port = 70000 }, "Port"},
		{"temperature", func(c *Config) { c.Temperature = 3 }, "Temperature"},
		{"secret without id", func(c *Config) { c.AWSSecretAccessKey = "s" }, "AWSAccessKeyID"},
		{"endpoint url", func(c *Config) { c.S3Endpoint = "not a url" }, "S3Endpoint"},
		{"negative cache", func(c *Config) { c.CacheMaxEntries = -1 }, "CacheMaxEntries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `{"model": "file-model", "port": 7000}`)
	t.Setenv("GEMINI_MODEL", "env-model")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "tectonic", cfg.TypesetBinary)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Defaults()
	assert.Error(t, cfg.RequireAPIKey())
	cfg.APIKey = "k"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestDerivedConfigs(t *testing.T) {
	cfg := Defaults()
	cfg.S3Bucket = "b"
	cfg.S3Endpoint = "http://localhost:9000"
	cfg.TypesetTimeout = Duration(5 * time.Second)

	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, "http://localhost:9000", cfg.StorageConfig().Endpoint)
	assert.Equal(t, llm.TransportREST, cfg.LLMConfig().Transport)
	assert.InDelta(t, 0.1, float64(cfg.LLMConfig().Temperature), 1e-6)
	assert.Equal(t, 10*time.Minute, cfg.CacheConfig().TTL)
	assert.Equal(t, 5*time.Second, cfg.Compiler().Timeout)
}

func TestDuration_JSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}
