package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRESTClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	client, err := NewRESTClient(cfg, "test-key", srv.Client())
	require.NoError(t, err)
	return client
}

func TestRESTClient_PostsEnvelope(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`))
	})

	env, err := client.Generate(context.Background(), "analyze this")
	require.NoError(t, err)

	assert.Equal(t, "/models/"+DefaultModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, map[string]any{
		"contents": []any{
			map[string]any{"parts": []any{map[string]any{"text": "analyze this"}}},
		},
		"generationConfig": map[string]any{"temperature": 0.1},
	}, gotBody)

	require.Len(t, env.Candidates, 1)
	require.NotNil(t, env.Candidates[0].Content)
	require.NotNil(t, env.Candidates[0].Content.Parts[0].Text)
	assert.Equal(t, `{"ok":true}`, *env.Candidates[0].Content.Parts[0].Text)
}

func TestRESTClient_SendsConfiguredTemperature(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Temperature = 0.7
	client, err := NewRESTClient(cfg, "test-key", srv.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, gotBody.GenerationConfig.Temperature, 1e-6)
}

func TestRESTClient_RateLimited(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), "p")

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr), "expected RateLimitError, got %v", err)
	assert.Equal(t, 7*time.Second, rateErr.RetryAfter)
	assert.Contains(t, rateErr.Error(), "RESOURCE_EXHAUSTED")
}

func TestRESTClient_ServerError(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), "p")

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable), "expected UnavailableError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, unavailable.StatusCode)

	var rateErr *RateLimitError
	assert.False(t, errors.As(err, &rateErr))
}

func TestRESTClient_UndecodableBody(t *testing.T) {
	client := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.Generate(context.Background(), "p")

	var malformed *MalformedResponseError
	assert.True(t, errors.As(err, &malformed), "expected MalformedResponseError, got %v", err)
}

func TestRESTClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	srv.Close()

	client, err := NewRESTClient(cfg, "k", nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Zero(t, unavailable.StatusCode)
}

func TestNewRESTClient_RequiresKey(t *testing.T) {
	_, err := NewRESTClient(nil, "", nil)
	assert.Error(t, err)
}

func TestNewClient_SelectsTransport(t *testing.T) {
	gen, err := NewClient(context.Background(), &Config{Transport: TransportREST}, "k")
	require.NoError(t, err)
	assert.IsType(t, &RESTClient{}, gen)

	_, err = NewClient(context.Background(), &Config{Transport: "carrier-pigeon"}, "k")
	assert.Error(t, err)
}
