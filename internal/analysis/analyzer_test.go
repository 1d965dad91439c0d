package analysis

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-rewrite/internal/llm"
	"github.com/jonathan/resume-rewrite/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelPayload = `{
  "analysis": {"matchScore": 81.5, "strengths": ["Go services"], "jdKeywords": ["go", "kafka"], "matchKeywords": ["go"], "missingKeywords": ["kafka"]},
  "suggestions": [
    {"id": "s-1", "type": "content", "originalText": "Built reports", "suggestedText": "Built 12 reports", "startIndex": 0, "endIndex": 13, "reason": "metrics", "priority": "high"},
    {"type": "grammar", "suggestedText": "Led migration", "reason": "tense", "priority": "low"}
  ],
  "resumeData": {"experience": [{"title": "Engineer", "company": "Acme", "bulletPoints": [{"original": "Built reports", "improved": "Built 12 reports", "accepted": false}]}]},
  "notes": "ignored"
}`

// scriptedGenerator returns the queued results in order, repeating the last one
type scriptedGenerator struct {
	mu      sync.Mutex
	results []result
	calls   int
	prompts []string
}

type result struct {
	env *llm.Envelope
	err error
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (*llm.Envelope, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	r := g.results[min(g.calls, len(g.results)-1)]
	g.calls++
	return r.env, r.err
}

func (g *scriptedGenerator) Close() error { return nil }

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func envelopeWith(text string) *llm.Envelope {
	return &llm.Envelope{Candidates: []llm.Candidate{{Content: &llm.Content{Parts: []llm.Part{llm.TextPart(text)}}}}}
}

func rateLimited() result {
	return result{err: &llm.RateLimitError{Message: "429"}}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestCall_ThreeRateLimitsExhaust(t *testing.T) {
	gen := &scriptedGenerator{results: []result{rateLimited()}}
	a := New(gen, fastPolicy(), quietLogger())

	_, err := a.Call(context.Background(), "p")

	var exhausted *RetriesExhaustedError
	require.True(t, errors.As(err, &exhausted), "expected RetriesExhaustedError, got %v", err)
	assert.Equal(t, 3, gen.Calls())
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3*time.Millisecond, exhausted.Waited) // 1ms + 2ms

	var rateErr *llm.RateLimitError
	assert.True(t, errors.As(err, &rateErr))
}

func TestCall_RateLimitThenSuccess(t *testing.T) {
	gen := &scriptedGenerator{results: []result{rateLimited(), {env: envelopeWith("ok")}}}
	a := New(gen, fastPolicy(), quietLogger())

	env, err := a.Call(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, 2, gen.Calls())
	text, err := ExtractContent(env)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestCall_OtherErrorIsFatal(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: &llm.UnavailableError{Message: "503", StatusCode: 503}}}}
	a := New(gen, fastPolicy(), quietLogger())

	_, err := a.Call(context.Background(), "p")

	var unavailable *llm.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 1, gen.Calls())
}

func TestCall_MalformedIsNotRetried(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: &llm.MalformedResponseError{Message: "bad"}}}}
	a := New(gen, fastPolicy(), quietLogger())

	_, err := a.Call(context.Background(), "p")

	var malformed *llm.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, gen.Calls())
}

func TestCall_CancelDuringBackoff(t *testing.T) {
	gen := &scriptedGenerator{results: []result{rateLimited()}}
	a := New(gen, RetryPolicy{MaxAttempts: 3, BaseDelay: 10 * time.Second}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := a.Call(ctx, "p")

	var interrupted *InterruptedError
	require.True(t, errors.As(err, &interrupted), "expected InterruptedError, got %v", err)
	assert.Equal(t, 1, interrupted.Attempt)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.Calls(), "no attempts after cancellation")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCall_ContextAlreadyDone(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{err: &llm.UnavailableError{Message: "context canceled", Cause: context.Canceled}}}}
	a := New(gen, fastPolicy(), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Call(ctx, "p")

	var interrupted *InterruptedError
	assert.True(t, errors.As(err, &interrupted))
}

func TestCall_ZeroAttemptsStillCallsOnce(t *testing.T) {
	gen := &scriptedGenerator{results: []result{rateLimited()}}
	a := New(gen, RetryPolicy{}, quietLogger())

	_, err := a.Call(context.Background(), "p")

	var exhausted *RetriesExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 1, gen.Calls())
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestExtractContent_Gaps(t *testing.T) {
	tests := []struct {
		name string
		env  *llm.Envelope
	}{
		{"nil envelope", nil},
		{"no candidates", &llm.Envelope{}},
		{"no content", &llm.Envelope{Candidates: []llm.Candidate{{}}}},
		{"no parts", &llm.Envelope{Candidates: []llm.Candidate{{Content: &llm.Content{}}}}},
		{"no text", &llm.Envelope{Candidates: []llm.Candidate{{Content: &llm.Content{Parts: []llm.Part{{}}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractContent(tt.env)
			var malformed *llm.MalformedResponseError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestParseResult(t *testing.T) {
	original := strings.Repeat("r", MaxResumeChars+50)

	res, err := ParseResult(modelPayload, original)
	require.NoError(t, err)

	assert.Equal(t, original, res.ResumeText)
	assert.Equal(t, 81.5, res.Score)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, []string{"kafka"}, res.Analysis.MissingKeywords)
	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, "s-1", res.Suggestions[0].ID)
	assert.Equal(t, "suggestion-2", res.Suggestions[1].ID)
	assert.Equal(t, types.NoIndex, res.Suggestions[1].StartIndex)
	assert.Equal(t, types.SuggestionGrammar, res.Suggestions[1].Type)
	require.NotNil(t, res.ResumeData)
	assert.Equal(t, "Acme", res.ResumeData.Experience[0].Company)
}

func TestParseResult_FencesAndProse(t *testing.T) {
	raw := "```json\nHere is the analysis you asked for:\n" + modelPayload + "\nGood luck!\n```"

	res, err := ParseResult(raw, "resume")
	require.NoError(t, err)
	assert.Equal(t, 81.5, res.Score)
}

func TestParseResult_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no object", "Sorry, I cannot help with that."},
		{"truncated object", `{"analysis": {"matchScore": 50`},
		{"missing analysis", `{"suggestions": []}`},
		{"wrong score type", `{"analysis": {"matchScore": "eighty"}}`},
		{"unknown suggestion type", `{"analysis": {"matchScore": 50}, "suggestions": [{"type": "rewrite", "suggestedText": "x", "priority": "high"}]}`},
		{"unknown priority", `{"analysis": {"matchScore": 50}, "suggestions": [{"type": "content", "suggestedText": "x", "priority": "urgent"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult(tt.raw, "resume")
			var malformed *llm.MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "expected MalformedResponseError, got %v", err)
		})
	}
}

func TestParseResult_DefaultsSuggestionEnums(t *testing.T) {
	resp, err := ParseResult(`{"analysis": {"matchScore": 50}, "suggestions": [{"suggestedText": "x", "type": null}]}`, "resume")
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, types.SuggestionContent, resp.Suggestions[0].Type)
	assert.Equal(t, types.PriorityMedium, resp.Suggestions[0].Priority)
	assert.Equal(t, "suggestion-1", resp.Suggestions[0].ID)
}

func TestAnalyze_EndToEnd(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{env: envelopeWith(modelPayload)}}}
	a := New(gen, fastPolicy(), quietLogger())

	res, err := a.Analyze(context.Background(), "Go engineer building reports", "Go and Kafka engineer")
	require.NoError(t, err)

	assert.Equal(t, "Go engineer building reports", res.ResumeText)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Go engineer building reports")
	assert.Contains(t, gen.prompts[0], "kafka")
}

func TestAnalyze_InvalidInput(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{env: envelopeWith(modelPayload)}}}
	a := New(gen, fastPolicy(), quietLogger())

	_, err := a.Analyze(context.Background(), "  ", "jd")
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "resumeText", invalid.Field)

	_, err = a.Analyze(context.Background(), "resume", "")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "jobDescription", invalid.Field)

	assert.Zero(t, gen.Calls())
}

func TestAnalyze_MalformedEnvelopeNotRetried(t *testing.T) {
	gen := &scriptedGenerator{results: []result{{env: &llm.Envelope{}}}}
	a := New(gen, fastPolicy(), quietLogger())

	_, err := a.Analyze(context.Background(), "resume", "jd")

	var malformed *llm.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, gen.Calls())
}
