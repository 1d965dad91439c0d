// Package analysis orchestrates the model-backed résumé analysis: prompt construction,
// the rate-limit retry loop, envelope extraction and payload parsing.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-rewrite/internal/llm"
	"github.com/jonathan/resume-rewrite/internal/schemas"
	"github.com/jonathan/resume-rewrite/internal/types"
)

// validate checks the enumerations of decoded suggestions
var validate = validator.New()

// Analyzer runs one analysis per call. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	gen    llm.Generator
	policy RetryPolicy
	logger *log.Logger
}

// New creates an Analyzer. A nil logger uses the standard logger.
func New(gen llm.Generator, policy RetryPolicy, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.Default()
	}
	return &Analyzer{gen: gen, policy: policy, logger: logger}
}

// Analyze validates the inputs, calls the model and parses its answer
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*types.AnalysisResponse, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &InvalidInputError{Field: "resumeText", Message: "resume text is required"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InvalidInputError{Field: "jobDescription", Message: "job description is required"}
	}

	env, err := a.Call(ctx, BuildPrompt(resumeText, jobDescription))
	if err != nil {
		return nil, err
	}

	text, err := ExtractContent(env)
	if err != nil {
		return nil, err
	}

	result, err := ParseResult(text, resumeText)
	if err != nil {
		a.logger.Printf("[analysis] model output failed to parse (%d chars): %v", len(text), err)
		return nil, err
	}
	return result, nil
}

// Call submits the prompt, retrying only rate-limit failures with linear backoff.
// Any other failure is returned immediately. Cancellation during a call or a wait
// ends the loop with *InterruptedError.
func (a *Analyzer) Call(ctx context.Context, prompt string) (*llm.Envelope, error) {
	maxAttempts := a.policy.attempts()

	var (
		attempt int
		lastErr error
		waited  time.Duration
	)
	for attempt = 1; attempt <= maxAttempts; attempt++ {
		env, err := a.gen.Generate(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				a.logger.Printf("[analysis] upstream call succeeded on attempt %d", attempt)
			}
			return env, nil
		}
		if ctx.Err() != nil {
			return nil, &InterruptedError{Attempt: attempt, Cause: ctx.Err()}
		}

		var rateErr *llm.RateLimitError
		if !errors.As(err, &rateErr) {
			return nil, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		delay := a.policy.Delay(attempt)
		a.logger.Printf("[analysis] rate limited on attempt %d/%d, retrying in %s", attempt, maxAttempts, delay)
		if err := sleep(ctx, delay); err != nil {
			return nil, &InterruptedError{Attempt: attempt, Cause: err}
		}
		waited += delay
	}

	return nil, &RetriesExhaustedError{Attempts: maxAttempts, Waited: waited, Cause: lastErr}
}

// sleep blocks for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExtractContent returns candidates[0].content.parts[0].text
func ExtractContent(env *llm.Envelope) (string, error) {
	switch {
	case env == nil:
		return "", &llm.MalformedResponseError{Message: "empty envelope"}
	case len(env.Candidates) == 0:
		return "", &llm.MalformedResponseError{Message: "no candidates in response"}
	case env.Candidates[0].Content == nil:
		return "", &llm.MalformedResponseError{Message: "first candidate has no content"}
	case len(env.Candidates[0].Content.Parts) == 0:
		return "", &llm.MalformedResponseError{Message: "first candidate has no parts"}
	case env.Candidates[0].Content.Parts[0].Text == nil:
		return "", &llm.MalformedResponseError{Message: "first part has no text"}
	}
	return *env.Candidates[0].Content.Parts[0].Text, nil
}

// ParseResult decodes the model's output into an AnalysisResponse.
// Code fences and prose around the JSON object are tolerated; unknown fields are ignored.
// originalResume is attached as-is, untruncated.
func ParseResult(raw, originalResume string) (*types.AnalysisResponse, error) {
	payload, ok := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
	if !ok {
		return nil, &llm.MalformedResponseError{Message: "no JSON object in model output"}
	}

	if err := schemas.ValidateAnalysisPayload(payload); err != nil {
		return nil, &llm.MalformedResponseError{Message: "payload does not match the analysis schema", Cause: err}
	}

	var result types.AnalysisResponse
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, &llm.MalformedResponseError{Message: "failed to decode payload", Cause: err}
	}

	result.ResumeText = originalResume
	if result.Analysis != nil {
		result.Score = result.Analysis.MatchScore
	}
	if result.Suggestions == nil {
		result.Suggestions = []types.Suggestion{}
	}
	for i := range result.Suggestions {
		sg := &result.Suggestions[i]
		if sg.ID == "" {
			sg.ID = fmt.Sprintf("suggestion-%d", i+1)
		}
		if sg.Type == "" {
			sg.Type = types.SuggestionContent
		}
		if sg.Priority == "" {
			sg.Priority = types.PriorityMedium
		}
		if err := validate.Struct(sg); err != nil {
			return nil, &llm.MalformedResponseError{Message: fmt.Sprintf("suggestion %d is invalid", i+1), Cause: err}
		}
	}
	return &result, nil
}
