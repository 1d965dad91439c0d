package llm

import (
	"fmt"
	"time"
)

// RateLimitError is returned when the upstream API rejects a call with HTTP 429.
// It is the only retryable error class.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration // zero when the upstream sent no hint
	Cause      error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream rate limited: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream rate limited: %s", e.Message)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// UnavailableError covers every other transport or HTTP failure
type UnavailableError struct {
	Message    string
	StatusCode int // zero for transport errors
	Cause      error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError means the upstream answered but the envelope or payload had the wrong shape
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed upstream response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed upstream response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
