package analysis

import (
	"fmt"
	"time"
)

// InvalidInputError is returned before any upstream call when required text is missing
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// RetriesExhaustedError is returned when every attempt was rate limited.
// Cause is the last *llm.RateLimitError.
type RetriesExhaustedError struct {
	Attempts int
	Waited   time.Duration
	Cause    error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("upstream still rate limited after %d attempts (waited %s): %v", e.Attempts, e.Waited, e.Cause)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Cause
}

// InterruptedError is returned when the caller's context ends during a call or a backoff wait
type InterruptedError struct {
	Attempt int
	Cause   error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("analysis interrupted during attempt %d: %v", e.Attempt, e.Cause)
}

func (e *InterruptedError) Unwrap() error {
	return e.Cause
}
