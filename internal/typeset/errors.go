package typeset

import (
	"fmt"
	"time"
)

// TimeoutError is returned when the compiler runs past its deadline.
// The process group has been killed and reaped by the time it is returned.
type TimeoutError struct {
	Timeout time.Duration
	Output  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("typeset timeout: compiler did not finish within %s", e.Timeout)
}

// CompilationError represents a compiler that could not be started or exited non-zero
type CompilationError struct {
	Message  string
	ExitCode int
	Output   string
	Cause    error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("typeset compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("typeset compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// MissingArtifactError is returned when the compiler exits 0 without producing its output file
type MissingArtifactError struct {
	Name   string
	Output string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("typeset error: compiler exited successfully but %s was not produced", e.Name)
}
