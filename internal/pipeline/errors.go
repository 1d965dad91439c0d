package pipeline

import "fmt"

// NotConfiguredError is returned when a request needs a collaborator the service was built without
type NotConfiguredError struct {
	Component string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Component)
}

// SourceError wraps a failure to resolve one of the request inputs
type SourceError struct {
	Source  string // "resume" or "jobDescription"
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}
