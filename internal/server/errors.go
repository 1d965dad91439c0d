package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-rewrite/internal/analysis"
	"github.com/jonathan/resume-rewrite/internal/extraction"
	"github.com/jonathan/resume-rewrite/internal/fetch"
	"github.com/jonathan/resume-rewrite/internal/llm"
	"github.com/jonathan/resume-rewrite/internal/pipeline"
	"github.com/jonathan/resume-rewrite/internal/schemas"
	"github.com/jonathan/resume-rewrite/internal/storage"
	"github.com/jonathan/resume-rewrite/internal/typeset"
)

// DefaultRetryAfter is advertised when the upstream gave no retry hint
const DefaultRetryAfter = 30 * time.Second

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts validator output to the first failing field
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on " + fe.Tag()}
	}
	return &ErrValidation{Field: "(body)", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation     *ErrValidation
		invalidInput   *analysis.InvalidInputError
		schemaErr      *schemas.ValidationError
		unsupported    *extraction.UnsupportedTypeError
		notFound       *storage.NotFoundError
		exhausted      *analysis.RetriesExhaustedError
		rateLimited    *llm.RateLimitError
		interrupted    *analysis.InterruptedError
		notConfigured  *pipeline.NotConfiguredError
		compileTimeout *typeset.TimeoutError
		compileFailed  *typeset.CompilationError
		missingPDF     *typeset.MissingArtifactError
		emptyPosting   *fetch.EmptyContentError
		extractFailed  *extraction.ExtractionError
		unavailable    *llm.UnavailableError
		malformed      *llm.MalformedResponseError
		fetchFailed    *fetch.Error
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &invalidInput),
		errors.As(err, &schemaErr), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &exhausted), errors.As(err, &rateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &interrupted), errors.As(err, &notConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &compileTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &compileFailed), errors.As(err, &missingPDF),
		errors.As(err, &emptyPosting), errors.As(err, &extractFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable), errors.As(err, &malformed), errors.As(err, &fetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// retryAfter returns the wait to advertise for a rate-limited error
func retryAfter(err error) time.Duration {
	var rateLimited *llm.RateLimitError
	if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
		return rateLimited.RetryAfter
	}
	return DefaultRetryAfter
}

// writeError maps err to a status and writes it as a JSON error body
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusTooManyRequests:
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter(err).Seconds())))
	case http.StatusInternalServerError:
		s.logger.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
