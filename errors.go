package viewset

import (
	"errors"
	"net/http"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

// APIError is a failure signal that carries the HTTP status the framework
// boundary should answer with. Actions and storage hooks return it (directly
// or wrapped); the dispatcher translates it exactly once into a JSON error
// response. Errors of any other type are not translated and surface as 500s.
type APIError struct {
	// Status is the HTTP status code to answer with.
	Status int
	// Code is a stable machine-readable identifier derived from the
	// status text, e.g. "NOT_FOUND".
	Code string
	// Message is the human-readable detail sent to the client.
	Message string
	// Fields holds per-field validation messages. Only populated by
	// NewValidationError; rendered under "errors" in the response body.
	Fields map[string][]string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Is reports whether target is an *APIError with the same Code, so
// errors.Is(err, ErrNotFound) works on wrapped and custom-message errors.
func (e *APIError) Is(target error) bool {
	var apiErr *APIError
	if !errors.As(target, &apiErr) {
		return false
	}
	return e.Code == apiErr.Code
}

// WithMessage returns a copy of this error with Message replaced.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{
		Status:  e.Status,
		Code:    e.Code,
		Message: message,
		Fields:  e.Fields,
	}
}

// Sentinel instances for errors.Is checks. Return the New* constructors from
// your own code; compare against these.
var (
	ErrNotFound         = NewNotFound("")
	ErrBadRequest       = NewBadRequest("")
	ErrMethodNotAllowed = NewMethodNotAllowed()
	ErrNotImplemented   = NewNotImplemented("")
	ErrInternal         = NewInternalError()
)

func newStatusError(status int, message string) *APIError {
	text := http.StatusText(status)
	if message == "" {
		message = text
	}
	return &APIError{
		Status:  status,
		Code:    statusCode(text),
		Message: message,
	}
}

// NewNotFound creates a 404 error for a missing resource.
func NewNotFound(message string) *APIError {
	return newStatusError(http.StatusNotFound, message)
}

// NewBadRequest creates a 400 error for a malformed request,
// e.g. a body that is not valid JSON.
func NewBadRequest(message string) *APIError {
	return newStatusError(http.StatusBadRequest, message)
}

// NewValidationError creates a 400 error carrying the serializer's per-field
// error mapping verbatim.
func NewValidationError(fields map[string][]string) *APIError {
	err := newStatusError(http.StatusBadRequest, "Validation failed")
	err.Code = "VALIDATION_FAILED"
	err.Fields = fields
	return err
}

// NewMethodNotAllowed creates a 405 error for an action the viewset does not
// support. Unsupported actions normally produce no route at all, so this only
// fires from hand-written dispatch code.
func NewMethodNotAllowed() *APIError {
	return newStatusError(http.StatusMethodNotAllowed, "")
}

// NewNotImplemented creates a 501 error for an action whose backing hook is
// missing.
func NewNotImplemented(message string) *APIError {
	return newStatusError(http.StatusNotImplemented, message)
}

// NewInternalError creates a generic 500 error. The message is always the
// bare status text; internal detail belongs in logs, not responses.
func NewInternalError() *APIError {
	return newStatusError(http.StatusInternalServerError, "")
}

// statusCode converts an HTTP status text into UPPER_CASE_WITH_UNDERSCORES,
// e.g. "Method Not Allowed" -> "METHOD_NOT_ALLOWED".
func statusCode(text string) string {
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
