package errors

import (
	"fmt"
	"net/http"
)

// AppError is an error with a stable code, a message safe to show to
// clients and the HTTP status it maps to.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	// Cause is logged server-side and never serialized.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets Cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail entry and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError. Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// NotFound reports a missing resource. id is omitted from details when empty.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// Validation reports rejected form input.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// TooLarge reports a request body over limit bytes.
func TooLarge(limit int64) *AppError {
	return New(ErrCodeTooLarge, fmt.Sprintf("Request body exceeds %d bytes.", limit), http.StatusRequestEntityTooLarge).
		WithDetail("limit", limit)
}

// RateLimited reports a client over its request budget.
func RateLimited(retryAfterSeconds int) *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please slow down.", http.StatusTooManyRequests).
		WithDetail("retry_after", retryAfterSeconds)
}

// UnknownBackend reports a storage backend name nobody registered.
func UnknownBackend(name string) *AppError {
	return New(ErrCodeUnknownBackend, fmt.Sprintf("Storage backend %q is not registered.", name), http.StatusInternalServerError).
		WithDetail("backend", name)
}

// StorageFailed reports a backend operation that failed.
func StorageFailed(backend string, cause error) *AppError {
	return New(ErrCodeStorage, "The file could not be stored. Please try again.", http.StatusInternalServerError).
		WithDetail("backend", backend).
		WithCause(cause)
}

// ServiceUnavailable reports a remote dependency that is temporarily down.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

// Internal hides cause behind a generic 500.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).
		WithCause(cause)
}
