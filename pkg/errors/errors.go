// Package errors holds the typed errors that cross package boundaries.
// Every one of them knows the HTTP status the server answers with, so
// handlers map failures with HTTPStatus instead of per-type switches.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeRequest    = "REQUEST_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

// AppError is the common core. Message is safe to show to a caller;
// Cause is not.
type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) app() *AppError {
	return e
}

type appError interface {
	error
	app() *AppError
}

func find(err error) (*AppError, bool) {
	var ae appError
	if !stderrors.As(err, &ae) {
		return nil, false
	}
	return ae.app(), true
}

// NewNotFoundError builds a 404 error. Values made with it work as
// sentinels for errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Message: message, Code: CodeNotFound, StatusCode: http.StatusNotFound}
}

// HTTPStatus reports the status the nearest typed error in err's chain
// maps to. Untyped errors are 500. Upstream provider statuses never leak:
// an APIError is always 502.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	ae, ok := find(err)
	if !ok || ae.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return ae.StatusCode
}

// Message returns the caller-facing message, without causes. Server
// errors collapse to the status text.
func Message(err error) string {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	if ae, ok := find(err); ok {
		return ae.Message
	}
	return err.Error()
}

// Field returns the offending input path if err carries one.
func Field(err error) string {
	var verr *ValidationError
	if stderrors.As(err, &verr) {
		return verr.Field
	}
	return ""
}

// APIError wraps a failed call to an external model provider. StatusCode
// is the provider's, or 0 when the failure never reached HTTP.
type APIError struct {
	*AppError
	Provider string
}

func NewAPIError(message, provider string, statusCode int, cause error) *APIError {
	return &APIError{
		AppError: &AppError{Message: message, Code: CodeAPIError, StatusCode: statusCode, Cause: cause},
		Provider: provider,
	}
}

// ValidationError points at one offending field of a manifest or request.
type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{Message: message, Code: CodeValidation, StatusCode: http.StatusUnprocessableEntity},
		Field:    field,
		Value:    value,
	}
}

// NewRequestError is a ValidationError for input the server refuses to
// process at all (400 rather than 422).
func NewRequestError(message, field string) *ValidationError {
	return &ValidationError{
		AppError: &AppError{Message: message, Code: CodeRequest, StatusCode: http.StatusBadRequest},
		Field:    field,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

// NewCacheError reports a session store failure as 503: the request was
// fine, the backing store was not.
func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError:  &AppError{Message: message, Code: CodeCache, StatusCode: http.StatusServiceUnavailable, Cause: cause},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError:  &AppError{Message: message, Code: CodeService, StatusCode: http.StatusInternalServerError, Cause: cause},
		Service:   service,
		Operation: operation,
	}
}

// ConfigError names the environment key whose value is unusable.
type ConfigError struct {
	*AppError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{Message: message, Code: CodeConfig, StatusCode: http.StatusInternalServerError},
		Key:      key,
	}
}
