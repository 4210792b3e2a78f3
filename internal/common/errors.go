package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// service specific errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
)

// Error codes carried in the response envelope.
const (
	CodeAuth        = "AUTH_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	CodeMethod      = "METHOD_NOT_ALLOWED"
)

// AppError is an error that knows how it is presented to API clients.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	switch {
	case e.cause != nil:
		return e.cause
	case e.Code == CodeNotFound:
		return ErrNotFound
	case e.Code == CodeAuth:
		return ErrUnauthorized
	case e.Code == CodeValidation:
		return ErrValidation
	}
	return nil
}

// NotFound reports a missing resource, e.g. NotFound("Trip") -> "Trip not found".
func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found", Status: http.StatusNotFound}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string, cause error) *AppError {
	if message == "" {
		message = "Authentication failed"
	}
	return &AppError{Code: CodeAuth, Message: message, Status: http.StatusUnauthorized, cause: cause}
}

// Validation reports malformed input.
func Validation(message string, details map[string]any) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: http.StatusUnprocessableEntity, Details: details}
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: "An unexpected error occurred", Status: http.StatusInternalServerError, cause: cause}
}

// AsAppError classifies err. Bare sentinels map onto their AppError counterpart,
// anything else becomes INTERNAL_ERROR.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("Resource")
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("", err)
	case errors.Is(err, ErrValidation):
		return Validation(err.Error(), nil)
	}
	return Internal(err)
}
