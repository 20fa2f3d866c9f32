// Package apperror carries the HTTP status of expected failures from the
// services to the response layer.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is a failure the client can act on
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected field, using its JSON name
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

var internal = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}

// NewAppError creates an error with an explicit status
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError is a 422 listing every rejected field
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError is a 404 for resource, e.g. "Sale not found"
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// GetAppError finds the AppError in err's chain. Anything else is reported
// as a bare 500 so driver messages never reach the client.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return internal
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	return GetAppError(err).Code
}
