// Package domain holds the error taxonomy shared by all layers of the
// booking service.
package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors for transport-level mapping.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeStorage    ErrorCode = "STORAGE_ERROR"
)

// AppError is the typed error carried across layer boundaries.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports invalid caller input. Never persisted.
func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// NewNotFoundError reports an operation targeting a record that does not exist.
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewStorageError wraps a failure from the storage backend with its cause
// attached for diagnostics. Not retried by the core.
func NewStorageError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeStorage, Message: message, Err: err}
}

// CodeOf returns the ErrorCode of err, or empty when err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND application error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsValidation reports whether err is a VALIDATION application error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}
