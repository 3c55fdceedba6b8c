// Package common defines shared constants and sentinel errors used across
// client and server layers of the voice diary. Callers should use errors.Is
// (or errors.As for ValidationError) to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors; every ValidationError matches ErrInvalidInput.
	ErrInvalidInput = errors.New("invalid input")

	// Client-side capture and publish errors.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	ErrInvalidState      = errors.New("invalid state")
	ErrUploadFailure     = errors.New("upload failed")

	// Transport errors (server unreachable, deadline exceeded).
	ErrUnavailable = errors.New("server unavailable")
)

// ValidationError reports a user-correctable problem with a single input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
