// Package services provides the business operations behind the HTTP API:
// saving form documents, recording submissions and fetching shared forms.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors - these indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrFormNil          = errors.New("form cannot be nil")
	ErrEmptyShareID     = errors.New("share ID cannot be empty")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrStepOutOfRange   = errors.New("step index out of range")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrFormNil) ||
		errors.Is(err, ErrEmptyShareID) ||
		errors.Is(err, ErrInvalidFieldType) ||
		errors.Is(err, ErrStepOutOfRange)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
