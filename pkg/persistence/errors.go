// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrFormNotFound indicates a form was not found by the given identifier.
	ErrFormNotFound = errors.New("form not found")

	// ErrResponseNotFound indicates a response entry was not found.
	ErrResponseNotFound = errors.New("response entry not found")

	// ErrUserNotFound indicates no account matches the given identifier or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates an account with the same email already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// FormError wraps form-related errors with additional context.
type FormError struct {
	Op      string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	FormID  string // Form id or share id, whichever the lookup used
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *FormError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for form %s: %s (%v)", e.Op, e.FormID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for form %s: %v", e.Op, e.FormID, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for form errors.
func (e *FormError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFormError creates a new form error with context.
func NewFormError(op, formID string, err error) *FormError {
	return &FormError{
		Op:     op,
		FormID: formID,
		Err:    err,
	}
}

// UserError wraps account-related errors with additional context.
type UserError struct {
	Op    string // Operation being performed
	Email string // Account email if applicable
	Err   error  // Underlying error
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s operation failed for user %s: %v", e.Op, e.Email, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewUserError creates a new user error with context.
func NewUserError(op, email string, err error) *UserError {
	return &UserError{
		Op:    op,
		Email: email,
		Err:   err,
	}
}

// IsFormNotFound checks if an error indicates a form was not found.
func IsFormNotFound(err error) bool {
	return errors.Is(err, ErrFormNotFound)
}

// IsResponseNotFound checks if an error indicates a response entry was not found.
func IsResponseNotFound(err error) bool {
	return errors.Is(err, ErrResponseNotFound)
}

// IsUserNotFound checks if an error indicates an account was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsUserAlreadyExists checks if an error indicates a duplicate account email.
func IsUserAlreadyExists(err error) bool {
	return errors.Is(err, ErrUserAlreadyExists)
}
