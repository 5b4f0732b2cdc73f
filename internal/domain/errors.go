package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when caller input fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyName is returned when a task is submitted without a company name.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCode is returned when a task is submitted without a stock code.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrEmptyIDList is returned when a status query or deletion names no task ids.
	ErrEmptyIDList = errors.New("task id list cannot be empty")

	// ErrTaskNotFound is returned when a task id is not present in the registry.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists is returned when inserting a task id that is already registered.
	ErrTaskExists = errors.New("task already exists")

	// ErrInvalidTransition is returned when a status change would move a task
	// backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid task status transition")
)

// ValidationError describes which input field was rejected and why.
// It wraps an underlying sentinel so callers can match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as a match for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
