package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned at the engine boundary.
// The matching core itself never returns errors; these guard its inputs.
var (
	// ErrInvalidQuestionID indicates that a question identifier could not be
	// parsed or lies outside the configured layout.
	ErrInvalidQuestionID = errors.New("invalid question id")

	// ErrInvalidSnapshot indicates that a round snapshot violates the
	// engine's input contract.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrEmptyValue indicates that a required value is empty or nil.
	ErrEmptyValue = errors.New("empty value")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// QuestionIDError represents a failure to interpret a question identifier.
type QuestionIDError struct {
	// Input is the raw identifier that was rejected.
	Input string

	// Reason describes why the identifier was rejected.
	Reason string
}

// Error implements the error interface for QuestionIDError.
func (e *QuestionIDError) Error() string {
	return fmt.Sprintf("question id %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrInvalidQuestionID so callers can match with errors.Is.
func (e *QuestionIDError) Unwrap() error { return ErrInvalidQuestionID }

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// AddErrorf formats and adds a new error message to the validation error.
func (e *ValidationError) AddErrorf(format string, args ...any) {
	e.AddError(fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
