package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested note or run does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDocumentIO is returned when reading or writing a note fails.
	ErrDocumentIO = errors.New("document read/write failed")
)

// ValidationError represents a validation error with a field name.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
