package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("category already exists")
	// ErrDuplicateEmail is returned when a staff e-mail is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// ValidationError reports a request that violates a field rule.
// Message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps an unexpected persistence failure. Its detail is for logs
// only; handlers answer with a generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
