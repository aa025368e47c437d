package apperr

import (
	"errors"
	"fmt"
)

// ValidationError indicates a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation creates a validation error for a specific field
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError indicates a referenced entity does not exist or does not
// satisfy a required precondition.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound creates a not-found error for a resource
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps a persistence error with the failed operation name
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
