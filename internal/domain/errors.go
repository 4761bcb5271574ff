package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// city or point of interest does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails validation
// (missing name, field too long, a patch that cannot be applied).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller's city scope does not cover the
// requested city. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// FieldError describes a single rejected field of an input DTO.
type FieldError struct {
	Field   string `json:"field" xml:"field"`
	Message string `json:"message" xml:"message"`
}

// ValidationError carries the full list of field errors for a rejected input.
// It unwraps to ErrValidation so callers can keep using errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
