// Package usecase implements the business logic for the prediction feature.
package usecase

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned when a required model collaborator is not loaded.
var ErrModelUnavailable = errors.New("model not available")

// ValidationError reports a malformed or missing request field.
// Handlers surface it as a 400 with the message as-is.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// newMissingFieldError reports the first missing schema column by name.
func newMissingFieldError(column string) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("Missing field: %s", column)}
}
