package model

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by the store, service and API layers. Use errors.Is.
var (
	// ErrNotFound means the entity does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("already exists")

	// ErrValidation means the input was malformed or incomplete.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized means no valid principal is attached to the request.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes rejected input. It matches ErrValidation.
type ValidationError struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewValidationError returns a ValidationError with a single message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
