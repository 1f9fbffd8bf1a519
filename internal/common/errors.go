package common

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed caller input (import documents, symbols,
// purchase fields). Surfaced to the caller, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// QuoteFetchError captures a per-symbol quote retrieval failure. Recovered
// locally by falling back to the cached price where one exists; the symbol is
// otherwise omitted from the metrics pass.
type QuoteFetchError struct {
	Symbol string
	Err    error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("quote fetch failed for %s: %v", e.Symbol, e.Err)
}

func (e *QuoteFetchError) Unwrap() error {
	return e.Err
}

// PersistenceError indicates the backing store was unavailable or a write
// failed. The calculation engine never sees this; hosts treat unavailable
// storage as empty state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ErrNotFound is returned by stores when a requested document does not exist.
var ErrNotFound = errors.New("not found")
