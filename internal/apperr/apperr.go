// Package apperr defines the error taxonomy shared by all CRM services.
// Errors carry enough context to render a useful message and to map to an
// HTTP status without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing required field, an out-of-range value or
// an unresolved reference to another entity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against a nonexistent ID.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidTransitionError reports a status change that is not permitted from
// the record's current state. The record is left untouched.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: transition %s -> %s not allowed", e.Entity, e.From, e.To)
}

// StorageError reports unreadable or corrupt persisted state for one entity
// kind. Load paths recover by starting from an empty collection, but the
// error must be logged so the degradation is observable.
type StorageError struct {
	Kind string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
