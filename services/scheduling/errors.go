package scheduling

import (
	"errors"
	"fmt"
)

// Kind classifies scheduling errors. The core is status-code-agnostic; the
// HTTP layer maps kinds to response codes.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindCapacity    Kind = "capacity"
	KindPersistence Kind = "persistence"
)

// Error is a classified scheduling failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError reports malformed or missing input. Raised before any
// store access; never retried.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing package, provider or booking.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewCapacityError reports exhausted availability; the caller may retry with
// different parameters, the core never retries itself.
func NewCapacityError(format string, args ...any) error {
	return &Error{Kind: KindCapacity, Message: fmt.Sprintf(format, args...)}
}

// NewPersistenceError wraps a store failure after rollback.
func NewPersistenceError(msg string, err error) error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// KindOf returns the kind of a scheduling error, or KindPersistence for
// anything unclassified.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPersistence
}
