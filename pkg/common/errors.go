package common

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of engine error categories.
type ErrorKind string

const (
	// ErrValidation marks malformed input. Surfaced to the caller, never
	// retried internally.
	ErrValidation ErrorKind = "validation"
	// ErrNotFound marks an absent entity or an exhausted search. Expected
	// and user-facing, not a system fault.
	ErrNotFound ErrorKind = "not_found"
	// ErrTimeout marks an exceeded compute budget. Internal only; the
	// path finder degrades to BFS before surfacing it.
	ErrTimeout ErrorKind = "timeout"
	// ErrDependency marks a persistence or transport collaborator failure,
	// propagated with the underlying cause attached.
	ErrDependency ErrorKind = "dependency"
)

// Error is the engine's pure-data error: a kind, a message, and optional
// context. Algorithms use ordinary control flow for loop termination; Error
// values only cross component boundaries.
type Error struct {
	Kind    ErrorKind      `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// With attaches a context key/value pair and returns the error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewValidationError reports malformed input.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an absent entity or an exhausted search.
func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewTimeoutError reports an exceeded compute budget.
func NewTimeoutError(format string, args ...any) *Error {
	return &Error{Kind: ErrTimeout, Message: fmt.Sprintf(format, args...)}
}

// NewDependencyError reports a collaborator failure with its cause attached.
func NewDependencyError(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrDependency, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the ErrorKind from err, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == ErrValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == ErrNotFound }

// IsTimeout reports whether err is a compute-budget timeout.
func IsTimeout(err error) bool { return KindOf(err) == ErrTimeout }

// IsDependency reports whether err is a collaborator failure.
func IsDependency(err error) bool { return KindOf(err) == ErrDependency }
