package errors

import (
	"errors"
	"fmt"
)

// Kind partitions store errors into the four classes callers can act on.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindIntegrity  Kind = "integrity"
	KindStorage    Kind = "storage"
)

// AppError is the structured error surfaced across the command boundary.
// Code identifies the specific constraint or condition that failed, so a
// caller can tell apart, say, an exhausted quantity from an unknown
// medication without parsing the message.
type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped internal error, if any.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by kind and code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
	}
	return errors.Is(e.Internal, target)
}

// New creates an AppError with the given kind, code and message.
func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Wrap attaches kind, code and message to an underlying error.
func Wrap(err error, kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Internal: err}
}

// KindOf reports the kind of err, or an empty Kind for errors that did not
// originate in the store.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// NewValidationError reports malformed or constraint-violating input. The
// store state is unchanged and the caller may retry with corrected input.
func NewValidationError(code, message string) *AppError {
	return New(KindValidation, code, message)
}

// NewNotFoundError reports a referenced id that does not exist.
func NewNotFoundError(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

// NewIntegrityError reports a cross-entity invariant violation detected
// before any write.
func NewIntegrityError(code, message string) *AppError {
	return New(KindIntegrity, code, message)
}

// NewStorageError reports a durability or IO failure. Fatal for the
// operation; the store never leaves a record half-written.
func NewStorageError(err error) *AppError {
	return Wrap(err, KindStorage, "STORAGE", "storage operation failed")
}
