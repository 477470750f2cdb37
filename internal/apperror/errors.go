// Package apperror tags service-level failures with a kind so callers can
// tell validation, integrity and persistence problems apart.
package apperror

import "errors"

// Kind classifies a failure.
type Kind string

const (
	KindValidation  Kind = "VALIDATION_ERROR"
	KindIntegrity   Kind = "INTEGRITY_ERROR"
	KindNotFound    Kind = "NOT_FOUND"
	KindPersistence Kind = "PERSISTENCE_ERROR"
)

// Error is a tagged, human-readable failure.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or missing input.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationFields reports per-field validation failures.
func ValidationFields(fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Integrity reports a dangling parent reference or a duplicate key.
func Integrity(message string) error {
	return &Error{Kind: KindIntegrity, Message: message}
}

// NotFound reports that the record addressed by key does not exist.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Persistence wraps a storage failure.
func Persistence(message string, err error) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindPersistence for untagged errors.
// It returns "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// FieldsOf returns the per-field messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
