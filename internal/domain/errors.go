package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for translation at the API boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a domain error with a user-readable message. The message is safe
// to return to the caller; infrastructure errors must never be wrapped here.
type Error struct {
	kind    Kind
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

func Invalid(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

func Forbidden(message string) *Error {
	return &Error{kind: KindForbidden, message: message}
}

func NotFound(message string) *Error {
	return &Error{kind: KindNotFound, message: message}
}

func Conflict(message string) *Error {
	return &Error{kind: KindConflict, message: message}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{kind: KindConflict, message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the classification from an error chain.
// Unclassified errors are treated as infrastructure failures.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindUnknown
}
