// Package errors defines the failure taxonomy of a profile query.
//
// Every failure surfaced to the caller carries a Kind so presentation code can
// branch on it without parsing messages:
//
//	if errors.Is(err, errors.KindNotFound) {
//	    // subject does not exist
//	}
//
// Message is the single user-facing line shown for a failed query.
package errors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure category.
type Kind string

const (
	// KindNotFound means the subject does not exist on the remote.
	KindNotFound Kind = "NOT_FOUND"
	// KindAccessDenied is a generic 403 from the remote.
	KindAccessDenied Kind = "ACCESS_DENIED"
	// KindRateLimited is a 403 (or rate-limit response) indicating exhausted quota.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindFetchFailed covers any other non-success status or transport error.
	KindFetchFailed Kind = "FETCH_FAILED"
	// KindInvalidInput is raised before any request is issued.
	KindInvalidInput Kind = "INVALID_INPUT"
)

// Error is a classified failure with an optional HTTP status and cause.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithStatus records the HTTP status that produced the error.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the Kind from err, or "" if err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns the message to show for err without the kind prefix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
