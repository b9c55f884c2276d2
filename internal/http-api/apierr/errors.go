package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error so handlers can translate it into an HTTP
// status without inspecting message text.
type Kind int

const (
	Validation Kind = iota // malformed or semantically invalid input
	Authentication         // missing or invalid credentials
	Permission             // authenticated but not allowed
	NotFound               // referenced resource does not exist
	Conflict               // uniqueness or business-rule violation
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the underlying cause available via errors.Unwrap while
// classifying it for the request boundary.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an API error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// Status maps an error onto its HTTP status code. Conflicts surface as 400:
// duplicate usernames, emails, slugs and repeat reviews are reported to the
// client as bad requests, the same way field validation failures are.
// Anything unclassified is a plain server fault.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Permission:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for err. Unclassified errors get
// a generic message so internals never leak into response bodies.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
