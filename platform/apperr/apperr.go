// Package apperr defines the typed errors domain services return. The HTTP
// layer maps each Kind to a status code, so handlers never hand-pick
// statuses themselves.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind categorizes an error for HTTP mapping.
type Kind int

const (
	// KindUnknown is the default when no kind was specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a missing resource.
	KindNotFound
	// KindValidation indicates invalid input.
	KindValidation
	// KindUnauthorized indicates failed or missing authentication.
	KindUnauthorized
	// KindInternal indicates an unexpected failure on our side.
	KindInternal
	// KindUpstream indicates a failure reported by an external backend
	// (e.g. the mail relay). StatusCode carries the upstream HTTP status.
	KindUpstream
)

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, optional
	Details any   // extra payload for the response, optional
	// StatusCode is the HTTP status an upstream service answered with.
	// Only meaningful for KindUpstream.
	StatusCode int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Unauthorized creates an authentication error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Upstream creates an error carrying the HTTP status the external service
// responded with.
func Upstream(statusCode int, message string) *Error {
	return &Error{Kind: KindUpstream, Message: message, StatusCode: statusCode}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return kind == KindUnknown
}
