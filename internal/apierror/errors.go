// Package apierror defines the error kinds surfaced to HTTP clients and the
// status code and envelope label each one maps to.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client-visible failure.
type Kind int

const (
	Internal Kind = iota
	ServerMisconfigured
	Unauthorized
	InvalidRequest
	InvalidPersona
	TokenGenerationFailed
	UpstreamRequestFailed
	NotFound
)

var kindInfo = map[Kind]struct {
	status int
	label  string
}{
	Internal:              {http.StatusInternalServerError, "Internal server error"},
	ServerMisconfigured:   {http.StatusInternalServerError, "Server misconfiguration"},
	Unauthorized:          {http.StatusUnauthorized, "Unauthorized"},
	InvalidRequest:        {http.StatusBadRequest, "Invalid request"},
	InvalidPersona:        {http.StatusBadRequest, "Invalid personaId"},
	TokenGenerationFailed: {http.StatusInternalServerError, "Token generation failed"},
	UpstreamRequestFailed: {http.StatusInternalServerError, "OpenAI request failed"},
	NotFound:              {http.StatusNotFound, "Endpoint not found"},
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if info, ok := kindInfo[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Label returns the value of the envelope's "error" field.
func (k Kind) Label() string {
	if info, ok := kindInfo[k]; ok {
		return info.label
	}
	return kindInfo[Internal].label
}

// Error is a failure that handlers render as {error, message}.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error whose message is the cause's message.
func Wrap(kind Kind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Label()
	}
	return e.Kind.Label() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

// From extracts an *Error from err, classifying anything else as Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Wrap(Internal, err)
}
