package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the response taxonomy. Callers match with
// errors.Is; the concrete *Error carries status and server message.
var (
	// ErrUnauthorized is an expired or invalid credential (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a denied operation (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrServer is a backend fault (HTTP 5xx).
	ErrServer = errors.New("server error")
	// ErrRequest is any other client-side rejection (HTTP 4xx).
	ErrRequest = errors.New("request failed")
	// ErrNetwork means no response was received at all.
	ErrNetwork = errors.New("cannot reach server")
)

// Error is a classified API failure.
type Error struct {
	Status  int
	Message string
	kind    error
	cause   error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind error, status int, message string, cause error) *Error {
	return &Error{Status: status, Message: message, kind: kind, cause: cause}
}

// IsUnauthorized reports whether err is an authorization rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ServerMessage extracts the server-supplied message from a classified
// error, or empty when there is none.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
