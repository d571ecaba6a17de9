package ise

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError represents a non-success response from the ERS API.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	// Payload is the request body of a failed create or update.
	Payload any
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("ERS API %s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	if e.Payload != nil {
		msg += fmt.Sprintf(" (payload: %+v)", e.Payload)
	}

	return msg
}

// SessionError represents a failed UI API call.
type SessionError struct {
	// Op is the failed step: "login", "count" or "list".
	Op         string
	StatusCode int
	Body       string
	// Params is the decoded QPH parameter set of the failed request, if any.
	Params string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	msg := fmt.Sprintf("UI API %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	if e.Params != "" {
		msg += " (" + e.Params + ")"
	}

	return msg
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrBaseURLRequired    = errors.New("base URL is required")
	ErrCredentials        = errors.New("username and password are required")
	ErrUnexpectedShape    = errors.New("unexpected response shape")
	ErrPaginationLoop     = errors.New("next-page link points to an already fetched page")
	ErrSessionBusy        = errors.New("session client is already in use by another call")
	ErrInvalidPageSize    = errors.New("page size must be positive")
	ErrInvalidStart       = errors.New("start page must be positive")
	ErrInvalidTotalHeader = errors.New("invalid Content-Range header")
	ErrMissingIdentifier  = errors.New("resource has no identifier")
)

// IsNotFound checks if the error is a 404 from either interface.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 from either interface.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	remoteErr := &RemoteError{}
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode
	}

	sessionErr := &SessionError{}
	if errors.As(err, &sessionErr) {
		return sessionErr.StatusCode
	}

	return 0
}
