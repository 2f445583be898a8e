package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when the server has no active session for this
	// client: the refresh endpoint answered 401. It is an expected state, not
	// a failure — callers that start silently swallow it.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidCredentials is the normalized login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// APIError is a non-2xx response from the server, carrying the envelope
// message when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}
