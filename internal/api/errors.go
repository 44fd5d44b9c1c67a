package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the backend rejected the session (HTTP 401).
	ErrUnauthorized = errors.New("session rejected by backend")

	// ErrTransient covers network errors, timeouts, non-401 HTTP errors and
	// malformed payloads. Worth retrying.
	ErrTransient = errors.New("transient fetch failure")

	// ErrRateLimited means the backend reported upstream throttling.
	ErrRateLimited = errors.New("backend rate limited")

	ErrInvalidResponse = errors.New("invalid API response")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Is makes 401 match ErrUnauthorized and everything else ErrTransient.
func (e *StatusError) Is(target error) bool {
	if e.StatusCode == 401 {
		return target == ErrUnauthorized
	}
	return target == ErrTransient
}

// transient tags err as retryable while keeping the cause reachable.
func transient(err error) error {
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
