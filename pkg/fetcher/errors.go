package fetcher

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetcher.
var (
	// ErrAttemptsExhausted is returned when all fetch attempts are exhausted.
	ErrAttemptsExhausted = errors.New("fetch attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// FetchError is the terminal failure of a fetch call: every attempt failed
// and the last cause is carried for diagnostics.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the ErrAttemptsExhausted sentinel so callers can test for
// exhaustion without looking at the concrete type.
func (e *FetchError) Is(target error) bool {
	return target == ErrAttemptsExhausted
}

// StatusError reports a non-2xx upstream response. The retry policy is
// status-agnostic: a 404 and a 503 are equally transient from the fetcher's
// point of view, so no classification by status code happens here.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %s", e.Status)
}
