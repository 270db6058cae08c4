package learn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBaseURL is returned for a base URL without scheme or host.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrHTTPClientRequired is returned when a nil HTTP client is supplied.
	ErrHTTPClientRequired = errors.New("http client is required")

	// ErrInvalidTimeout is returned for a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidMaxRetries is returned for a negative retry count.
	ErrInvalidMaxRetries = errors.New("max retries must not be negative")

	// ErrMalformedResponse is returned when the response body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed search response")
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("documentation search returned status %d", e.Code)
}
