package github

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyIdentifier is returned when no repository identifier was supplied.
	ErrEmptyIdentifier = errors.New("repository identifier is empty")

	// ErrUnrecognizedIdentifier is returned for identifiers that are not an API URL,
	// a web URL, or owner/name.
	ErrUnrecognizedIdentifier = errors.New("unrecognized repository identifier")
)

// NetworkError indicates a network/transport error when calling the API
type NetworkError struct {
	URL     string // URL that failed
	Wrapped error  // Underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error while fetching %s: %v", e.URL, e.Wrapped)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string // "message" field of the error body, when present
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GitHub API returned HTTP %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("GitHub API returned HTTP %d for %s", e.StatusCode, e.URL)
}

// RateLimitError indicates the API refused the call because the rate limit is spent
type RateLimitError struct {
	URL string

	// RetryAfter is when the rate limit resets (X-RateLimit-Reset)
	RetryAfter time.Time

	// Limit is the rate limit that was exceeded (requests per hour)
	Limit int

	// Remaining is how many requests are left (should be 0 when this error occurs)
	Remaining int

	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter.IsZero() {
		return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d, HTTP %d) for %s", e.Remaining, e.Limit, e.StatusCode, e.URL)
	}
	wait := time.Until(e.RetryAfter)
	if wait < 0 {
		wait = 0
	}
	return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d, HTTP %d), resets in %v, for %s",
		e.Remaining, e.Limit, e.StatusCode, wait.Round(time.Minute), e.URL)
}

// ParseError indicates a response body that is not the expected JSON
type ParseError struct {
	URL     string
	Wrapped error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON from GitHub API response (%s): %v", e.URL, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
