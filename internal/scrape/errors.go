package scrape

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNoText is returned when a page has no extractable text.
	ErrNoText = errors.New("no extractable text")
)

// StatusError is a non-success HTTP response from the page's server.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Blocked reports whether the server refused to serve the page, which
// usually means it is blocking scrapers.
func (e *StatusError) Blocked() bool {
	return e.StatusCode == http.StatusForbidden
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable fetch error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable fetch error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }
