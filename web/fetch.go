// Package web retrieves web pages and extracts their text content.
package web

import (
	"context"
	"fmt"
)

// FetchInput contains parameters for fetching a web page.
type FetchInput struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Fetcher retrieves a web page as a text Document.
type Fetcher interface {
	Fetch(ctx context.Context, input *FetchInput) (*Document, error)
}

// FetchError contains information about a fetch error.
type FetchError struct {
	StatusCode int
	Err        error
}

// NewFetchError creates a new FetchError with the given status code and error.
func NewFetchError(statusCode int, err error) *FetchError {
	return &FetchError{StatusCode: statusCode, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed with status code %d: %s", e.StatusCode, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) IsRecoverable() bool {
	return e.StatusCode == 429 || // Too Many Requests
		e.StatusCode == 500 || // Internal Server Error
		e.StatusCode == 502 || // Bad Gateway
		e.StatusCode == 503 || // Service Unavailable
		e.StatusCode == 504 // Gateway Timeout
}
