package summarize

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey means a cloud backend was selected without a credential.
var ErrNoAPIKey = errors.New("API key not configured; add your API key in Settings")

// ErrNoTranscript rejects empty transcripts before any HTTP dispatch.
var ErrNoTranscript = errors.New("no transcript available for this video")

// APIError is a non-success backend response with the raw body attached.
type APIError struct {
	Status int
	Body   string
}

// Error formats the backend failure for user-facing surfaces.
func (e *APIError) Error() string {
	return fmt.Sprintf("AI API error: status %d: %s", e.Status, e.Body)
}

// NetworkError wraps transport-level failures reaching a backend.
type NetworkError struct {
	Err error
}

// Error describes the connection failure.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError means the backend responded but the expected field path was
// absent or the body was not valid JSON.
type ParseError struct {
	Msg string
}

// Error describes what could not be extracted.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %s", e.Msg)
}
