package internal

import (
	"errors"
	"fmt"
)

// ConfigurationError reports missing or invalid configuration such as an absent API key.
// It is never retried.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// ExternalToolError reports a failed yt-dlp invocation or unparseable tool output
type ExternalToolError struct {
	Stderr string
	Err    error
}

func (e *ExternalToolError) Error() string {
	if e.Stderr != "" || e.Err == nil {
		return "yt-dlp error: " + e.Stderr
	}
	return "Error extracting playlist: " + e.Err.Error()
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// BackendError reports a failed call to the summarization backend
type BackendError struct {
	Attempts int
	Err      error
}

func (e *BackendError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("Failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// MalformedRequestError reports missing or invalid request fields
type MalformedRequestError struct {
	Msg string
}

func (e *MalformedRequestError) Error() string {
	return e.Msg
}

// ErrEmptyResponse is returned when the backend answers with no text
var ErrEmptyResponse = errors.New("empty response from backend")

// IsClientError reports whether err belongs to a known, caller-facing category
func IsClientError(err error) bool {
	var (
		cfgErr  *ConfigurationError
		toolErr *ExternalToolError
		backErr *BackendError
		reqErr  *MalformedRequestError
	)
	return errors.As(err, &cfgErr) ||
		errors.As(err, &toolErr) ||
		errors.As(err, &backErr) ||
		errors.As(err, &reqErr)
}
