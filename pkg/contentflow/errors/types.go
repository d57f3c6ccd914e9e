package errors

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the model returned no text.
var ErrEmptyResponse = errors.New("empty response from model")

// HTTPError represents a provider API failure with a status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Provider   string
	Err        error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the provider SDK error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// JSONParseError indicates failure to parse JSON from model output.
type JSONParseError struct {
	Input   string
	Message string
}

// Error implements the error interface.
func (e *JSONParseError) Error() string {
	return fmt.Sprintf("JSON parse error: %s", e.Message)
}

// TimeoutError indicates an operation timed out.
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s: %s", e.Duration, e.Operation)
}
