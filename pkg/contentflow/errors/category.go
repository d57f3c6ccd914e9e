// Package errors classifies failures from LLM calls and retries the
// transient ones with exponential backoff.
//
// Each failure falls into one category:
//   - Transient: rate limits, timeouts, and server faults are retried.
//   - Permanent: auth and configuration failures are reported at once.
//   - Malformed: the model answered but the output was unusable.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Category represents how an error should be handled.
type Category int

const (
	// CategoryTransient indicates retry will likely help.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	CategoryPermanent

	// CategoryMalformed indicates the model responded with unusable output.
	// Retrying the same prompt may or may not help; callers decide.
	CategoryMalformed
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	case CategoryMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Attempts is the number of calls that were made.
	Attempts int

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Attempts)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Attempts)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// Transient creates a transient error.
func Transient(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTransient, context)
}

// Permanent creates a permanent error.
func Permanent(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryPermanent, context)
}

// Malformed creates a malformed-output error.
func Malformed(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryMalformed, context)
}

// Categorize determines how an error should be handled.
// Unknown errors are permanent.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return categorizeStatus(httpErr.StatusCode)
	}

	var jsonErr *JSONParseError
	if errors.As(err, &jsonErr) {
		return CategoryMalformed
	}

	if errors.Is(err, ErrEmptyResponse) {
		return CategoryMalformed
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return CategoryTransient
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient
	}

	return CategoryPermanent
}

func categorizeStatus(code int) Category {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return CategoryTransient
	case 400, 401, 403, 404:
		return CategoryPermanent
	default:
		if code >= 500 {
			return CategoryTransient
		}
		return CategoryPermanent
	}
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}

// IsMalformed reports whether the error is unusable model output.
func IsMalformed(err error) bool {
	return Categorize(err) == CategoryMalformed
}
