package qtest

import (
	"errors"
	"fmt"
)

// APIError represents a failure reported by the test-management API.
// Status code and reason are preserved so callers can report the remote
// failure verbatim.
type APIError struct {
	// StatusCode is the HTTP status returned by the API.
	StatusCode int

	// Reason is the status text or error body returned by the API.
	Reason string

	// Operation names the client operation that failed.
	Operation string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("the test-management API reported an error during %s: status %d: %s",
		e.Operation, e.StatusCode, e.Reason)
}

// IsAPIError checks if an error is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
