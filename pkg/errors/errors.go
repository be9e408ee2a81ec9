package errors

import (
	"errors"
	"fmt"
)

// Errors surfaced by the leads API client and the dashboard views

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the API rejected the session (HTTP 401)
	ErrUnauthorized = errors.New("unauthorized - please log in again")

	// ErrAPIRequestFailed indicates any other non-2xx response from the API
	ErrAPIRequestFailed = errors.New("api request failed")

	// ErrMalformedResponse indicates a response body that is not valid JSON
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultAPIMessage is used when the API does not supply a message.
const DefaultAPIMessage = "API request failed"

// APIError carries the status and server-supplied message of a failed request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap lets errors.Is match ErrAPIRequestFailed.
func (e *APIError) Unwrap() error {
	return ErrAPIRequestFailed
}

// NewAPIError builds an APIError, falling back to DefaultAPIMessage.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = DefaultAPIMessage
	}
	return &APIError{Status: status, Message: message}
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// MalformedResponseError wraps a decode failure
func MalformedResponseError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %v", operation, ErrMalformedResponse, err)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// UserMessage returns the text shown to a user for err.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
