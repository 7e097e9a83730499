// Package errors defines the error types surfaced by the snoo client.
//
// Callers can distinguish three failure channels: TransportError (the HTTP
// exchange itself failed), APIError (Reddit accepted the request but reported
// an application-level error inside the response body) and StateError (the
// client was used incorrectly, e.g. an authenticated call while logged out).
// Recovery strategy differs per channel, so none of them wraps another.
package errors

import (
	"fmt"
	"strings"
)

// ConfigError indicates a problem with the client configuration or with
// parameters passed to a client method.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// StateError indicates an operation was attempted while the client is not in
// a state that permits it. It is always raised synchronously, before any
// network activity.
type StateError struct {
	// Operation is the name of the operation that was attempted
	Operation string
	// Message contains the detailed error message
	Message string
}

func (e *StateError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("state error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("state error: %s", e.Message)
}

// TransportError indicates the HTTP exchange could not complete, returned a
// status outside the success range, or returned an unexpected content type.
type TransportError struct {
	// Operation is the name of the API operation that failed
	Operation string
	// URL is the URL that was being accessed
	URL string
	// StatusCode is the HTTP status code, if a response was received
	StatusCode int
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *TransportError) Error() string {
	parts := []string{"transport error"}
	if e.Operation != "" {
		parts[0] = "transport error during " + e.Operation
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if e.URL != "" {
		parts = append(parts, "url "+e.URL)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("err: %v", e.Err))
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ": " + strings.Join(parts[1:], ", ")
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a single entry from the "json.errors" array Reddit
// embeds in otherwise successful responses. Each entry is a
// [code, explanation, field] triple.
type APIError struct {
	// Code is the machine-readable error code (e.g. "RATELIMIT")
	Code string
	// Explanation is the human-readable description from Reddit
	Explanation string
	// Field names the request parameter the error relates to, if any
	Field string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("reddit API error %s: %s (field %q)", e.Code, e.Explanation, e.Field)
	}
	return fmt.Sprintf("reddit API error %s: %s", e.Code, e.Explanation)
}

// ParseError indicates a problem interpreting the API response body.
type ParseError struct {
	// Operation is the name of the API operation where parsing failed
	Operation string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
