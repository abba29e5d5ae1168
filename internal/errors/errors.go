// Package errors provides custom error types for the advisor chat client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel errors for common cases
var (
	ErrEmptyQuestion = errors.New("question cannot be empty")
	ErrClientClosed  = errors.New("client is closed")
)

// NetworkError represents a failure to reach the backend
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// APIError describes a non-2xx response. The client never fails a request on
// status alone: it logs the APIError, and attaches it to the ParseError when
// the error page is not JSON.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError that keeps a (truncated) response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = truncateBody(body)
	return e
}

// TimeoutError represents a request that exceeded the configured timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response body that is not JSON
type ParseError struct {
	Message    string
	Body       string
	StatusCode int
	// Err is the APIError of a non-2xx response, if any
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(message, body string, statusCode int) *ParseError {
	return &ParseError{Message: message, Body: truncateBody(body), StatusCode: statusCode}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Key, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

const maxBodyLen = 4096

// truncateBody cuts body to at most maxBodyLen bytes on a rune boundary
func truncateBody(body string) string {
	if len(body) <= maxBodyLen {
		return body
	}
	cut := maxBodyLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

// IsNetworkError reports whether err is a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsTimeoutError reports whether err is a timeout, including context deadlines
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsParseError reports whether err is a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsConfigError reports whether err is a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsTransportFailure reports whether err is one of the failures the user sees
// as a connection error: network, timeout, or an unreadable body.
func IsTransportFailure(err error) bool {
	return IsNetworkError(err) || IsTimeoutError(err) || IsParseError(err) ||
		errors.Is(err, context.Canceled)
}

// GetHTTPStatus extracts the HTTP status code from err, or 0
func GetHTTPStatus(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from err, or ""
func GetEndpoint(err error) string {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Endpoint
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Endpoint
	}
	return ""
}

// GetResponseBody extracts the response body from err, or ""
func GetResponseBody(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Body
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Body
	}
	return ""
}
