package genderapi

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidArgument matches every ArgumentError
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingAPIKey indicates the client was constructed without an API key
	ErrMissingAPIKey = &ArgumentError{Field: "apiKey", Reason: "API key is required"}
	// ErrServer matches every ServerError
	ErrServer = errors.New("genderapi server error")
	// ErrInvalidJSON indicates the response body is not a JSON object
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrMissingStatus indicates the response has no status field
	ErrMissingStatus = errors.New("missing status field")
	// ErrInvalidStatus indicates the status field is not boolean
	ErrInvalidStatus = errors.New("invalid status field")
)

// ArgumentError reports a local precondition violation. It is returned
// before any request is sent.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// Is makes every ArgumentError match ErrInvalidArgument
func (e *ArgumentError) Is(target error) bool {
	if target == ErrInvalidArgument {
		return true
	}
	t, ok := target.(*ArgumentError)
	return ok && t.Field == e.Field && t.Reason == e.Reason
}

func requiredArgument(field string) error {
	return &ArgumentError{Field: field, Reason: field + " parameter is required"}
}

// TransportError represents a failure below HTTP: connection refused, DNS,
// timeouts, cancelled contexts and broken response bodies.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("genderapi %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is returned for HTTP 500, 502, 503, 504 and 408 responses.
// The body of such responses is never inspected.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("genderapi server error (%d)", e.StatusCode)
}

// Is makes every ServerError match ErrServer
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// IsTimeout reports whether the server answered 408 or 504
func (e *ServerError) IsTimeout() bool {
	return e.StatusCode == 408 || e.StatusCode == 504
}

// ProtocolError indicates a response that does not follow the service
// contract. Err is one of ErrInvalidJSON, ErrMissingStatus or
// ErrInvalidStatus, possibly wrapping a decoder error.
type ProtocolError struct {
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid API response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying error
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ServiceError is the error form of an ErrorResult. The client never
// returns it; callers obtain one through ErrorResult.Err.
type ServiceError struct {
	Errno  int
	Errmsg string
}

func (e *ServiceError) Error() string {
	if e.Errmsg == "" {
		return fmt.Sprintf("genderapi error %d", e.Errno)
	}
	return fmt.Sprintf("genderapi error %d: %s", e.Errno, e.Errmsg)
}

// isServerStatus reports whether the HTTP status is classified as a
// ServerError without reading the body
func isServerStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504, 408:
		return true
	}
	return false
}
