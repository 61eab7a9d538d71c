// Package domain defines the core domain models for chatmesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form CM-{AREA}-{HTTP status}{sequence}.
type DomainError struct {
	Code    string // Error code (e.g., "CM-SESS-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Authentication and token errors.
var (
	// ErrAuthHeaderInvalid indicates the Authorization header is absent or not a bearer value.
	ErrAuthHeaderInvalid = NewDomainError("CM-AUTH-4010", "missing or invalid authorization header")

	// ErrTokenInvalid indicates the token is unknown (never issued or already evicted).
	ErrTokenInvalid = NewDomainError("CM-TOKN-4010", "invalid token")

	// ErrTokenExpired indicates the token outlived its TTL.
	ErrTokenExpired = NewDomainError("CM-TOKN-4011", "token expired")

	// ErrTokenConflict indicates a generated token ID already exists.
	ErrTokenConflict = NewDomainError("CM-TOKN-4090", "token id conflict")
)

// Session errors.
var (
	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = NewDomainError("CM-SESS-4040", "session not found")

	// ErrSessionConflict indicates a generated session ID already exists.
	ErrSessionConflict = NewDomainError("CM-SESS-4090", "session id conflict")
)

// Request errors.
var (
	// ErrMissingFields indicates the chat request lacks input or role.
	ErrMissingFields = NewDomainError("CM-ARG-4000", "missing required fields: input and role")
)

// Provider errors. These never reach a client; the chat service absorbs them.
var (
	// ErrProviderFailure indicates the completion provider failed or was unreachable.
	ErrProviderFailure = NewDomainError("CM-PROV-5020", "completion provider failure")

	// ErrProviderUnconfigured indicates no completion provider is configured.
	ErrProviderUnconfigured = NewDomainError("CM-PROV-5030", "completion provider not configured")
)

// System errors.
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("CM-SYS-5000", "internal server error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("CM-SYS-4290", "too many requests")
)
