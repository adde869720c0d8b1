package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a specific failure type for chat operations.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates the client sent an unusable request.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidRequest indicates the completion provider rejected the request shape.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeUnauthorized indicates the completion provider rejected our credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates the provider's rate or quota limit was hit.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeEmptyCompletion indicates the provider returned no reply content.
	ErrCodeEmptyCompletion ErrorCode = "EMPTY_COMPLETION"
	// ErrCodeUpstreamError indicates any other completion provider failure.
	ErrCodeUpstreamError ErrorCode = "UPSTREAM_ERROR"
	// ErrCodeStoreFailure indicates a conversation persistence failure.
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
)

// TwinError represents a structured error for chat operations.
type TwinError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TwinError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TwinError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for the taxonomy.

// InvalidInput creates a client input error.
func InvalidInput(msg string) *TwinError {
	return &TwinError{Code: ErrCodeInvalidInput, Message: msg}
}

// InvalidRequest creates a provider-rejected-request error.
func InvalidRequest(msg string) *TwinError {
	return &TwinError{Code: ErrCodeInvalidRequest, Message: msg}
}

// Unauthorized creates an authentication failure error.
func Unauthorized(msg string) *TwinError {
	return &TwinError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *TwinError {
	return &TwinError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// EmptyCompletion creates an empty completion error.
func EmptyCompletion(msg string) *TwinError {
	return &TwinError{Code: ErrCodeEmptyCompletion, Message: msg}
}

// Upstream wraps an unclassified completion provider failure.
func Upstream(msg string, cause error) *TwinError {
	return &TwinError{Code: ErrCodeUpstreamError, Message: msg, Cause: cause}
}

// StoreFailure wraps a persistence failure.
func StoreFailure(msg string, cause error) *TwinError {
	return &TwinError{Code: ErrCodeStoreFailure, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if twinErr, ok := err.(*TwinError); ok {
		return twinErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a TwinError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if twinErr, ok := err.(*TwinError); ok {
		return twinErr.Code
	}
	return defaultCode
}

// HTTPStatus maps an error to the HTTP status the transport layer should
// return. This is the single point of status-code mapping: invalid input and
// provider-rejected requests are client errors, credential rejection is
// forbidden, everything else is a server error.
func HTTPStatus(err error) int {
	switch GetCodeFromError(err, ErrCodeUpstreamError) {
	case ErrCodeInvalidInput, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message safe to expose to API clients. Unclassified
// and server-side failures are reduced to a generic message; detail stays in
// the logs.
func UserMessage(err error) string {
	twinErr, ok := err.(*TwinError)
	if !ok {
		return "Internal server error"
	}
	switch twinErr.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidRequest, ErrCodeUnauthorized, ErrCodeRateLimitExceeded:
		return twinErr.Message
	default:
		return "Internal server error"
	}
}
