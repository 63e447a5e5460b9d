// Package errors provides standardized error handling for upstream API and
// completion-provider failures.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAPIRequestFailed ErrorCode = "API_REQUEST_FAILED"
	ErrCodeAPIRateLimited   ErrorCode = "API_RATE_LIMITED"
	ErrCodeAPIAuthFailed    ErrorCode = "API_AUTH_FAILED"
	ErrCodeAPINotFound      ErrorCode = "API_NOT_FOUND"
	ErrCodeAPIDecodeFailed  ErrorCode = "API_DECODE_FAILED"

	ErrCodePayloadShapeInvalid ErrorCode = "PAYLOAD_SHAPE_INVALID"

	ErrCodeCompletionFailed ErrorCode = "COMPLETION_FAILED"
	ErrCodeCompletionEmpty  ErrorCode = "COMPLETION_EMPTY"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Retryable  bool      `json:"retryable"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIRequestError wraps a transport-level failure against the helpdesk API.
func NewAPIRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIRequestFailed,
		Message:   "helpdesk API request failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAPIStatusError classifies a non-2xx response from the helpdesk API.
func NewAPIStatusError(statusCode int, details string) *StandardError {
	e := &StandardError{
		Message:    "helpdesk API returned an error status",
		Details:    details,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	}
	switch statusCode {
	case 401, 403:
		e.Code = ErrCodeAPIAuthFailed
		e.Message = "helpdesk API authentication failed"
	case 404:
		e.Code = ErrCodeAPINotFound
		e.Message = "helpdesk API resource not found"
	case 429:
		e.Code = ErrCodeAPIRateLimited
		e.Message = "helpdesk API rate limit exceeded"
		e.Retryable = true
	default:
		e.Code = ErrCodeAPIRequestFailed
		e.Retryable = statusCode >= 500
	}
	return e
}

// NewAPIDecodeError wraps a malformed JSON body from the helpdesk API.
func NewAPIDecodeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIDecodeFailed,
		Message:   "helpdesk API response could not be decoded",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadShapeError marks a payload that failed an endpoint's shape guard.
func NewPayloadShapeError(endpoint, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadShapeInvalid,
		Message:   fmt.Sprintf("unexpected payload shape from %s", endpoint),
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionError wraps a completion-provider failure.
func NewCompletionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionFailed,
		Message:   "completion provider call failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionEmptyError marks an empty body from the completion provider.
func NewCompletionEmptyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionEmpty,
		Message:   "completion provider returned an empty response",
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeAPIRequestFailed if err
// is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeAPIRequestFailed
}

// StatusOf extracts the HTTP status code from err, or 0 when none was recorded.
func StatusOf(err error) int {
	var se *StandardError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
