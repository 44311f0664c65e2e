package apierrors

import (
	"errors"
	"fmt"
)

// Kind discriminates the three recoverable failure variants.
type Kind int

const (
	// KindNetwork means no response was received (connection refused, DNS, timeout)
	KindNetwork Kind = iota + 1
	// KindAPI means the provider answered with a non-2xx status
	KindAPI
	// KindValidation means the provider answered but the payload had the wrong shape
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Code classifies API errors. The empty code means unclassified.
type Code string

const (
	CodeRateLimit     Code = "RATE_LIMIT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeBadGateway    Code = "BAD_GATEWAY"
	CodeServerError   Code = "SERVER_ERROR"
)

const defaultNetworkMessage = "Network error occurred"

// Error is the single failure type raised by every component that talks to the provider.
// StatusCode and Code are only meaningful for KindAPI.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Code       Code
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindAPI {
		if e.Code != "" {
			return fmt.Sprintf("%s error %d (%s): %s", e.Kind, e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("%s error %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a network error; an empty message falls back to the default one
func NewNetworkError(message string, cause error) *Error {
	if message == "" {
		message = defaultNetworkMessage
	}
	return &Error{Kind: KindNetwork, Message: message, Err: cause}
}

// NewAPIError creates an API error for the given HTTP status and code
func NewAPIError(message string, statusCode int, code Code) *Error {
	return &Error{Kind: KindAPI, Message: message, StatusCode: statusCode, Code: code}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: cause}
}

// As extracts the typed error from err, looking through wrapping
func As(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// KindOf returns the kind of err, or 0 when err is not a typed error
func KindOf(err error) Kind {
	if typed, ok := As(err); ok {
		return typed.Kind
	}
	return 0
}

// IsRateLimit reports whether err is an API error with code RATE_LIMIT
func IsRateLimit(err error) bool {
	typed, ok := As(err)
	return ok && typed.Kind == KindAPI && typed.Code == CodeRateLimit
}

// IsNotFound reports whether err is an API error with code NOT_FOUND
func IsNotFound(err error) bool {
	typed, ok := As(err)
	return ok && typed.Kind == KindAPI && typed.Code == CodeNotFound
}

// Retryable reports whether repeating the request could produce a different outcome.
// Untyped errors are treated like unclassified API errors.
func Retryable(err error) bool {
	typed, ok := As(err)
	if !ok {
		return err != nil
	}

	switch typed.Kind {
	case KindNetwork:
		return true
	case KindValidation:
		return false
	case KindAPI:
		switch typed.Code {
		case CodeRateLimit, CodeNotFound:
			return false
		default:
			return true
		}
	default:
		return true
	}
}
