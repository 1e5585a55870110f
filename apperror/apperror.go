// Package apperror defines the typed errors used across the dashboard data
// plane and their mapping to HTTP status codes and user-facing messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// Unknown is for unclassified errors.
	Unknown Kind = iota
	// Network means the upstream transport was unreachable.
	Network
	// HTTPStatus means the upstream responded with a non-2xx status.
	HTTPStatus
	// InvalidCredentials means a login attempt failed.
	InvalidCredentials
	// InvalidOrExpiredToken means a session token failed decoding or expired.
	InvalidOrExpiredToken
	// NotFound means a resource id does not exist.
	NotFound
	// Validation means user input failed validation.
	Validation
	// Internal is a generic internal failure.
	Internal
)

// Error is the application error type. It carries a user-facing message, the
// upstream HTTP status when Kind is HTTPStatus, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Status  int // upstream status, only set for HTTPStatus errors
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code to serve for this error.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Network:
		return http.StatusBadGateway
	case HTTPStatus:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case InvalidCredentials, InvalidOrExpiredToken:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON shape served for any application error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts the error to its API response payload. Only the
// user-facing message is exposed, never the wrapped cause.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NewNetwork creates a Network error with the standard connectivity message.
func NewNetwork(cause error) *Error {
	return New(Network, "Network error - please check your connection", cause)
}

// NewInvalidCredentials creates an InvalidCredentials error.
func NewInvalidCredentials() *Error {
	return New(InvalidCredentials, "Invalid credentials", nil)
}

// NewInvalidOrExpiredToken creates an InvalidOrExpiredToken error.
func NewInvalidOrExpiredToken(cause error) *Error {
	return New(InvalidOrExpiredToken, "Invalid or expired token", cause)
}

// NewNotFound creates a NotFound error.
func NewNotFound(message string) *Error {
	return New(NotFound, message, nil)
}

// NewValidation creates a Validation error.
func NewValidation(message string, cause error) *Error {
	return New(Validation, message, cause)
}

// NewInternal creates an Internal error.
func NewInternal(message string, cause error) *Error {
	return New(Internal, message, cause)
}

// FromStatus converts an upstream HTTP status into an HTTPStatus error with
// the user-facing message for that status.
func FromStatus(status int) *Error {
	return &Error{Kind: HTTPStatus, Message: StatusMessage(status), Status: status}
}

// StatusMessage returns the user-facing message for an upstream HTTP status.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request - please check your input"
	case http.StatusUnauthorized:
		return "Unauthorized - please log in again"
	case http.StatusForbidden:
		return "Forbidden - you do not have permission to perform this action"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusTooManyRequests:
		return "Too many requests - please try again later"
	case http.StatusInternalServerError:
		return "Server error - please try again later"
	case http.StatusBadGateway:
		return "Bad gateway - service temporarily unavailable"
	case http.StatusServiceUnavailable:
		return "Service unavailable - please try again later"
	default:
		return "An error occurred"
	}
}

// FromError extracts an *Error from err's chain, or wraps err as Internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("An unexpected error occurred", err)
}

// IsKind reports whether any error in err's chain is an *Error of the kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return IsKind(err, NotFound) }

// IsNetwork reports whether err is a Network error.
func IsNetwork(err error) bool { return IsKind(err, Network) }

// IsInvalidCredentials reports whether err is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return IsKind(err, InvalidCredentials) }

// IsInvalidOrExpiredToken reports whether err is an InvalidOrExpiredToken error.
func IsInvalidOrExpiredToken(err error) bool { return IsKind(err, InvalidOrExpiredToken) }

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return IsKind(err, Validation) }
