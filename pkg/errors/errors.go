package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInternal         = errors.New("internal error")
	ErrConflict         = errors.New("conflict")
	ErrServiceUnavail   = errors.New("service unavailable")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrTokenInvalid     = errors.New("invalid or expired token")
	ErrTokenUsed        = errors.New("token already used")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`

	// Email carries the subject address for verification-related errors so
	// callers can route the user to the verification-pending view.
	Email string `json:"email,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error without the already-exists semantics.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ServiceUnavailable creates a 503 error for unreachable collaborators.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// InvalidCredentials creates a 401 error for a failed login attempt.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// EmailNotVerified creates a 403 error for a login blocked pending email
// verification. The email is carried so the caller can resume the flow.
func EmailNotVerified(email string) *AppError {
	return &AppError{
		Code:    "EMAIL_NOT_VERIFIED",
		Message: "please verify your email before logging in",
		Status:  http.StatusForbidden,
		Err:     ErrEmailNotVerified,
		Email:   email,
	}
}

// EmailAlreadyExists creates a 409 error for a signup conflict.
func EmailAlreadyExists(email string) *AppError {
	return &AppError{
		Code:    "EMAIL_ALREADY_EXISTS",
		Message: fmt.Sprintf("an account with email %q already exists", email),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// TokenInvalidOrExpired creates a 400 error for an unknown or expired
// verification token.
func TokenInvalidOrExpired() *AppError {
	return &AppError{
		Code:    "TOKEN_INVALID_OR_EXPIRED",
		Message: "verification token is invalid or has expired",
		Status:  http.StatusBadRequest,
		Err:     ErrTokenInvalid,
	}
}

// TokenAlreadyUsed creates a 400 error for a verification token that has
// already been consumed.
func TokenAlreadyUsed() *AppError {
	return &AppError{
		Code:    "TOKEN_ALREADY_USED",
		Message: "verification token has already been used",
		Status:  http.StatusBadRequest,
		Err:     ErrTokenUsed,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenUsed):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
