package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
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

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// DuplicateEmail creates a 400 error for a registration attempt with an email
// that is already taken. The auth API reports this as a plain bad request
// rather than a 409 conflict.
func DuplicateEmail() *AppError {
	return &AppError{
		Code:    "DUPLICATE_EMAIL",
		Message: "email already exists",
		Status:  http.StatusBadRequest,
		Err:     ErrAlreadyExists,
	}
}

// RoleNotFound creates a 400 error for a registration referencing an unknown role.
func RoleNotFound() *AppError {
	return &AppError{
		Code:    "ROLE_NOT_FOUND",
		Message: "role not found",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidCredentials creates a 400 error for a failed login. The message
// deliberately does not reveal whether the email exists.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
		Status:  http.StatusBadRequest,
		Err:     ErrUnauthorized,
	}
}

// InvalidOTP creates a 400 error for a one-time code that does not match or
// has already been consumed.
func InvalidOTP() *AppError {
	return &AppError{
		Code:    "INVALID_OTP",
		Message: "invalid or expired OTP",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// ExpiredOTP creates a 400 error for a one-time code submitted after its
// expiry timestamp.
func ExpiredOTP() *AppError {
	return &AppError{
		Code:    "EXPIRED_OTP",
		Message: "invalid or expired OTP",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// AccountNotFound creates an error for an operation on an unknown account.
// The status is caller-supplied because the API reports this as 404 on the
// forgot-password path and 400 on the external-identity login path.
func AccountNotFound(status int) *AppError {
	return &AppError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
		Status:  status,
		Err:     ErrNotFound,
	}
}

// InvalidExternalToken creates a 400 error for an identity-provider token
// that fails verification.
func InvalidExternalToken() *AppError {
	return &AppError{
		Code:    "INVALID_EXTERNAL_TOKEN",
		Message: "invalid token",
		Status:  http.StatusBadRequest,
		Err:     ErrUnauthorized,
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
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
