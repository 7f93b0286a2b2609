package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStoreFailure       = "STORE_FAILURE"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

type AppError struct {
	Code       string // e.g. INVALID_INPUT
	Message    string // safe to show to callers
	HTTPStatus int
	Err        error // wrapped cause, optional
}

var (
	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrInvalidCredentials = New(
		CodeInvalidCredentials,
		"Incorrect username or password",
		http.StatusUnauthorized,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Could not validate credentials",
		http.StatusUnauthorized,
	)

	ErrStoreFailure = New(
		CodeStoreFailure,
		"Store request failed",
		http.StatusInternalServerError,
	)

	ErrStoreUnavailable = New(
		CodeStoreUnavailable,
		"Store is temporarily unavailable",
		http.StatusServiceUnavailable,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

// Error implements error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so wrapped instances
// compare equal to the sentinels above.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New creates an AppError without a cause.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap creates an AppError around err. A nil err yields nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// InvalidInput wraps err as a 400 with the given message.
func InvalidInput(message string, err error) *AppError {
	if err == nil {
		return New(CodeInvalidInput, message, http.StatusBadRequest)
	}
	return Wrap(err, CodeInvalidInput, message, http.StatusBadRequest)
}

// StoreFailure wraps a store client error as a 500.
func StoreFailure(message string, err error) *AppError {
	return Wrap(err, CodeStoreFailure, message, http.StatusInternalServerError)
}

// From returns err as an *AppError, falling back to a 500 that keeps the
// cause text.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, CodeInternalError, ErrInternal.Message, http.StatusInternalServerError)
}
