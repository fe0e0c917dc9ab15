package utils

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status a handler failure should surface as.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func BadRequest(msg string) *AppError   { return newAppError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *AppError { return newAppError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *AppError    { return newAppError(http.StatusForbidden, msg) }
func NotFound(msg string) *AppError     { return newAppError(http.StatusNotFound, msg) }
func Conflict(msg string) *AppError     { return newAppError(http.StatusConflict, msg) }

// Internal wraps an infrastructure failure; the cause is logged, not returned.
func Internal(err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// Common block-scoping failure shared by every admin mutation.
var ErrOtherBlock = Forbidden("Not authorized for this hostel block")

// StatusOf reports the HTTP status for err, 500 for anything untyped.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
