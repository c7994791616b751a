package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with a stable protocol code
// and an HTTP status. The Code is part of the wire contract consumed by
// plugin clients and must never change for an existing failure mode.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Stable error codes surfaced to callers.
const (
	CodeLoginRequired           = "LOGIN_REQUIRED"
	CodeNotAllowed              = "NOT_ALLOWED"
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeSignedRequestExpired    = "SIGNED_REQUEST_EXPIRED"
	CodeDuplicatedSignedRequest = "DUPLICATED_SIGNED_REQUEST"
	CodeInvalidSignature        = "INVALID_SIGNATURE"
	CodePluginLimitExceeded     = "PLUGIN_LIMIT_EXCEEDED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrLoginRequired           = &AppError{Code: CodeLoginRequired, Message: "login required", Status: http.StatusUnauthorized}
	ErrNotAllowed              = &AppError{Code: CodeNotAllowed, Message: "not allowed", Status: http.StatusForbidden}
	ErrNotFound                = &AppError{Code: CodeNotFound, Message: "resource not found", Status: http.StatusNotFound}
	ErrInvalidRequest          = &AppError{Code: CodeInvalidRequest, Message: "invalid request", Status: http.StatusBadRequest}
	ErrSignedRequestExpired    = &AppError{Code: CodeSignedRequestExpired, Message: "signed request expired", Status: http.StatusBadRequest}
	ErrDuplicatedSignedRequest = &AppError{Code: CodeDuplicatedSignedRequest, Message: "duplicated signed request", Status: http.StatusConflict}
	ErrInvalidSignature        = &AppError{Code: CodeInvalidSignature, Message: "invalid signature", Status: http.StatusBadRequest}
	ErrPluginLimitExceeded     = &AppError{Code: CodePluginLimitExceeded, Message: "plugin limit exceeded", Status: http.StatusForbidden}
	ErrInternalError           = &AppError{Code: CodeInternalError, Message: "internal server error", Status: http.StatusInternalServerError}
)

// New creates a new AppError
func New(code string, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// WithError returns a new AppError carrying a wrapped cause. The cause
// is logged server-side only and never serialized to the caller.
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// WithMessage returns a new AppError with a custom message
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Err:     e.Err,
	}
}

// Is checks if the error carries the same code as target
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// Code returns the stable code from an error, or INTERNAL_ERROR for
// anything that is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// GetStatus returns the HTTP status from an error
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
