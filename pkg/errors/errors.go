// Package errors defines the coded errors shared by the collection engine,
// the reconciler and the tool surface.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error kind independently of its message.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"

	// Structural errors, surfaced to the caller as the operation result.
	ErrMissingPath ErrorCode = "MISSING_PATH"
	ErrInvalidPath ErrorCode = "INVALID_PATH"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrNotAFolder  ErrorCode = "NOT_A_FOLDER"

	// Routing and infrastructure errors. Only ErrRemoteUnavailable reaches the
	// caller; the rest are absorbed by the reconciler and reported in its output.
	ErrRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE"
	ErrLocalUnavailable  ErrorCode = "LOCAL_UNAVAILABLE"
	ErrLocalWriteFailed  ErrorCode = "LOCAL_WRITE_FAILED"
	ErrSyncCommandFailed ErrorCode = "SYNC_COMMAND_FAILED"
)

// ColsyncError is a structured error with a stable code and optional details.
type ColsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ColsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ColsyncError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ColsyncError with the same code.
func (e *ColsyncError) Is(target error) bool {
	var targetErr *ColsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ColsyncError with the given code and message
func New(code ErrorCode, message string) *ColsyncError {
	return &ColsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ColsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ColsyncError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *ColsyncError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ColsyncError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *ColsyncError) WithDetail(key string, value interface{}) *ColsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ce *ColsyncError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ColsyncError
func GetErrorCode(err error) ErrorCode {
	var ce *ColsyncError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ColsyncError
func GetErrorDetails(err error) map[string]interface{} {
	var ce *ColsyncError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// IsStructural reports whether err describes a problem with the requested
// path or target rather than with the infrastructure.
func IsStructural(err error) bool {
	switch GetErrorCode(err) {
	case ErrMissingPath, ErrInvalidPath, ErrNotFound, ErrNotAFolder, ErrInvalidInput:
		return true
	}
	return false
}
