// Package errors provides structured error types for pacdump.
//
// Error codes are machine-readable and hierarchical:
//   - INVALID_*: input validation failures
//   - NOT_*: filtering decisions and missing resources
//   - SIGNATURE_* / KEY_*: trust-metadata enrichment failures
//   - DB_*: database open/registration failures (the only fatal class)
//
// Per-package failures are local by policy: callers log them and continue
// with the batch. Only DB_REGISTRATION is allowed to terminate the process.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeNotFound, "package %q not found", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // continue with the edge unresolved
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidBackend Code = "INVALID_BACKEND"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Filtering and lookup outcomes
	ErrCodeNotExplicit Code = "NOT_EXPLICIT"
	ErrCodeNotFound    Code = "PACKAGE_NOT_FOUND"

	// Trust metadata enrichment (downgraded to diagnostics by callers)
	ErrCodeSignatureDecode Code = "SIGNATURE_DECODE"
	ErrCodeKeyExtraction   Code = "KEY_EXTRACTION"

	// Database handle failures (fatal at startup)
	ErrCodeDBRegistration Code = "DB_REGISTRATION"

	// Configuration discovery
	ErrCodeConfig Code = "CONFIG_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
