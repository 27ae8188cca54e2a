// Package errors provides structured error types for canvaskit.
//
// Model packages (canvas, layout, store) return plain sentinel errors wrapped
// with fmt.Errorf. The service boundary translates them into an [*Error]
// carrying a machine-readable [Code], which the tool surface, the REST API
// and the CLI all report the same way.
//
// # Error Codes
//
//   - NOT_FOUND: a canvas, node or connection id does not resolve
//   - INVALID_REFERENCE: a connection endpoint names a node that does not exist
//   - INVALID_INPUT: malformed arguments, unknown enum names, bad JSON
//   - UNKNOWN_OPERATION: the tool surface received a name it does not know
//   - INTERNAL_ERROR: persistence or rendering failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown layout algorithm %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // report to caller
//	}
//
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save canvas %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeUnknownOperation Code = "UNKNOWN_OPERATION"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
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

// From classifies an existing error under code. The error's own text
// becomes the message and the error stays in the chain.
func From(code Code, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Cause: err}
}

// NotFound is shorthand for a NOT_FOUND error naming the missing resource.
func NotFound(kind, id string) *Error {
	return New(ErrCodeNotFound, "%s %q not found", kind, id)
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
