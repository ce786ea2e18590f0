// Package errors provides structured error types for architecture diagrams.
//
// Every failure raised while composing a diagram carries a machine-readable
// [Code] so callers (the CLI, the HTTP server, tests) can tell a programmer
// usage error apart from a rendering failure without string matching.
//
// # Error Codes
//
// The composition codes mirror the build-time defects a diagram can contain:
//   - CONFIGURATION: an entity was created with no active graph
//   - EMPTY_CLUSTER: a cluster was used as an edge endpoint before it had nodes
//   - INVALID_ENDPOINT: an edge or flow endpoint is not a node, cluster, or group
//   - INVALID_ARGUMENT: an operation received malformed arguments
//   - NESTED_GRAPH: a graph was entered while another graph was active
//
// The remaining codes cover the surrounding tooling (themes, icons, HCL
// declarations, rendering).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "no active graph")
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Handle usage error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Diagram composition errors
	ErrCodeConfiguration   Code = "CONFIGURATION"
	ErrCodeEmptyCluster    Code = "EMPTY_CLUSTER"
	ErrCodeInvalidEndpoint Code = "INVALID_ENDPOINT"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeNestedGraph     Code = "NESTED_GRAPH"

	// Input validation errors
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme   Code = "INVALID_THEME"
	ErrCodeInvalidDiagram Code = "INVALID_DIAGRAM"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeUnknownIcon  Code = "UNKNOWN_ICON"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Rendering errors
	ErrCodeRender Code = "RENDER"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// UserMessage returns a user-friendly message for the error: messages along
// the cause chain without code prefixes. Errors that are not *Error are
// returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}
