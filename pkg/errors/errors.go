// Package errors provides structured error types for pcbgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into a few groups:
//   - MALFORMED_RECORD, INVALID_*: input that cannot be parsed or is out of range
//   - *_NOT_FOUND: lookups of nodes, nets, files or sessions that miss
//   - ALREADY_PLACED: an illegal placement transition
//   - STORE_ERROR, INTERNAL_ERROR: backend and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %d", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // skip this id
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "save optimals for %s", design)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeMalformedRecord Code = "MALFORMED_RECORD"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidOrdering Code = "INVALID_ORDERING"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Lookup errors
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"
	ErrCodeNetNotFound     Code = "NET_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Placement errors
	ErrCodeAlreadyPlaced Code = "ALREADY_PLACED"

	// Backend and internal errors
	ErrCodeStore       Code = "STORE_ERROR"
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

// RecordError describes a text record that could not be parsed.
// Field is the zero-based index of the first failing field, or -1 when the
// record as a whole was rejected (wrong field count).
type RecordError struct {
	Kind  string // "node", "edge", "optimal" or "board"
	Line  string // raw record text
	Field int    // index of the first failing field
	Name  string // name of the first failing field
	Err   error  // parse failure
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("malformed %s record %q: %v", e.Kind, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed %s record %q: field %d (%s): %v", e.Kind, e.Line, e.Field, e.Name, e.Err)
}

// Unwrap returns the parse failure.
func (e *RecordError) Unwrap() error { return e.Err }

// Malformed wraps a RecordError in an *Error with ErrCodeMalformedRecord.
func Malformed(kind, line string, field int, name string, err error) *Error {
	re := &RecordError{Kind: kind, Line: line, Field: field, Name: name, Err: err}
	return &Error{
		Code:    ErrCodeMalformedRecord,
		Message: fmt.Sprintf("malformed %s record", kind),
		Cause:   re,
	}
}

// AsRecordError extracts the RecordError from err, if any.
func AsRecordError(err error) (*RecordError, bool) {
	var re *RecordError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
