// Unified error handling for gcodetile
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Invocation errors
	ErrUsage ErrorCode = "USAGE"

	// Profile errors
	ErrProfile ErrorCode = "PROFILE"

	// I/O errors
	ErrInputNotFound ErrorCode = "INPUT_NOT_FOUND"
	ErrInputRead     ErrorCode = "INPUT_READ"
	ErrOutputWrite   ErrorCode = "OUTPUT_WRITE"
	ErrStorage       ErrorCode = "STORAGE"

	// Metrics export errors
	ErrMetrics ErrorCode = "METRICS"
)

// Exit statuses returned by the CLI.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// TileError is the error type shared by every gcodetile package
type TileError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the file or object the error refers to (if any)
	Path string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TileError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Code))
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Path != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Path)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, e.Context[k])
		}
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error
func (e *TileError) Unwrap() error {
	return e.Err
}

// SetPath sets the file or object path
func (e *TileError) SetPath(path string) *TileError {
	e.Path = path
	return e
}

// SetContext adds additional context
func (e *TileError) SetContext(key string, value interface{}) *TileError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *TileError {
	return &TileError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// New creates a new TileError
func New(code ErrorCode, message string) *TileError {
	return &TileError{
		Code:    code,
		Message: message,
	}
}

// UsageError creates an error for missing or invalid invocation parameters
func UsageError(format string, args ...interface{}) *TileError {
	return New(ErrUsage, fmt.Sprintf(format, args...))
}

// ProfileError wraps a profile loading failure
func ProfileError(path string, err error) *TileError {
	return Wrap(err, ErrProfile, "invalid tiler profile").SetPath(path)
}

// InputNotFoundError creates an error for a missing input file
func InputNotFoundError(path string, err error) *TileError {
	return Wrap(err, ErrInputNotFound, "input does not exist").SetPath(path)
}

// InputReadError creates an error for a failed input read
func InputReadError(path string, err error) *TileError {
	return Wrap(err, ErrInputRead, "failed to read input").SetPath(path)
}

// OutputWriteError creates an error for a failed output write
func OutputWriteError(path string, err error) *TileError {
	return Wrap(err, ErrOutputWrite, "failed to write output").SetPath(path)
}

// StorageError creates an error for storage setup failures
func StorageError(message string, err error) *TileError {
	return Wrap(err, ErrStorage, message)
}

// MetricsError creates an error for a failed metrics export
func MetricsError(path string, err error) *TileError {
	return Wrap(err, ErrMetrics, "failed to export metrics").SetPath(path)
}

// Is checks if any error in the chain matches the given error code
func Is(err error, code ErrorCode) bool {
	var tileErr *TileError
	for err != nil {
		if !stderrors.As(err, &tileErr) {
			return false
		}
		if tileErr.Code == code {
			return true
		}
		err = tileErr.Err
	}
	return false
}

// IsUsage checks if error is an invocation error
func IsUsage(err error) bool {
	return Is(err, ErrUsage)
}

// IsIO checks if error is an input or output error
func IsIO(err error) bool {
	return Is(err, ErrInputNotFound) ||
		Is(err, ErrInputRead) ||
		Is(err, ErrOutputWrite) ||
		Is(err, ErrStorage)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUsage(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}
