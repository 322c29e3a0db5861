// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so that scripts can react to
// the exit status without parsing messages.
type ErrorCategory string

const (
	// CategoryValidation: the input was rejected. Fix it and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the named fleet or process does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the socket is not accessible to this user.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryUnavailable: the daemon could not be reached or did not
	// answer in time.
	CategoryUnavailable ErrorCategory = "unavailable"

	// CategoryRemote: the daemon reached the platform and the platform
	// call failed.
	CategoryRemote ErrorCategory = "remote"

	// CategoryInternal: anything else.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode returns the process exit status for the category.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryForbidden, CategoryUnavailable:
		return 4
	case CategoryRemote:
		return 5
	default:
		return 1
	}
}

// ToolError is a categorized command error. It wraps the underlying
// error so errors.As still reaches, for example, a
// *service.ServiceError.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is printed after the error on its own lines.
	Hint string
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets Hint and returns e.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Unavailable creates an unavailable error.
func Unavailable(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryUnavailable, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// ExitCode returns the exit status for err: the category's code for a
// ToolError, 1 otherwise.
func ExitCode(err error) int {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Category.ExitCode()
	}
	return 1
}
