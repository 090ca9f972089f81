// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a non-zero exit code without an extra error
// message. The command has already written its own output; validate
// returns one when the schema has problems.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Exit codes by error category.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 69
)

// ExitCode maps an error returned by Execute to a process exit code:
// 0 for nil, the code of an *ExitError, 2 for validation errors, 69
// (EX_UNAVAILABLE) when the tray or host is not reachable, and 1
// otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		switch toolError.Category {
		case CategoryValidation:
			return exitUsage
		case CategoryUnavailable:
			return exitUnavailable
		}
	}
	return exitFailure
}

// Silent reports whether err should exit without printing anything.
func Silent(err error) bool {
	var exitError *ExitError
	return errors.As(err, &exitError)
}
