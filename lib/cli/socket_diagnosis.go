// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"io/fs"
	"syscall"
)

// DiagnoseSocketError categorizes a failure to reach socketPath. role
// names the process expected to serve it ("tray", "host") for the
// hint. It returns nil when err is not a connection failure, and the
// caller keeps its own wrapping.
func DiagnoseSocketError(err error, socketPath, role string) *ToolError {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOENT):
		return Unavailable("no %s is listening: %s does not exist", role, socketPath).
			WithHint("Start it first, or pass --socket with the path from its configuration.")
	case errors.Is(err, syscall.ECONNREFUSED):
		return Unavailable("no %s is listening on %s (stale socket file)", role, socketPath).
			WithHint("The process that created the socket has exited. Restart it.")
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return Forbidden("permission denied accessing %s", socketPath).
			WithHint("Sockets are created owner-only (mode 0600). Run the command as the user running the " + role + ".")
	}
	return nil
}
