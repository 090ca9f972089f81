// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the tray packages.
//
// [SocketDir] creates a directory in /tmp short enough for Unix domain
// socket paths, which are limited to 108 bytes. [StateFile] names a
// scratch file for preference stores and configuration fixtures.
//
// [RequireReceive] and [RequireClosed] wait on channels with a
// deadline, failing the test instead of hanging it.
//
// [Logger] routes slog output through t.Log. [UniqueID] generates
// monotonically increasing identifiers for test disambiguation.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dependencies on other tray packages.
package testutil
