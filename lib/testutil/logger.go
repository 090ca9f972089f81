// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// Logger returns a slog.Logger that writes through t.Log, so log
// output is attributed to the test and shown only on failure or with
// -v. Records below Debug are never emitted.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (writer testWriter) Write(data []byte) (int, error) {
	writer.t.Helper()
	writer.t.Log(strings.TrimRight(string(data), "\n"))
	return len(data), nil
}
