// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/bureau-foundation/tray/lib/menu"
)

// browserOpener opens URLs with the desktop's handler. The child is
// reaped in the background; only a failure to start is reported.
func browserOpener(logger *slog.Logger) menu.URLOpener {
	return menu.URLOpenerFunc(func(url string) error {
		name := "xdg-open"
		if runtime.GOOS == "darwin" {
			name = "open"
		}
		command := exec.Command(name, url)
		if err := command.Start(); err != nil {
			return fmt.Errorf("starting %s: %w", name, err)
		}
		go func() {
			if err := command.Wait(); err != nil {
				logger.Warn("url opener exited with error", "opener", name, "url", url, "error", err)
			}
		}()
		return nil
	})
}
