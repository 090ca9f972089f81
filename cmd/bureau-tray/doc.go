// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-tray is the Sunshine tray menu for terminals. "bureau-tray
// run" compiles the menu schema into a localized menu, forwards every
// activation to the host over its notify socket, and serves the
// control socket through which the host drives check and enabled
// state, the display language, and notification toasts.
//
// The remaining subcommands work without a running tray (validate,
// tree, prefs) or talk to one (call, listen).
package main
