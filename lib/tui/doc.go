// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks for the tray's
// interactive menu: the color theme, overlay splicing for modals,
// fuzzy label matching, markdown rendering for confirmation text, and
// change highlighting.
//
// Everything here is stateless or owned by a single bubbletea model.
// The menu-specific layout lives in lib/trayui.
package tui
