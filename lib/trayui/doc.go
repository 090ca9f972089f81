// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trayui renders a compiled tray menu in the terminal with
// bubbletea. It provides the [menu.Toolkit] the compiler builds into
// and the [Model] that owns the [menu.Menu] on the bubbletea goroutine.
//
// The Model is the only code that touches widgets. Other goroutines
// reach the menu through a [Remote], which turns each call into a
// message processed by Update and waits for the reply. Activations
// that request a rebuild are answered with a command, so the rebuild
// runs as its own message after the activation has been fully
// handled.
package trayui
