// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostlink connects the tray menu to the host application over
// two Unix sockets, both speaking the [service] CBOR protocol.
//
// Activations flow tray → host. [Notifier] implements menu.Notifier:
// the UI goroutine enqueues the logical id of every completed
// activation and a background goroutine delivers it to the host's
// notify socket as
//
//	{action: "menu-activated", item: "restart", sequence: 7}
//
// Control flows host → tray. [NewControlServer] serves the actions
// listed in [ControlActions] on the tray's control socket. Mutating
// actions go through a [Controller], which applies them on the UI
// goroutine; "resolve" reads the shared registry directly.
//
// [ControlClient] and [NewActivationServer] are the host's side of the
// two sockets. The bureau-tray CLI uses them for its call and listen
// commands.
package hostlink
