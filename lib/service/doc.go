// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service is the local request/response transport between the
// tray process and the host application that owns it.
//
// Each side runs a [SocketServer] on a Unix socket and talks to the
// other with a [Client]. A connection carries exactly one CBOR request
// and one CBOR response; CBOR is self-delimiting, so there is no
// framing layer. Requests are maps with an "action" key naming the
// handler and any action-specific fields alongside it:
//
//	{"action": "set-checked", "item": "vdd_keep_enabled", "checked": true}
//
// Responses use the [Response] envelope:
//
//	{"ok": true, "data": <handler result>}
//	{"ok": false, "error": "unknown item \"nope\""}
//
// Access control is the socket file mode. The server creates the
// socket owner-only by default; see [SocketServer.SetMode].
package service
