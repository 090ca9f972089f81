// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the tray's CBOR configuration.
//
// CBOR is used for everything that crosses a process or disk boundary
// inside the tray: the control and notify socket protocols, the item
// states kept in the preference store, and the canonical form hashed
// by menu.Schema.Digest. JSON is reserved for what people read:
// CLI --json output and schema files.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same logical value always produces the same bytes. Schema digests
// depend on this.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
//   - `cbor` tag: the type is only ever CBOR. Socket request structs
//     and the schema digest record are examples.
//   - `json` tag: the type is both JSON and CBOR. fxamacker/cbor v2
//     falls back to `json` tags when `cbor` tags are absent, so one
//     tag names the field in both formats. menu.ItemState,
//     trayitems.Report, and hostlink.Activation are examples.
//
// Never put both tags on one field.
package codec
