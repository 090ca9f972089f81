// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package menu compiles a declarative tray menu schema into live
// toolkit widgets and routes activation events back to stable logical
// item identifiers.
//
// The package is built from five cooperating parts:
//
//   - [Schema]: an immutable, validated list of [Descriptor] values.
//     It is the single source of truth for menu structure. Logical ids
//     are the contract with the host application and never change once
//     shipped.
//   - [Compile]: turns a Schema into a [Tree] of toolkit widgets in
//     three passes (containers, leaves, attachment). A widget that fails
//     to build is logged and skipped; the rest of the menu still builds.
//   - [Registry]: the thread-safe token→id table. It holds only plain
//     strings, never widgets, so any goroutine may call [Registry.Resolve].
//   - State store: checked/enabled accessors on [Menu], plus
//     [Menu.Snapshot] and [Menu.Restore] for carrying state across a
//     rebuild.
//   - [Dispatcher]: resolves an event token, interprets the item's
//     [Effect], and forwards the logical id to the host [Notifier].
//
// [Menu] ties these together as an explicitly owned context object.
// Widgets are confined to the goroutine that built them (in the tray
// binary, the bubbletea event loop), so a Menu is not safe for
// concurrent use. Only the Registry returned by [Menu.Registry] may be
// shared.
//
// Rebuild protocol (language change):
//
//	snapshot := menu.Snapshot()   // checked/enabled of state-bearing ids
//	registry.Clear(); Compile()   // fresh widgets, fresh tokens
//	menu.Restore(snapshot)        // saved values override schema defaults
//
// [Menu.Rebuild] performs exactly these steps in this order.
package menu
