// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the bureau-tray binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// flags with pflag, and suggests the closest command or flag name on a
// typo. Commands return errors; the main function maps them to exit
// codes with [ExitCode] and prints [ToolError] hints.
//
// [NewCommandLogger] picks a text handler for terminals and JSON
// otherwise. [JSONOutput] adds the --json flag shared by the
// inspection commands. [DiagnoseSocketError] turns dial failures on the
// tray's sockets into errors that say what to do next.
package cli
