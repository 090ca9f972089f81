// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the tray's YAML configuration.
//
// A configuration file is named by the --config flag or the
// BUREAU_TRAY_CONFIG environment variable. There is no file discovery:
// without either, [Resolve] returns [Default]. Values in the file are
// merged over the defaults.
//
// The file may contain development and production sections that
// override base values when [Config].Environment matches. Production
// without its own section turns strict schema checking off, so an
// installed tray keeps running with the items that are valid.
//
// Path fields support ${VAR} and ${VAR:-default} expansion. Defaults
// may nest. Variables come from the optional env_file (read with
// godotenv and never exported to the process) and then from the
// process environment. A variable with neither a value nor a default
// is an error rather than an empty path.
//
// This package depends on no other tray packages.
package config
