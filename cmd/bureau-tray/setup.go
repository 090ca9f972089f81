// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/config"
	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/trayitems"
)

// localizerCacheSize bounds the label cache: every key in every
// supported language with room to spare.
const localizerCacheSize = 4096

// configFlags are the flags shared by every command that reads the
// tray configuration.
type configFlags struct {
	path   string
	schema string
}

func (flags *configFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.path, "config", "", "tray config file (default: $"+config.EnvironmentVariable+", then built-in defaults)")
}

func (flags *configFlags) addSchema(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.schema, "schema", "", "menu schema file overriding menu.schema_file (.yaml, .yml, .json, .jsonc)")
}

// load resolves and validates the configuration and applies the
// --schema override.
func (flags *configFlags) load() (*config.Config, error) {
	loaded, err := config.Resolve(flags.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("%w", err).
				WithHint("Pass --config with an existing file or unset " + config.EnvironmentVariable + ".")
		}
		return nil, cli.Validation("%w", err)
	}
	if flags.schema != "" {
		loaded.Menu.SchemaFile = flags.schema
	}
	if err := loaded.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return loaded, nil
}

// loadCatalog returns the built-in catalogs with menu.catalog_dir
// layered on top.
func loadCatalog(cfg *config.Config) (*locale.Catalog, error) {
	catalog := locale.Builtin()
	if cfg.Menu.CatalogDir == "" {
		return catalog, nil
	}
	overlay, err := locale.LoadDir(cfg.Menu.CatalogDir)
	if err != nil {
		return nil, cli.Validation("loading label catalogs: %w", err)
	}
	return catalog.Merge(overlay), nil
}

// loadSchema returns the configured schema, or the built-in item table
// when menu.schema_file is empty. The problems are the rejected
// descriptors; in strict mode any problem is an error.
func loadSchema(cfg *config.Config, logger *slog.Logger) (*menu.Schema, []error, error) {
	if cfg.Menu.SchemaFile == "" {
		return trayitems.Schema(), nil, nil
	}
	schema, err := menu.LoadFile(cfg.Menu.SchemaFile)
	if schema == nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, cli.NotFound("%w", err)
		}
		return nil, nil, cli.Validation("%w", err)
	}
	problems := schema.Problems()
	if len(problems) > 0 {
		if cfg.Menu.Strict {
			return nil, problems, cli.Validation("menu schema %s has %d problem(s): %w",
				cfg.Menu.SchemaFile, len(problems), errors.Join(problems...)).
				WithHint("Run 'bureau-tray validate' for details, or set menu.strict: false to drop the offending items.")
		}
		for _, problem := range problems {
			logger.Warn("menu item dropped", "schema", cfg.Menu.SchemaFile, "error", problem)
		}
	}
	return schema, problems, nil
}

// languageSource reports where the initial language came from.
type languageSource string

const (
	languageFromFlag        languageSource = "flag"
	languageFromPreferences languageSource = "preferences"
	languageFromConfig      languageSource = "config"
	languageFromEnvironment languageSource = "environment"
	languageFromDefault     languageSource = "default"
)

// savedLanguage is the subset of the preference store initialLanguage
// needs.
type savedLanguage interface {
	Language() (string, bool, error)
}

// initialLanguage picks the starting language: an explicit flag, then
// the saved preference, then menu.language, then LANG, then English.
// Unrecognized names at any step are skipped with a warning.
func initialLanguage(flag string, store savedLanguage, cfg *config.Config, logger *slog.Logger) (string, languageSource) {
	candidate := func(name string, source languageSource) (string, bool) {
		if name == "" {
			return "", false
		}
		if !locale.Known(name) {
			// LANG is commonly C or POSIX.
			if source == languageFromEnvironment {
				return "", false
			}
			logger.Warn("ignoring unknown language", "language", name, "source", string(source))
			return "", false
		}
		return locale.Parse(name), true
	}

	if language, ok := candidate(flag, languageFromFlag); ok {
		return language, languageFromFlag
	}
	if store != nil {
		saved, found, err := store.Language()
		if err != nil {
			logger.Warn("reading saved language", "error", err)
		} else if found {
			if language, ok := candidate(saved, languageFromPreferences); ok {
				return language, languageFromPreferences
			}
		}
	}
	if language, ok := candidate(cfg.Menu.Language, languageFromConfig); ok {
		return language, languageFromConfig
	}
	if language, ok := candidate(os.Getenv("LANG"), languageFromEnvironment); ok {
		return language, languageFromEnvironment
	}
	return locale.Default, languageFromDefault
}

// labelKeys returns the label key of every labelled descriptor.
func labelKeys(schema *menu.Schema) []string {
	var keys []string
	for _, descriptor := range schema.Descriptors() {
		if descriptor.LabelKey != "" {
			keys = append(keys, descriptor.LabelKey)
		}
	}
	return keys
}
