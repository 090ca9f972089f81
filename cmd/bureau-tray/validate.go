// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/trayui"
)

// validationReport is the result of validate, also its --json output.
type validationReport struct {
	Schema    string           `json:"schema"`
	Digest    string           `json:"digest"`
	Items     int              `json:"items"`
	Problems  []string         `json:"problems"`
	Languages []languageReport `json:"languages"`
	Strict    bool             `json:"strict"`
}

// languageReport covers one compile of the schema.
type languageReport struct {
	Language      string   `json:"language"`
	Built         int      `json:"built"`
	BuildFailures []string `json:"build_failures"`
	MissingLabels []string `json:"missing_labels"`
	Shape         string   `json:"shape"`
}

// Clean reports whether the schema has no problems in any language.
func (report validationReport) Clean() bool {
	if len(report.Problems) > 0 {
		return false
	}
	for _, language := range report.Languages {
		if len(language.BuildFailures) > 0 || len(language.MissingLabels) > 0 {
			return false
		}
	}
	return true
}

func validateCommand(stdout io.Writer) *cli.Command {
	var (
		flags     configFlags
		output    cli.JSONOutput
		printYAML bool
	)
	return &cli.Command{
		Name:    "validate",
		Summary: "Check the menu schema and label catalogs",
		Description: `Check the configured menu schema.

Reports rejected items (duplicate ids, missing parents, cycles, bad
effects), compiles the menu in every catalog language to catch build
failures, and lists label keys with no translation. Exits 1 when
anything is reported.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("validate", pflag.ContinueOnError)
			flags.add(flagSet)
			flags.addSchema(flagSet)
			output.AddFlag(flagSet)
			flagSet.BoolVar(&printYAML, "print", false, "print the normalized schema as YAML")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Validate a schema before deploying it", Command: "bureau-tray validate --schema ./tray.yaml"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(slog.LevelError)
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			// Load leniently so every rejected item is reported.
			strict := cfg.Menu.Strict
			cfg.Menu.Strict = false
			schema, problems, err := loadSchema(cfg, logger)
			if err != nil {
				return err
			}

			report := validateSchema(schema, problems, catalog)
			report.Schema = cfg.Menu.SchemaFile
			if report.Schema == "" {
				report.Schema = "(built-in)"
			}
			report.Strict = strict

			if printYAML {
				if err := printSchema(stdout, schema); err != nil {
					return err
				}
			}
			if done, err := output.EmitJSON(stdout, report); done {
				if err == nil && !report.Clean() {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			writeValidationReport(stdout, report)
			if !report.Clean() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// validateSchema compiles schema in every catalog language against the
// terminal toolkit.
func validateSchema(schema *menu.Schema, problems []error, catalog *locale.Catalog) validationReport {
	report := validationReport{
		Digest:   schema.DigestString(),
		Items:    schema.Len(),
		Problems: errorStrings(problems),
	}
	keys := labelKeys(schema)
	for _, language := range catalog.Languages() {
		tree, buildErrors := menu.Compile(schema, menu.CompileOptions{
			Toolkit:   trayui.NewToolkit(),
			Localizer: catalog,
			Language:  language,
			Registry:  menu.NewRegistry(),
		})
		entry := languageReport{
			Language:      language,
			BuildFailures: errorStrings(buildErrors),
			MissingLabels: catalog.Missing(language, keys),
		}
		if tree != nil {
			entry.Built = tree.Len()
			entry.Shape = tree.FingerprintString()
		}
		report.Languages = append(report.Languages, entry)
	}
	return report
}

func writeValidationReport(w io.Writer, report validationReport) {
	fmt.Fprintf(w, "schema:  %s\n", report.Schema)
	fmt.Fprintf(w, "digest:  %s\n", report.Digest)
	fmt.Fprintf(w, "items:   %d\n", report.Items)
	for _, problem := range report.Problems {
		fmt.Fprintf(w, "  rejected: %s\n", problem)
	}
	for _, language := range report.Languages {
		fmt.Fprintf(w, "%s: %d built, shape %s\n", language.Language, language.Built, language.Shape)
		for _, failure := range language.BuildFailures {
			fmt.Fprintf(w, "  build failure: %s\n", failure)
		}
		for _, key := range language.MissingLabels {
			fmt.Fprintf(w, "  missing label: %s\n", key)
		}
	}
	if report.Clean() {
		fmt.Fprintln(w, "ok")
	}
}

// printSchema writes the schema as YAML, highlighted when w is a
// terminal.
func printSchema(w io.Writer, schema *menu.Schema) error {
	data, err := yaml.Marshal(schema)
	if err != nil {
		return cli.Internal("encoding schema: %w", err)
	}
	if cli.IsTerminal(w) {
		if err := quick.Highlight(w, string(data), "yaml", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = w.Write(data)
	return err
}

func errorStrings(errs []error) []string {
	result := make([]string, 0, len(errs))
	for _, err := range errs {
		result = append(result, err.Error())
	}
	return result
}
