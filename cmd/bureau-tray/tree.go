// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/codec"
	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/trayui"
)

func treeCommand(stdout io.Writer) *cli.Command {
	var (
		flags    configFlags
		output   cli.JSONOutput
		language string
	)
	return &cli.Command{
		Name:    "tree",
		Summary: "Print the compiled menu outline",
		Description: `Compile the menu in one language and print it as an indented
outline with labels and schema default state. With --json, print the
language-independent shape instead: ids and kinds in layout order,
identical for every language.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("tree", pflag.ContinueOnError)
			flags.add(flagSet)
			flags.addSchema(flagSet)
			output.AddFlag(flagSet)
			flagSet.StringVar(&language, "language", locale.Default, "display language")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Show the menu in Chinese", Command: "bureau-tray tree --language zh"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if !locale.Known(language) {
				return cli.Validation("unknown language %q (supported: %v)", language, locale.Supported())
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(slog.LevelWarn).With("command", "tree")
			schema, _, err := loadSchema(cfg, logger)
			if err != nil {
				return err
			}

			tree, buildErrors := menu.Compile(schema, menu.CompileOptions{
				Toolkit:   trayui.NewToolkit(),
				Localizer: catalog,
				Language:  locale.Parse(language),
				Registry:  menu.NewRegistry(),
				Logger:    logger,
			})
			if tree == nil {
				return cli.Internal("menu root could not be built")
			}

			if output.Enabled {
				return writeShapeJSON(stdout, tree.Shape())
			}
			if err := tree.WriteOutline(stdout, catalog); err != nil {
				return err
			}
			if len(buildErrors) > 0 {
				fmt.Fprintf(stdout, "(%d item(s) failed to build)\n", len(buildErrors))
			}
			return nil
		},
	}
}

// writeShapeJSON writes shapes through their CBOR form so the JSON
// keys match the wire names.
func writeShapeJSON(w io.Writer, shapes []menu.Shape) error {
	data, err := codec.Marshal(shapes)
	if err != nil {
		return cli.Internal("encoding shape: %w", err)
	}
	converted, err := codec.ToJSON(data)
	if err != nil {
		return cli.Internal("converting shape: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", converted)
	return err
}
