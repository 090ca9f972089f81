// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/prefstore"
)

// preferences is the prefs show output.
type preferences struct {
	Path     string        `json:"path"`
	Language string        `json:"language,omitempty"`
	Items    menu.Snapshot `json:"items"`
}

func prefsCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "prefs",
		Summary: "Inspect or reset saved tray preferences",
		Description: `The tray saves the display language whenever it changes and the
check and enabled state of every state-bearing item on exit. These
commands read the preference file directly and fail while a tray holds
it open.`,
		Subcommands: []*cli.Command{
			prefsShowCommand(stdout),
			prefsResetCommand(stdout),
		},
	}
}

func prefsShowCommand(stdout io.Writer) *cli.Command {
	var (
		flags  configFlags
		output cli.JSONOutput
	)
	return &cli.Command{
		Name:    "show",
		Summary: "Print the saved language and item states",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			store, err := openPreferences(flags, args)
			if err != nil {
				return err
			}
			defer store.Close()

			result := preferences{Path: store.Path()}
			if language, ok, err := store.Language(); err != nil {
				return cli.Internal("%w", err)
			} else if ok {
				result.Language = language
			}
			if result.Items, err = store.Items(); err != nil {
				return cli.Internal("%w", err)
			}

			if done, err := output.EmitJSON(stdout, result); done {
				return err
			}
			language := result.Language
			if language == "" {
				language = "(not saved)"
			}
			fmt.Fprintf(stdout, "file:      %s\nlanguage:  %s\n", result.Path, language)
			if len(result.Items) == 0 {
				fmt.Fprintln(stdout, "items:     (none saved)")
				return nil
			}
			table := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(table, "ITEM\tCHECKED\tENABLED")
			for _, id := range result.Items.IDs() {
				state := result.Items[id]
				checked := "-"
				if state.Checkable {
					checked = fmt.Sprint(state.Checked)
				}
				fmt.Fprintf(table, "%s\t%s\t%t\n", id, checked, state.Enabled)
			}
			return table.Flush()
		},
	}
}

func prefsResetCommand(stdout io.Writer) *cli.Command {
	var flags configFlags
	return &cli.Command{
		Name:    "reset",
		Summary: "Forget the saved language and item states",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("reset", pflag.ContinueOnError)
			flags.add(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			store, err := openPreferences(flags, args)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Reset(); err != nil {
				return cli.Internal("%w", err)
			}
			fmt.Fprintf(stdout, "reset %s\n", store.Path())
			return nil
		},
	}
}

func openPreferences(flags configFlags, args []string) (*prefstore.Store, error) {
	if len(args) > 0 {
		return nil, cli.Validation("unexpected argument: %s", args[0])
	}
	cfg, err := flags.load()
	if err != nil {
		return nil, err
	}
	store, err := prefstore.Open(cfg.State.Preferences, nil)
	if err != nil {
		if errors.Is(err, prefstore.ErrLocked) {
			return nil, cli.Conflict("%w", err).WithHint("Quit the running tray first.")
		}
		return nil, cli.Internal("%w", err)
	}
	return store, nil
}
