// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/bureau-foundation/tray/lib/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCommand(os.Stdout).Execute(ctx, os.Args[1:])
	stop()
	if err == nil {
		return
	}
	if !cli.Silent(err) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolError *cli.ToolError
		if errors.As(err, &toolError) && toolError.Hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", toolError.Hint)
		}
	}
	os.Exit(cli.ExitCode(err))
}

// rootCommand builds the command tree. Commands write their results to
// stdout; help and logs go to stderr.
func rootCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "bureau-tray",
		Description: `bureau-tray: localized tray menu for the Sunshine host.

Compiles the menu schema into a live menu in the chosen language,
reports activations to the host, and accepts state updates from it.`,
		Subcommands: []*cli.Command{
			runCommand(),
			validateCommand(stdout),
			treeCommand(stdout),
			callCommand(stdout),
			listenCommand(stdout),
			prefsCommand(stdout),
			versionCommand(stdout),
		},
	}
}

func versionCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			fmt.Fprintf(stdout, "bureau-tray %s\n", buildVersion())
			return nil
		},
	}
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
