// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/hostlink"
)

func listenCommand(stdout io.Writer) *cli.Command {
	var (
		flags      configFlags
		output     cli.JSONOutput
		socketPath string
		count      int
	)
	return &cli.Command{
		Name:    "listen",
		Summary: "Stand in for the host and print menu activations",
		Description: `Serve the host's notify socket and print every activation the tray
sends: sequence number, time, and item id. A gap in the sequence
means the tray dropped activations because its queue was full.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("listen", pflag.ContinueOnError)
			flags.add(flagSet)
			output.AddFlag(flagSet)
			flagSet.StringVar(&socketPath, "socket", "", "notify socket to serve (default: host.notify_socket)")
			flagSet.IntVar(&count, "count", 0, "exit after this many activations (0: run until interrupted)")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Watch activations while clicking through the menu", Command: "bureau-tray listen"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if count < 0 {
				return cli.Validation("--count must not be negative")
			}
			if socketPath == "" {
				cfg, err := flags.load()
				if err != nil {
					return err
				}
				if err := cfg.EnsurePaths(); err != nil {
					return cli.Forbidden("%w", err)
				}
				socketPath = cfg.Host.NotifySocket
			}
			logger := cli.NewCommandLogger(slog.LevelWarn).With("command", "listen")

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			printer := &activationPrinter{
				output: output,
				limit:  count,
				stdout: stdout,
				logger: logger,
				stop:   cancel,
			}
			server := hostlink.NewActivationServer(socketPath, printer.handle, logger)
			if err := server.Serve(ctx); err != nil {
				return cli.Internal("%w", err)
			}
			return nil
		},
	}
}

// activationPrinter writes each activation to stdout and calls stop
// once limit activations (when positive) have been printed.
type activationPrinter struct {
	output cli.JSONOutput
	limit  int
	stdout io.Writer
	logger *slog.Logger
	stop   context.CancelFunc

	mutex    sync.Mutex
	received int
	last     uint64
}

func (printer *activationPrinter) handle(_ context.Context, activation hostlink.Activation) error {
	printer.mutex.Lock()
	defer printer.mutex.Unlock()
	if printer.limit > 0 && printer.received >= printer.limit {
		return errors.New("listener is shutting down")
	}
	if printer.last != 0 && activation.Sequence > printer.last+1 {
		printer.logger.Warn("activations dropped by the tray", "missing", activation.Sequence-printer.last-1)
	}
	printer.last = activation.Sequence
	printer.received++

	if done, err := printer.output.EmitJSON(printer.stdout, activation); done {
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintf(printer.stdout, "%6d  %s  %s\n", activation.Sequence, activation.Time.Local().Format(time.TimeOnly), activation.Item)
	}
	if printer.limit > 0 && printer.received == printer.limit {
		printer.stop()
	}
	return nil
}
