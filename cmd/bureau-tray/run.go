// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tray/lib/cli"
	"github.com/bureau-foundation/tray/lib/clock"
	"github.com/bureau-foundation/tray/lib/hostlink"
	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/prefstore"
	"github.com/bureau-foundation/tray/lib/trayui"
)

type runOptions struct {
	configFlags
	language    string
	noAltScreen bool
}

func runCommand() *cli.Command {
	var options runOptions
	return &cli.Command{
		Name:    "run",
		Summary: "Run the tray menu",
		Description: `Run the tray menu in the terminal.

The menu is built in the saved language (or --language, menu.language,
or LANG). Every action and check activation is sent to the host's
notify socket; the host drives item state and notifications through
the control socket. Check states and the language are saved on exit
and restored on the next start.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			options.add(flagSet)
			options.addSchema(flagSet)
			flagSet.StringVar(&options.language, "language", "", "display language, overriding the saved one (e.g. zh, ja_JP.UTF-8)")
			flagSet.BoolVar(&options.noAltScreen, "no-alt-screen", false, "draw inline instead of on the alternate screen")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Run with the built-in menu", Command: "bureau-tray run"},
			{Description: "Run in Japanese with a custom schema", Command: "bureau-tray run --language ja --schema ./tray.yaml"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runTray(ctx, options)
		},
	}
}

func runTray(ctx context.Context, options runOptions) error {
	cfg, err := options.load()
	if err != nil {
		return err
	}
	if options.noAltScreen {
		cfg.UI.AltScreen = false
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return cli.Validation("%w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Forbidden("%w", err)
	}

	// Records go to the status line once the program starts and to the
	// log file when one is configured.
	statusHandler := trayui.NewLogHandler(level)
	var handler slog.Handler = statusHandler
	if cfg.Log.File != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.File, level)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", cfg.Log.File, err)
		}
		defer closeFile()
		handler = fanoutHandler{statusHandler, fileHandler}
	}
	logger := slog.New(handler)

	store, err := prefstore.Open(cfg.State.Preferences, logger)
	if err != nil {
		if errors.Is(err, prefstore.ErrLocked) {
			return cli.Conflict("%w", err).WithHint("Another bureau-tray is already running with this preference file.")
		}
		return cli.Internal("%w", err)
	}
	defer store.Close()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	localizer, err := locale.NewCachedLocalizer(catalog, localizerCacheSize)
	if err != nil {
		return cli.Internal("%w", err)
	}
	schema, _, err := loadSchema(cfg, logger)
	if err != nil {
		return err
	}
	language, source := initialLanguage(options.language, store, cfg, logger)

	wallClock := clock.Real()
	notifier := hostlink.NewNotifier(hostlink.NotifierConfig{
		SocketPath: cfg.Host.NotifySocket,
		QueueSize:  cfg.Host.QueueSize,
		Clock:      wallClock,
		Logger:     logger,
	})
	registry := menu.NewRegistry()
	tray, err := menu.New(menu.Options{
		Schema:        schema,
		Toolkit:       trayui.NewToolkit(),
		Localizer:     localizer,
		Language:      language,
		Notifier:      notifier,
		Opener:        browserOpener(logger),
		LanguageStore: store,
		Registry:      registry,
		Logger:        logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	for _, buildError := range tray.Build() {
		logger.Warn("menu item not built", "error", buildError)
	}
	if tray.Tree() == nil {
		return cli.Internal("menu root could not be built")
	}
	if saved, err := store.Items(); err != nil {
		logger.Warn("reading saved item state", "error", err)
	} else if len(saved) > 0 {
		if skipped := tray.Restore(saved); len(skipped) > 0 {
			logger.Debug("saved state for removed items ignored", "items", skipped)
		}
	}

	model, err := trayui.NewModel(trayui.Config{
		Menu:     tray,
		Notifier: notifier,
		Title:    cfg.UI.Title,
		Logger:   logger,
		Clock:    wallClock,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}

	programOptions := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, programOptions...)
	statusHandler.SetProgram(program)
	remote := trayui.NewRemote(program)

	background, cancel := context.WithCancel(ctx)
	defer cancel()
	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		notifier.Run(background)
	}()
	control := hostlink.NewControlServer(cfg.Host.ControlSocket, remote, registry, logger)
	go func() {
		defer workers.Done()
		if err := control.Serve(background); err != nil {
			logger.Error("control socket stopped", "error", err)
		}
	}()

	logger.Info("tray started",
		"language", language,
		"language_source", string(source),
		"items", tray.Tree().Len(),
		"schema", schema.DigestString(),
		"control", cfg.Host.ControlSocket,
	)

	_, runErr := program.Run()
	remote.Stop()
	cancel()
	workers.Wait()

	// The program has exited, so the menu is back on this goroutine.
	if err := store.SaveItems(tray.Snapshot()); err != nil {
		logger.Warn("saving item state", "error", err)
	}
	stats := notifier.Stats()
	logger.Info("tray stopped",
		"delivered", stats.Delivered,
		"dropped", stats.Dropped,
		"failed", stats.Failed,
		"pending", stats.Pending,
	)

	if runErr != nil {
		if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return cli.Internal("tray menu: %w", runErr)
	}
	return nil
}
