// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/service"
	"github.com/bureau-foundation/tray/lib/trayitems"
)

// Controller applies host requests to the live menu. Implementations
// own the menu on its UI goroutine and block until the request has
// been applied; trayui.Remote is the production implementation.
type Controller interface {
	SetChecked(ctx context.Context, id string, checked bool) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetLanguage(ctx context.Context, language string) (string, error)
	ApplyDisplayState(ctx context.Context, state trayitems.DisplayState) error
	Notify(ctx context.Context, notification trayitems.Notification) error
	Report(ctx context.Context) (trayitems.Report, error)
	Rebuild(ctx context.Context) error
}

// NewControlServer returns a socket server for the tray's control
// socket with every action in [ControlActions] registered. registry is
// the menu's shared correlation registry; resolve reads it from the
// connection goroutine without involving the UI.
func NewControlServer(socketPath string, controller Controller, registry *menu.Registry, logger *slog.Logger) *service.SocketServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "control")
	server := service.NewSocketServer(socketPath, logger)

	server.Handle(ActionSetChecked, func(ctx context.Context, raw []byte) (any, error) {
		var request setCheckedRequest
		if err := service.DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		if request.Item == "" {
			return nil, errors.New("missing required field: item")
		}
		logger.Debug("set-checked", "item", request.Item, "checked", request.Checked)
		return nil, controller.SetChecked(ctx, request.Item, request.Checked)
	})

	server.Handle(ActionSetEnabled, func(ctx context.Context, raw []byte) (any, error) {
		var request setEnabledRequest
		if err := service.DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		if request.Item == "" {
			return nil, errors.New("missing required field: item")
		}
		logger.Debug("set-enabled", "item", request.Item, "enabled", request.Enabled)
		return nil, controller.SetEnabled(ctx, request.Item, request.Enabled)
	})

	server.Handle(ActionSetLanguage, func(ctx context.Context, raw []byte) (any, error) {
		var request setLanguageRequest
		if err := service.DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		if request.Language == "" {
			return nil, errors.New("missing required field: language")
		}
		language, err := controller.SetLanguage(ctx, request.Language)
		if err != nil {
			return nil, err
		}
		logger.Info("language changed by host", "language", language)
		return LanguageResult{Language: language}, nil
	})

	server.Handle(ActionDisplayState, func(ctx context.Context, raw []byte) (any, error) {
		var state trayitems.DisplayState
		if err := service.DecodeRequest(raw, &state); err != nil {
			return nil, err
		}
		return nil, controller.ApplyDisplayState(ctx, state)
	})

	server.Handle(ActionState, func(ctx context.Context, raw []byte) (any, error) {
		return controller.Report(ctx)
	})

	server.Handle(ActionResolve, func(ctx context.Context, raw []byte) (any, error) {
		var request resolveRequest
		if err := service.DecodeRequest(raw, &request); err != nil {
			return nil, err
		}
		if request.Token == "" {
			return nil, errors.New("missing required field: token")
		}
		entry, generation, ok := registry.ResolveEntry(menu.Token(request.Token))
		if !ok {
			return nil, fmt.Errorf("token %q is not live (generation %d)", request.Token, generation)
		}
		return Resolution{Item: entry.ID, Kind: entry.Kind, Generation: generation}, nil
	})

	server.Handle(ActionNotify, func(ctx context.Context, raw []byte) (any, error) {
		var notification trayitems.Notification
		if err := service.DecodeRequest(raw, &notification); err != nil {
			return nil, err
		}
		return nil, controller.Notify(ctx, notification)
	})

	server.Handle(ActionRebuild, func(ctx context.Context, raw []byte) (any, error) {
		return nil, controller.Rebuild(ctx)
	})

	return server
}
