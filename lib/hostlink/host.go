// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostlink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/service"
	"github.com/bureau-foundation/tray/lib/trayitems"
)

// NewActivationServer returns the host's notify socket server. handle
// is called once per menu-activated request, on the connection's
// goroutine.
func NewActivationServer(socketPath string, handle func(ctx context.Context, activation Activation) error, logger *slog.Logger) *service.SocketServer {
	server := service.NewSocketServer(socketPath, logger)
	server.Handle(ActionMenuActivated, func(ctx context.Context, raw []byte) (any, error) {
		var activation Activation
		if err := service.DecodeRequest(raw, &activation); err != nil {
			return nil, err
		}
		if activation.Item == "" {
			return nil, errors.New("missing required field: item")
		}
		return nil, handle(ctx, activation)
	})
	return server
}

// ControlClient is the host's typed client for the tray's control
// socket.
type ControlClient struct {
	client *service.Client
}

// NewControlClient returns a client for the control socket at
// socketPath.
func NewControlClient(socketPath string) *ControlClient {
	return &ControlClient{client: service.NewClient(socketPath)}
}

// Call sends a raw control request. The CLI uses it for actions given
// on the command line; result may be nil.
func (client *ControlClient) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	return client.client.Call(ctx, action, fields, result)
}

func (client *ControlClient) SetChecked(ctx context.Context, id string, checked bool) error {
	return client.client.Call(ctx, ActionSetChecked, map[string]any{"item": id, "checked": checked}, nil)
}

func (client *ControlClient) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return client.client.Call(ctx, ActionSetEnabled, map[string]any{"item": id, "enabled": enabled}, nil)
}

// SetLanguage returns the language the tray normalized the request to.
func (client *ControlClient) SetLanguage(ctx context.Context, language string) (string, error) {
	var result LanguageResult
	if err := client.client.Call(ctx, ActionSetLanguage, map[string]any{"language": language}, &result); err != nil {
		return "", err
	}
	return result.Language, nil
}

func (client *ControlClient) ApplyDisplayState(ctx context.Context, state trayitems.DisplayState) error {
	return client.client.Call(ctx, ActionDisplayState, map[string]any{
		"can_create": state.CanCreate,
		"can_close":  state.CanClose,
		"persistent": state.Persistent,
		"active":     state.Active,
	}, nil)
}

func (client *ControlClient) Notify(ctx context.Context, notification trayitems.Notification) error {
	fields := map[string]any{"kind": string(notification.Kind)}
	if notification.Subject != "" {
		fields["subject"] = notification.Subject
	}
	return client.client.Call(ctx, ActionNotify, fields, nil)
}

func (client *ControlClient) Report(ctx context.Context) (trayitems.Report, error) {
	var report trayitems.Report
	if err := client.client.Call(ctx, ActionState, nil, &report); err != nil {
		return trayitems.Report{}, err
	}
	return report, nil
}

func (client *ControlClient) Rebuild(ctx context.Context) error {
	return client.client.Call(ctx, ActionRebuild, nil, nil)
}

// Resolve asks the tray which logical item a widget token belongs to.
func (client *ControlClient) Resolve(ctx context.Context, token menu.Token) (Resolution, error) {
	var resolution Resolution
	if err := client.client.Call(ctx, ActionResolve, map[string]any{"token": string(token)}, &resolution); err != nil {
		return Resolution{}, err
	}
	return resolution, nil
}

var _ Controller = (*ControlClient)(nil)
