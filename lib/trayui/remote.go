// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/trayitems"
	"github.com/bureau-foundation/tray/lib/tui"
)

// ErrStopped is returned by Remote calls after the program exited.
var ErrStopped = errors.New("tray menu has stopped")

// controlMsg carries a Remote call into Update. apply runs on the
// bubbletea goroutine with the live model, unless the caller gave up
// first.
type controlMsg struct {
	apply func(model *Model) (any, tea.Cmd, error)
	reply chan controlReply
	state *atomic.Int32
}

// Call states. Update takes a pending call before applying it; a caller
// whose context ends abandons a pending call so it is never applied.
const (
	callPending int32 = iota
	callTaken
	callAbandoned
)

// take claims the call for Update. It fails if the caller abandoned it.
func (message controlMsg) take() bool {
	return message.state.CompareAndSwap(callPending, callTaken)
}

type controlReply struct {
	value any
	err   error
}

// Remote lets other goroutines drive the menu. Each call becomes a
// message handled by the model's Update, and the call waits for the
// result.
type Remote struct {
	send     func(tea.Msg)
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewRemote returns a Remote delivering to program.
func NewRemote(program *tea.Program) *Remote {
	return newRemote(program.Send)
}

func newRemote(send func(tea.Msg)) *Remote {
	return &Remote{send: send, stopped: make(chan struct{})}
}

// Stop fails pending and future calls with ErrStopped. Call it once
// the program's Run has returned.
func (remote *Remote) Stop() {
	remote.stopOnce.Do(func() { close(remote.stopped) })
}

func (remote *Remote) call(ctx context.Context, apply func(model *Model) (any, tea.Cmd, error)) (any, error) {
	select {
	case <-remote.stopped:
		return nil, ErrStopped
	default:
	}
	message := controlMsg{apply: apply, reply: make(chan controlReply, 1), state: new(atomic.Int32)}
	go remote.send(message)
	select {
	case result := <-message.reply:
		return result.value, result.err
	case <-ctx.Done():
		return abandon(message, ctx.Err())
	case <-remote.stopped:
		return abandon(message, ErrStopped)
	}
}

// abandon withdraws a call that has not been applied and returns err.
// A call Update already took is applied in full, so its own result is
// returned instead.
func abandon(message controlMsg, err error) (any, error) {
	if message.state.CompareAndSwap(callPending, callAbandoned) {
		return nil, err
	}
	result := <-message.reply
	return result.value, result.err
}

// SetChecked sets the checkmark of a check item.
func (remote *Remote) SetChecked(ctx context.Context, id string, checked bool) error {
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		if err := model.menu.SetChecked(id, checked); err != nil {
			return nil, nil, err
		}
		model.heat.Ignite(id, tui.HeatHost, model.clock.Now())
		return nil, nil, nil
	})
	return err
}

// SetEnabled enables or greys out an item.
func (remote *Remote) SetEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		if err := model.menu.SetEnabled(id, enabled); err != nil {
			return nil, nil, err
		}
		model.heat.Ignite(id, tui.HeatHost, model.clock.Now())
		model.clampCursor()
		return nil, nil, nil
	})
	return err
}

// SetLanguage switches the display language and rebuilds the menu.
// The name is normalized with locale.Parse; the normalized language
// is returned.
func (remote *Remote) SetLanguage(ctx context.Context, language string) (string, error) {
	if !locale.Known(language) {
		return "", fmt.Errorf("unsupported language %q", language)
	}
	parsed := locale.Parse(language)
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		for _, err := range model.menu.SetLanguage(parsed) {
			model.logger.Warn("menu item not rebuilt", "error", err)
		}
		model.afterRebuild()
		return nil, nil, nil
	})
	if err != nil {
		return "", err
	}
	return parsed, nil
}

// ApplyDisplayState mirrors the host's virtual display state onto the
// display submenu.
func (remote *Remote) ApplyDisplayState(ctx context.Context, state trayitems.DisplayState) error {
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		err := trayitems.UpdateDisplayState(model.menu, state)
		now := model.clock.Now()
		for _, id := range []string{trayitems.VDDCreate, trayitems.VDDClose, trayitems.VDDPersistent} {
			model.heat.Ignite(id, tui.HeatHost, now)
		}
		return nil, nil, err
	})
	return err
}

// Notify shows a notification toast and updates the tray status.
func (remote *Remote) Notify(ctx context.Context, notification trayitems.Notification) error {
	if err := notification.Validate(); err != nil {
		return err
	}
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		return nil, model.showNotification(notification), nil
	})
	return err
}

// Report returns the language, status, and live item state.
func (remote *Remote) Report(ctx context.Context) (trayitems.Report, error) {
	value, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		return trayitems.Report{
			Language: model.menu.Language(),
			Status:   model.status,
			Items:    model.menu.State(),
		}, nil, nil
	})
	if err != nil {
		return trayitems.Report{}, err
	}
	return value.(trayitems.Report), nil
}

// Rebuild runs the rebuild protocol in the current language.
func (remote *Remote) Rebuild(ctx context.Context) error {
	_, err := remote.call(ctx, func(model *Model) (any, tea.Cmd, error) {
		model.rebuild()
		return nil, nil, nil
	})
	return err
}
