// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostlink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/tray/lib/clock"
	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/menu/menutest"
	"github.com/bureau-foundation/tray/lib/service"
	"github.com/bureau-foundation/tray/lib/testutil"
	"github.com/bureau-foundation/tray/lib/trayitems"
)

// menuController applies control requests to a real Menu under a
// mutex, standing in for the UI goroutine.
type menuController struct {
	mutex         sync.Mutex
	menu          *menu.Menu
	notifications []trayitems.Notification
}

func newMenuController(t *testing.T) *menuController {
	t.Helper()
	m, err := menu.New(menu.Options{
		Schema:    trayitems.Schema(),
		Toolkit:   menutest.NewFakeToolkit(),
		Localizer: locale.Builtin(),
		Language:  locale.English,
		Logger:    testutil.Logger(t),
	})
	if err != nil {
		t.Fatalf("menu.New: %v", err)
	}
	if errs := m.Build(); len(errs) != 0 {
		t.Fatalf("Build: %v", errs)
	}
	return &menuController{menu: m}
}

func (controller *menuController) SetChecked(ctx context.Context, id string, checked bool) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.menu.SetChecked(id, checked)
}

func (controller *menuController) SetEnabled(ctx context.Context, id string, enabled bool) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.menu.SetEnabled(id, enabled)
}

func (controller *menuController) SetLanguage(ctx context.Context, language string) (string, error) {
	if !locale.Known(language) {
		return "", fmt.Errorf("unsupported language %q", language)
	}
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	parsed := locale.Parse(language)
	if errs := controller.menu.SetLanguage(parsed); len(errs) != 0 {
		return "", errors.Join(errs...)
	}
	return parsed, nil
}

func (controller *menuController) ApplyDisplayState(ctx context.Context, state trayitems.DisplayState) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return trayitems.UpdateDisplayState(controller.menu, state)
}

func (controller *menuController) Notify(ctx context.Context, notification trayitems.Notification) error {
	if err := notification.Validate(); err != nil {
		return err
	}
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	controller.notifications = append(controller.notifications, notification)
	return nil
}

func (controller *menuController) Report(ctx context.Context) (trayitems.Report, error) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return trayitems.Report{
		Language: controller.menu.Language(),
		Status:   trayitems.StatusIdle,
		Items:    controller.menu.State(),
	}, nil
}

func (controller *menuController) Rebuild(ctx context.Context) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if errs := controller.menu.Rebuild(); len(errs) != 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (controller *menuController) token(t *testing.T, id string) menu.Token {
	t.Helper()
	entry, ok := controller.menu.Registry().Lookup(id)
	if !ok {
		t.Fatalf("item %q not registered", id)
	}
	return entry.Token
}

func startControl(t *testing.T) (*menuController, *ControlClient) {
	t.Helper()
	controller := newMenuController(t)
	socketPath := filepath.Join(testutil.SocketDir(t), "control.sock")
	server := NewControlServer(socketPath, controller, controller.menu.Registry(), testutil.Logger(t))
	serve(t, server)
	return controller, NewControlClient(socketPath)
}

func serve(t *testing.T, server *service.SocketServer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server not ready")
	t.Cleanup(func() {
		cancel()
		testutil.RequireReceive(t, done, 5*time.Second, "server did not stop")
	})
}

func TestControlServerRegistersEveryAction(t *testing.T) {
	controller := newMenuController(t)
	server := NewControlServer("unused.sock", controller, controller.menu.Registry(), nil)
	want := append([]string(nil), ControlActions()...)
	sort.Strings(want)
	if diff := cmp.Diff(want, server.Actions()); diff != "" {
		t.Errorf("registered actions mismatch (-want +got):\n%s", diff)
	}
}

func TestControlSetChecked(t *testing.T) {
	controller, client := startControl(t)
	ctx := context.Background()

	if err := client.SetChecked(ctx, trayitems.VDDPersistent, true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if checked, _ := controller.menu.Checked(trayitems.VDDPersistent); !checked {
		t.Error("vdd_persistent not checked after set-checked")
	}

	err := client.SetChecked(ctx, "no_such_item", true)
	var callError *service.CallError
	if !errors.As(err, &callError) {
		t.Fatalf("expected *service.CallError for unknown item, got %v", err)
	}

	if err := client.SetChecked(ctx, trayitems.Restart, true); err == nil {
		t.Error("expected an error checking an action item")
	}
}

func TestControlSetEnabled(t *testing.T) {
	controller, client := startControl(t)
	if err := client.SetEnabled(context.Background(), trayitems.ResetDisplay, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if enabled, _ := controller.menu.Enabled(trayitems.ResetDisplay); enabled {
		t.Error("reset_display still enabled")
	}
}

func TestControlMissingItem(t *testing.T) {
	_, client := startControl(t)
	err := client.Call(context.Background(), ActionSetChecked, map[string]any{"checked": true}, nil)
	var callError *service.CallError
	if !errors.As(err, &callError) || callError.Message != "missing required field: item" {
		t.Errorf("expected missing item error, got %v", err)
	}
}

func TestControlSetLanguage(t *testing.T) {
	controller, client := startControl(t)
	ctx := context.Background()

	before := controller.token(t, trayitems.Quit)
	language, err := client.SetLanguage(ctx, "ja_JP.UTF-8")
	if err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if language != locale.Japanese {
		t.Errorf("language = %q, want %q", language, locale.Japanese)
	}
	if controller.menu.Language() != locale.Japanese {
		t.Errorf("menu language = %q", controller.menu.Language())
	}
	if after := controller.token(t, trayitems.Quit); after == before {
		t.Error("quit token unchanged: menu was not rebuilt")
	}

	if _, err := client.SetLanguage(ctx, "tlh"); err == nil {
		t.Error("expected an error for an unsupported language")
	}
}

func TestControlDisplayState(t *testing.T) {
	controller, client := startControl(t)
	state := trayitems.DisplayState{CanCreate: false, CanClose: true, Persistent: true, Active: true}
	if err := client.ApplyDisplayState(context.Background(), state); err != nil {
		t.Fatalf("ApplyDisplayState: %v", err)
	}

	report, err := client.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := map[string]menu.ItemState{
		trayitems.VDDCreate:     {Checked: true, Enabled: false, Checkable: true},
		trayitems.VDDClose:      {Checked: false, Enabled: true, Checkable: true},
		trayitems.VDDPersistent: {Checked: true, Enabled: true, Checkable: true},
	}
	for id, wantState := range want {
		if diff := cmp.Diff(wantState, report.Items[id]); diff != "" {
			t.Errorf("%s state mismatch (-want +got):\n%s", id, diff)
		}
	}
	if controller.menu.Language() != report.Language {
		t.Errorf("report language %q, menu language %q", report.Language, controller.menu.Language())
	}
}

func TestControlResolve(t *testing.T) {
	controller, client := startControl(t)
	ctx := context.Background()

	token := controller.token(t, trayitems.Restart)
	resolution, err := client.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolution.Item != trayitems.Restart || resolution.Kind != menu.KindAction {
		t.Errorf("resolution = %+v, want restart/action", resolution)
	}

	// After a rebuild the old token belongs to no live item.
	if err := client.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if _, err := client.Resolve(ctx, token); err == nil {
		t.Error("stale token still resolves after rebuild")
	}
	fresh, err := client.Resolve(ctx, controller.token(t, trayitems.Restart))
	if err != nil {
		t.Fatalf("Resolve fresh token: %v", err)
	}
	if fresh.Generation <= resolution.Generation {
		t.Errorf("generation did not advance: %d then %d", resolution.Generation, fresh.Generation)
	}
}

func TestControlRebuildKeepsState(t *testing.T) {
	controller, client := startControl(t)
	ctx := context.Background()
	if err := client.SetChecked(ctx, trayitems.VDDPersistent, true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if err := client.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if checked, _ := controller.menu.Checked(trayitems.VDDPersistent); !checked {
		t.Error("vdd_persistent lost its checkmark across a rebuild")
	}
}

func TestControlNotify(t *testing.T) {
	controller, client := startControl(t)
	ctx := context.Background()
	notification := trayitems.Notification{Kind: trayitems.StreamStarted, Subject: "Steam Deck"}
	if err := client.Notify(ctx, notification); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if diff := cmp.Diff([]trayitems.Notification{notification}, controller.notifications); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
	if err := client.Notify(ctx, trayitems.Notification{Kind: "fireworks"}); err == nil {
		t.Error("expected an error for an unknown notification kind")
	}
}

func TestNotifierDelivers(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "notify.sock")
	received := make(chan Activation, 8)
	server := NewActivationServer(socketPath, func(ctx context.Context, activation Activation) error {
		received <- activation
		return nil
	}, testutil.Logger(t))
	serve(t, server)

	epoch := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	notifier := NewNotifier(NotifierConfig{
		SocketPath: socketPath,
		Clock:      clock.Fake(epoch),
		Logger:     testutil.Logger(t),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifier.Run(ctx)

	var _ menu.Notifier = notifier
	notifier.Notify(trayitems.Restart)
	notifier.Notify(trayitems.LangJapanese)

	first := testutil.RequireReceive(t, received, 5*time.Second, "first activation")
	second := testutil.RequireReceive(t, received, 5*time.Second, "second activation")
	if first.Item != trayitems.Restart || first.Sequence != 1 {
		t.Errorf("first = %+v, want restart #1", first)
	}
	if second.Item != trayitems.LangJapanese || second.Sequence != 2 {
		t.Errorf("second = %+v, want lang_japanese #2", second)
	}
	if !first.Time.Equal(epoch) {
		t.Errorf("time = %v, want %v", first.Time, epoch)
	}
}

func TestNotifierDrainsQueueOnCancel(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "notify.sock")
	received := make(chan Activation, 8)
	server := NewActivationServer(socketPath, func(ctx context.Context, activation Activation) error {
		received <- activation
		return nil
	}, testutil.Logger(t))
	serve(t, server)

	notifier := NewNotifier(NotifierConfig{
		SocketPath: socketPath,
		Logger:     testutil.Logger(t),
	})
	// The user picks restart and the tray exits before Run sees it.
	notifier.Notify(trayitems.Restart)
	notifier.Notify(trayitems.Quit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	notifier.Run(ctx)

	first := testutil.RequireReceive(t, received, 5*time.Second, "restart was not delivered")
	second := testutil.RequireReceive(t, received, 5*time.Second, "quit was not delivered")
	if first.Item != trayitems.Restart || second.Item != trayitems.Quit {
		t.Errorf("delivered %q then %q, want restart then quit", first.Item, second.Item)
	}
	if stats := notifier.Stats(); stats.Delivered != 2 || stats.Failed != 0 || stats.Pending != 0 {
		t.Errorf("stats = %+v, want 2 delivered", stats)
	}
}

func TestNotifierDropsWhenFull(t *testing.T) {
	notifier := NewNotifier(NotifierConfig{
		SocketPath: filepath.Join(testutil.SocketDir(t), "absent.sock"),
		QueueSize:  2,
		Logger:     testutil.Logger(t),
	})
	// Run is not started, so nothing drains the queue.
	for range 5 {
		notifier.Notify(trayitems.Quit)
	}
	stats := notifier.Stats()
	if stats.Pending != 2 || stats.Dropped != 3 {
		t.Errorf("stats = %+v, want 2 pending and 3 dropped", stats)
	}
}

func TestNotifierCountsFailures(t *testing.T) {
	notifier := NewNotifier(NotifierConfig{
		SocketPath: filepath.Join(testutil.SocketDir(t), "absent.sock"),
		Logger:     testutil.Logger(t),
	})
	notifier.Notify(trayitems.Restart)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		notifier.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for notifier.Stats().Failed == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "Run did not return")

	if stats := notifier.Stats(); stats.Failed != 1 || stats.Delivered != 0 {
		t.Errorf("stats = %+v, want one failure", stats)
	}
}

func TestActivationServerRejectsEmptyItem(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "notify.sock")
	server := NewActivationServer(socketPath, func(ctx context.Context, activation Activation) error {
		t.Errorf("handler called for %+v", activation)
		return nil
	}, nil)
	serve(t, server)

	err := service.NewClient(socketPath).Call(context.Background(), ActionMenuActivated, map[string]any{"sequence": 1}, nil)
	if err == nil {
		t.Error("expected an error for an activation without an item")
	}
}
