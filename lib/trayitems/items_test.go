// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayitems

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/menu/menutest"
)

func TestSchemaIsValid(t *testing.T) {
	schema, err := menu.NewSchema(Descriptors()...)
	if err != nil {
		t.Fatalf("default schema has problems: %v", err)
	}
	if schema.Len() != len(Descriptors()) {
		t.Errorf("Len = %d, want %d", schema.Len(), len(Descriptors()))
	}
}

func TestEveryLabelIsTranslated(t *testing.T) {
	catalog := locale.Builtin()
	var keys []string
	for _, descriptor := range Descriptors() {
		if descriptor.LabelKey != "" {
			keys = append(keys, descriptor.LabelKey)
		}
		if confirm, ok := descriptor.Effect.(menu.Confirm); ok {
			keys = append(keys, confirm.TitleKey, confirm.MessageKey)
		}
	}
	for _, language := range locale.Supported() {
		for _, key := range keys {
			if !catalog.Has(key, language) {
				t.Errorf("%s: no string for %q", language, key)
			}
		}
	}
}

func TestTopLevelLayout(t *testing.T) {
	toolkit := menutest.NewFakeToolkit()
	_, errs := menu.Compile(Schema(), menu.CompileOptions{
		Toolkit:   toolkit,
		Localizer: locale.Builtin(),
		Language:  locale.English,
	})
	if len(errs) != 0 {
		t.Fatalf("Compile: %v", errs)
	}
	want := []string{
		"Open GUI", "----", "Foundation Display", "Advanced Settings", "----",
		"Language", "----", "Visit Website", "Visit Project", "----", "Restart", "Quit",
	}
	if diff := cmp.Diff(want, toolkit.Root().Labels()); diff != "" {
		t.Errorf("top level (-want +got):\n%s", diff)
	}
	advanced := toolkit.Root().Find("Advanced Settings")
	wantAdvanced := []string{"Import Config", "Export Config", "Reset to Default", "----", "Clear Cache", "Reset Display"}
	if diff := cmp.Diff(wantAdvanced, advanced.Labels()); diff != "" {
		t.Errorf("advanced (-want +got):\n%s", diff)
	}
}

func TestDisplayItemsSurviveLanguageSwitch(t *testing.T) {
	toolkit := menutest.NewFakeToolkit()
	notifier := &menutest.RecordingNotifier{}
	tray, err := menu.New(menu.Options{
		Schema:    Schema(),
		Toolkit:   toolkit,
		Localizer: locale.Builtin(),
		Language:  locale.English,
		Notifier:  notifier,
	})
	if err != nil {
		t.Fatalf("menu.New: %v", err)
	}
	tray.Build()

	if err := UpdateDisplayState(tray, DisplayState{CanCreate: false, CanClose: true, Persistent: true, Active: true}); err != nil {
		t.Fatalf("UpdateDisplayState: %v", err)
	}

	entry, _ := tray.Registry().Lookup(LangJapanese)
	outcome := tray.HandleEvent(entry.Token)
	if outcome.Status != menu.Handled || !outcome.Rebuild {
		t.Fatalf("outcome = %+v", outcome)
	}
	tray.Rebuild()

	if tray.Language() != locale.Japanese {
		t.Errorf("Language = %q", tray.Language())
	}
	if label := toolkit.Root().Labels()[0]; label != "GUIを開く" {
		t.Errorf("first label = %q", label)
	}
	want := menu.Snapshot{
		VDDCreate:     {Checked: true, Enabled: false, Checkable: true},
		VDDClose:      {Checked: false, Enabled: true, Checkable: true},
		VDDPersistent: {Checked: true, Enabled: true, Checkable: true},
	}
	if diff := cmp.Diff(want, tray.Snapshot()); diff != "" {
		t.Errorf("display state after rebuild (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{LangJapanese}, notifier.IDs()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

type failingSetter struct{}

func (failingSetter) SetChecked(string, bool) error { return menu.ErrNotBuilt }
func (failingSetter) SetEnabled(string, bool) error { return menu.ErrNotBuilt }

func TestUpdateDisplayStateReportsFailures(t *testing.T) {
	err := UpdateDisplayState(failingSetter{}, DisplayState{})
	if !errors.Is(err, menu.ErrNotBuilt) {
		t.Errorf("err = %v, want ErrNotBuilt", err)
	}
}

func TestNotificationText(t *testing.T) {
	catalog := locale.Builtin()
	tests := []struct {
		notification Notification
		title        string
		message      string
		status       Status
	}{
		{Notification{Kind: StreamStarted, Subject: "Desktop"}, "Stream Started", "Streaming started for Desktop", StatusPlaying},
		{Notification{Kind: StreamPaused, Subject: "Desktop"}, "Stream Paused", "Streaming paused for Desktop", StatusPausing},
		{Notification{Kind: AppStopped, Subject: "Steam"}, "Application Stopped", "Application Steam successfully stopped", StatusIdle},
		{Notification{Kind: PairingRequest, Subject: "phone"}, "Incoming PIN Request From: phone", "Click here to enter PIN", StatusLocked},
	}
	for _, test := range tests {
		t.Run(string(test.notification.Kind), func(t *testing.T) {
			if err := test.notification.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			title, message := test.notification.Text(catalog, locale.English)
			if title != test.title || message != test.message {
				t.Errorf("Text = (%q, %q), want (%q, %q)", title, message, test.title, test.message)
			}
			if got := test.notification.Status(); got != test.status {
				t.Errorf("Status = %q, want %q", got, test.status)
			}
		})
	}
}

func TestNotificationKeysTranslated(t *testing.T) {
	catalog := locale.Builtin()
	for _, kind := range NotificationKinds() {
		titleKey, messageKey := Notification{Kind: kind}.Keys()
		for _, language := range locale.Supported() {
			for _, key := range []string{titleKey, messageKey} {
				if !catalog.Has(key, language) {
					t.Errorf("%s: key %q missing in %s", kind, key, language)
				}
			}
		}
	}
}

func TestNotificationValidateUnknown(t *testing.T) {
	if err := (Notification{Kind: "exploded"}).Validate(); err == nil {
		t.Error("expected error for unknown kind")
	}
}
