// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/menu/menutest"
)

type menuFixture struct {
	menu     *menu.Menu
	toolkit  *menutest.FakeToolkit
	notifier *menutest.RecordingNotifier
	opener   *menutest.RecordingOpener
	store    *menutest.LanguageRecorder
}

func newMenuFixture(t *testing.T, schema *menu.Schema) *menuFixture {
	t.Helper()
	fixture := &menuFixture{
		toolkit:  menutest.NewFakeToolkit(),
		notifier: &menutest.RecordingNotifier{},
		opener:   &menutest.RecordingOpener{},
		store:    &menutest.LanguageRecorder{},
	}
	built, err := menu.New(menu.Options{
		Schema:        schema,
		Toolkit:       fixture.toolkit,
		Localizer:     testCatalog,
		Language:      "en",
		Notifier:      fixture.notifier,
		Opener:        fixture.opener,
		LanguageStore: fixture.store,
	})
	if err != nil {
		t.Fatalf("menu.New: %v", err)
	}
	if errs := built.Build(); len(errs) != 0 {
		t.Fatalf("Build: %v", errs)
	}
	fixture.menu = built
	return fixture
}

func (fixture *menuFixture) token(t *testing.T, id string) menu.Token {
	t.Helper()
	entry, ok := fixture.menu.Registry().Lookup(id)
	if !ok {
		t.Fatalf("%q is not registered", id)
	}
	return entry.Token
}

func TestNewRequiresSchemaAndToolkit(t *testing.T) {
	if _, err := menu.New(menu.Options{Toolkit: menutest.NewFakeToolkit()}); err == nil {
		t.Error("New without schema succeeded")
	}
	if _, err := menu.New(menu.Options{Schema: languageSchema()}); err == nil {
		t.Error("New without toolkit succeeded")
	}
}

func TestLanguageSwitchScenario(t *testing.T) {
	schema := menu.MustSchema(
		menu.Container("lang", "language", "", 10),
		menu.Action("lang.en", "english", "lang", 1),
		menu.Action("lang.zh", "chinese", "lang", 2).WithRebuild(),
	)
	fixture := newMenuFixture(t, schema)
	firstShape := fixture.menu.Tree().Shape()
	oldToken := fixture.token(t, "lang.zh")

	outcome := fixture.menu.HandleEvent(oldToken)
	if outcome.Status != menu.Handled || !outcome.Rebuild {
		t.Fatalf("outcome = %+v, want Handled with rebuild", outcome)
	}
	if diff := cmp.Diff([]string{"lang.zh"}, fixture.notifier.IDs()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}

	if errs := fixture.menu.Rebuild(); len(errs) != 0 {
		t.Fatalf("Rebuild: %v", errs)
	}
	if diff := cmp.Diff(firstShape, fixture.menu.Tree().Shape()); diff != "" {
		t.Errorf("shape changed across rebuild (-before +after):\n%s", diff)
	}
	newToken := fixture.token(t, "lang.zh")
	if newToken == oldToken {
		t.Error("rebuild reused the old token")
	}
	if fixture.menu.HandleEvent(oldToken).Status != menu.Unresolved {
		t.Error("stale token still resolves after rebuild")
	}
	if len(fixture.notifier.IDs()) != 1 {
		t.Errorf("stale event was forwarded: %v", fixture.notifier.IDs())
	}
}

func TestSetLanguageEffectRelabelsAfterRebuild(t *testing.T) {
	fixture := newMenuFixture(t, languageSchema())

	outcome := fixture.menu.HandleEvent(fixture.token(t, "lang.zh"))
	if outcome.Status != menu.Handled || !outcome.Rebuild {
		t.Fatalf("outcome = %+v", outcome)
	}
	if fixture.menu.Language() != "zh" {
		t.Errorf("Language = %q, want zh", fixture.menu.Language())
	}
	// The dispatcher never rebuilds on its own.
	if fixture.toolkit.Builds() != 1 {
		t.Errorf("Builds = %d before caller rebuild, want 1", fixture.toolkit.Builds())
	}

	fixture.menu.Rebuild()
	if label := fixture.toolkit.Root().Labels()[0]; label != "打开" {
		t.Errorf("first label = %q, want 打开", label)
	}
	if diff := cmp.Diff([]string{"zh"}, fixture.store.Saved); diff != "" {
		t.Errorf("saved languages (-want +got):\n%s", diff)
	}
}

func TestSetLanguageRebuildsOnce(t *testing.T) {
	fixture := newMenuFixture(t, languageSchema())

	fixture.menu.SetLanguage("zh")
	if fixture.toolkit.Builds() != 2 {
		t.Errorf("Builds = %d, want 2", fixture.toolkit.Builds())
	}
	fixture.menu.SetLanguage("zh")
	if fixture.toolkit.Builds() != 2 {
		t.Errorf("setting the same language rebuilt: Builds = %d", fixture.toolkit.Builds())
	}
	if fixture.menu.Tree().Language() != "zh" {
		t.Errorf("tree language = %q", fixture.menu.Tree().Language())
	}
}

func TestRebuildPreservesState(t *testing.T) {
	schema := menu.MustSchema(
		menu.Check("persist", "persist", "", false, 1),
		menu.Action("create", "create", "", 2).WithExternalState(),
		menu.Action("plain", "plain", "", 3),
	)
	fixture := newMenuFixture(t, schema)

	if err := fixture.menu.SetChecked("persist", true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if err := fixture.menu.SetEnabled("create", false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	fixture.menu.SetEnabled("plain", false)

	fixture.menu.Rebuild()

	if checked, ok := fixture.menu.Checked("persist"); !ok || !checked {
		t.Errorf("Checked(persist) = %v, %v; want true, true", checked, ok)
	}
	if enabled, ok := fixture.menu.Enabled("create"); !ok || enabled {
		t.Errorf("Enabled(create) = %v, %v; want false, true", enabled, ok)
	}
	// Not state-bearing: back to the schema default.
	if enabled, _ := fixture.menu.Enabled("plain"); !enabled {
		t.Error("plain kept its disabled state across rebuild")
	}
}

func TestMenuStateAccessorsOnMissingItems(t *testing.T) {
	fixture := newMenuFixture(t, languageSchema())
	if _, ok := fixture.menu.Checked("open"); ok {
		t.Error("Checked on an action reported ok")
	}
	if _, ok := fixture.menu.Enabled("nope"); ok {
		t.Error("Enabled on a missing id reported ok")
	}
	if err := fixture.menu.SetChecked("nope", true); !errors.Is(err, menu.ErrUnknownItem) {
		t.Errorf("SetChecked(nope) = %v, want ErrUnknownItem", err)
	}

	state := fixture.menu.State()
	if _, ok := state["sep"]; ok {
		t.Error("separator appears in State")
	}
	if !state["vdd.persist"].Checkable {
		t.Error("vdd.persist not reported checkable")
	}
	if len(state) != 7 {
		t.Errorf("State has %d items, want 7", len(state))
	}
}

func TestMenuBeforeBuild(t *testing.T) {
	unbuilt, err := menu.New(menu.Options{Schema: languageSchema(), Toolkit: menutest.NewFakeToolkit()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := unbuilt.SetChecked("vdd.persist", true); !errors.Is(err, menu.ErrNotBuilt) {
		t.Errorf("SetChecked before Build = %v, want ErrNotBuilt", err)
	}
	if unbuilt.HandleEvent("w1").Status != menu.Unresolved {
		t.Error("event before Build resolved")
	}
	// Rebuild without a prior build is a plain build.
	if errs := unbuilt.Rebuild(); len(errs) != 0 {
		t.Fatalf("Rebuild: %v", errs)
	}
	if unbuilt.Tree() == nil {
		t.Error("Tree is nil after Rebuild")
	}
}
