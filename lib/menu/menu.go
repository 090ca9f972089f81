// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"errors"
	"log/slog"
)

// LanguageStore persists the display language chosen through a
// SetLanguage effect or Menu.SetLanguage.
type LanguageStore interface {
	SaveLanguage(language string) error
}

// Options configures a Menu.
type Options struct {
	// Schema is the validated item table. Required.
	Schema *Schema

	// Toolkit creates the native widgets. Required.
	Toolkit Toolkit

	// Localizer resolves label keys. Nil uses the keys as labels.
	Localizer Localizer

	// Language is the initial display language.
	Language string

	// Notifier receives the logical id of every completed action or
	// check activation.
	Notifier Notifier

	// Opener handles OpenURL effects.
	Opener URLOpener

	// LanguageStore, when set, receives every language change.
	LanguageStore LanguageStore

	// Registry is the shared correlation table. Nil creates a new one.
	// Pass a registry here when other goroutines need to resolve
	// tokens before the Menu exists.
	Registry *Registry

	Logger *slog.Logger
}

// Menu owns everything needed to build, rebuild, and dispatch a
// localized menu: the schema, the current language, the live tree,
// the registry, and the dispatcher. A Menu is confined to the UI
// goroutine. Only its Registry may be shared.
type Menu struct {
	schema        *Schema
	toolkit       Toolkit
	localizer     Localizer
	language      string
	languageStore LanguageStore
	registry      *Registry
	dispatcher    *Dispatcher
	logger        *slog.Logger

	tree *Tree
}

// New returns an unbuilt Menu. Call Build before handling events.
func New(options Options) (*Menu, error) {
	if options.Schema == nil {
		return nil, errors.New("menu: Options.Schema is required")
	}
	if options.Toolkit == nil {
		return nil, errors.New("menu: Options.Toolkit is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := options.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	m := &Menu{
		schema:        options.Schema,
		toolkit:       options.Toolkit,
		localizer:     options.Localizer,
		language:      options.Language,
		languageStore: options.LanguageStore,
		registry:      registry,
		logger:        logger,
	}
	m.dispatcher = NewDispatcher(DispatcherConfig{
		Registry:    registry,
		Schema:      options.Schema,
		Notifier:    options.Notifier,
		Opener:      options.Opener,
		SetLanguage: m.applyLanguage,
		Logger:      logger,
	})
	return m, nil
}

// Build compiles the schema into a fresh tree with schema defaults,
// replacing any previous tree and its registry entries. The returned
// errors are the per-item build failures; the menu is usable unless
// the root itself failed, in which case Tree returns nil.
func (m *Menu) Build() []error {
	m.registry.Clear()
	tree, errs := Compile(m.schema, CompileOptions{
		Toolkit:   m.toolkit,
		Localizer: m.localizer,
		Language:  m.language,
		Registry:  m.registry,
		Logger:    m.logger,
	})
	m.tree = tree
	if tree != nil {
		m.logger.Debug("menu built",
			"language", m.language,
			"items", tree.Len(),
			"shape", tree.FingerprintString(),
			"failures", len(errs),
		)
	}
	return errs
}

// Rebuild discards the live tree and builds a new one in the current
// language, carrying over the checked and enabled state of every
// state-bearing item:
//
//  1. snapshot the state-bearing items of the old tree,
//  2. clear the registry,
//  3. compile (which re-registers every new token),
//  4. restore the snapshot onto the new widgets.
//
// Ids that no longer have a live widget are skipped during restore
// and logged.
func (m *Menu) Rebuild() []error {
	snapshot := m.Snapshot()
	errs := m.Build()
	if m.tree == nil {
		return errs
	}
	if skipped := m.tree.Restore(snapshot); len(skipped) > 0 {
		m.logger.Warn("menu state not restored for missing items", "items", skipped)
	}
	return errs
}

// SetLanguage switches the display language and rebuilds. Setting the
// current language is a no-op.
func (m *Menu) SetLanguage(language string) []error {
	if language == m.language && m.tree != nil {
		return nil
	}
	m.applyLanguage(language)
	return m.Rebuild()
}

// applyLanguage records a language change without rebuilding.
func (m *Menu) applyLanguage(language string) {
	if language == m.language {
		return
	}
	m.logger.Info("menu language changed", "from", m.language, "to", language)
	m.language = language
	if m.languageStore != nil {
		if err := m.languageStore.SaveLanguage(language); err != nil {
			m.logger.Warn("saving menu language failed", "language", language, "error", err)
		}
	}
}

// HandleEvent dispatches one activation. When the outcome requests a
// rebuild, HandleEvent does not perform it: the toolkit is still
// inside its event callback, so the caller runs Rebuild once the
// callback has returned.
func (m *Menu) HandleEvent(token Token) Outcome {
	return m.dispatcher.Dispatch(token)
}

// ConfirmActivation completes a pending confirmed activation.
func (m *Menu) ConfirmActivation(id string) Outcome {
	return m.dispatcher.Confirm(id)
}

// CancelActivation discards a pending confirmed activation.
func (m *Menu) CancelActivation(id string) bool {
	return m.dispatcher.Cancel(id)
}

// Checked returns the checkmark of a live check item. The second
// result is false when id has no live check widget.
func (m *Menu) Checked(id string) (bool, bool) {
	checked, err := m.tree.Checked(id)
	if err != nil {
		return false, false
	}
	return checked, true
}

// SetChecked sets the checkmark of a live check item.
func (m *Menu) SetChecked(id string, checked bool) error {
	return m.tree.SetChecked(id, checked)
}

// Enabled returns whether a live item is enabled. The second result is
// false when id has no live widget.
func (m *Menu) Enabled(id string) (bool, bool) {
	enabled, err := m.tree.Enabled(id)
	if err != nil {
		return false, false
	}
	return enabled, true
}

// SetEnabled enables or disables a live item.
func (m *Menu) SetEnabled(id string, enabled bool) error {
	return m.tree.SetEnabled(id, enabled)
}

// State returns the live state of every addressable item.
func (m *Menu) State() Snapshot {
	ids := make([]string, 0, m.schema.Len())
	for _, descriptor := range m.schema.Descriptors() {
		if descriptor.Kind != KindSeparator {
			ids = append(ids, descriptor.ID)
		}
	}
	return m.tree.Snapshot(ids)
}

// Registry returns the shared correlation registry.
func (m *Menu) Registry() *Registry { return m.registry }

// Tree returns the live tree, or nil before the first successful
// Build.
func (m *Menu) Tree() *Tree { return m.tree }

// Schema returns the item table.
func (m *Menu) Schema() *Schema { return m.schema }

// Language returns the current display language.
func (m *Menu) Language() string { return m.language }

// Localizer returns the configured localizer, which may be nil.
func (m *Menu) Localizer() Localizer { return m.localizer }

// Label resolves a label key in the current language.
func (m *Menu) Label(key string) string {
	if m.localizer == nil {
		return key
	}
	return m.localizer.Resolve(key, m.language)
}

// Snapshot captures the state of every state-bearing item: all check
// items plus items marked ExternalState.
func (m *Menu) Snapshot() Snapshot {
	return m.tree.Snapshot(m.schema.StateBearingIDs())
}

// Restore applies a snapshot to the live tree and returns the ids that
// no longer exist.
func (m *Menu) Restore(snapshot Snapshot) []string {
	if m.tree == nil {
		return snapshot.IDs()
	}
	return m.tree.Restore(snapshot)
}
