// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"fmt"
	"log/slog"
	"sort"
)

// Status classifies the result of handling one activation event.
type Status int

const (
	// Unresolved means the token matched no live item. The event was
	// dropped and nothing was forwarded.
	Unresolved Status = iota

	// Handled means the activation completed: the item's effect ran
	// and its id was forwarded (for action and check items).
	Handled

	// AwaitingConfirmation means the item carries a Confirm effect.
	// Nothing was forwarded yet; the caller shows Prompt and reports
	// the answer through Dispatcher.Confirm or Dispatcher.Cancel.
	AwaitingConfirmation
)

func (status Status) String() string {
	switch status {
	case Unresolved:
		return "unresolved"
	case Handled:
		return "handled"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	default:
		return fmt.Sprintf("Status(%d)", int(status))
	}
}

// Prompt is the confirmation question for a pending activation. The
// keys are label keys; the caller resolves them in the current
// language.
type Prompt struct {
	ItemID     string
	TitleKey   string
	MessageKey string
}

// Outcome is what the dispatcher reports back for one event.
type Outcome struct {
	Status Status

	// ItemID is the resolved logical id. Empty when Unresolved.
	ItemID string

	// Forwarded reports whether ItemID was passed to the Notifier.
	Forwarded bool

	// Rebuild asks the caller to run the rebuild protocol after the
	// dispatch call has returned. Never set together with
	// AwaitingConfirmation.
	Rebuild bool

	// Prompt is set when Status is AwaitingConfirmation.
	Prompt *Prompt

	// Err reports a failed local effect (for example an URL opener
	// error). The id is still forwarded.
	Err error
}

// URLOpener opens links for OpenURL effects.
type URLOpener interface {
	OpenURL(url string) error
}

// URLOpenerFunc adapts a function to URLOpener.
type URLOpenerFunc func(url string) error

// OpenURL calls function(url).
func (function URLOpenerFunc) OpenURL(url string) error {
	return function(url)
}

// DispatcherConfig holds the collaborators of a Dispatcher. Registry
// and Schema are required; the rest may be nil.
type DispatcherConfig struct {
	Registry *Registry
	Schema   *Schema
	Notifier Notifier
	Opener   URLOpener

	// SetLanguage applies a SetLanguage effect. It must only record the
	// new language: the rebuild it implies is requested through
	// Outcome.Rebuild and runs after dispatch returns.
	SetLanguage func(language string)

	Logger *slog.Logger
}

// Dispatcher turns activation tokens into effects and host
// notifications. It is confined to the UI goroutine, like the tree.
type Dispatcher struct {
	registry    *Registry
	schema      *Schema
	notifier    Notifier
	opener      URLOpener
	setLanguage func(string)
	logger      *slog.Logger

	// pending holds activations waiting for a confirmation answer,
	// keyed by logical id. Keying by id rather than token lets a
	// pending confirmation survive a rebuild.
	pending map[string]Descriptor
}

// NewDispatcher returns a dispatcher for the given collaborators.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		registry:    config.Registry,
		schema:      config.Schema,
		notifier:    config.Notifier,
		opener:      config.Opener,
		setLanguage: config.SetLanguage,
		logger:      logger,
		pending:     make(map[string]Descriptor),
	}
}

// Dispatch handles one activation event from the toolkit. A token that
// resolves to no live item yields Unresolved and has no side effects.
func (dispatcher *Dispatcher) Dispatch(token Token) Outcome {
	id, ok := dispatcher.registry.Resolve(token)
	if !ok {
		dispatcher.logger.Debug("menu event for unknown token dropped", "token", string(token))
		return Outcome{Status: Unresolved}
	}
	descriptor, ok := dispatcher.schema.Lookup(id)
	if !ok {
		// The registry and schema disagree, which only happens if a
		// caller registered ids by hand.
		dispatcher.logger.Warn("menu event for id missing from schema", "item", id)
		return Outcome{Status: Unresolved}
	}

	switch effect := descriptor.Effect.(type) {
	case Confirm:
		dispatcher.pending[id] = descriptor
		dispatcher.logger.Debug("menu activation awaiting confirmation", "item", id)
		return Outcome{
			Status: AwaitingConfirmation,
			ItemID: id,
			Prompt: &Prompt{ItemID: id, TitleKey: effect.TitleKey, MessageKey: effect.MessageKey},
		}
	default:
		return dispatcher.complete(descriptor)
	}
}

// Confirm completes a pending activation after the user accepted the
// prompt. Without a pending activation for id it returns Unresolved.
func (dispatcher *Dispatcher) Confirm(id string) Outcome {
	descriptor, ok := dispatcher.pending[id]
	if !ok {
		return Outcome{Status: Unresolved}
	}
	delete(dispatcher.pending, id)
	return dispatcher.complete(descriptor)
}

// Cancel discards a pending activation. Nothing is forwarded. It
// reports whether a pending activation existed.
func (dispatcher *Dispatcher) Cancel(id string) bool {
	if _, ok := dispatcher.pending[id]; !ok {
		return false
	}
	delete(dispatcher.pending, id)
	dispatcher.logger.Debug("menu activation cancelled", "item", id)
	return true
}

// Pending returns the ids awaiting confirmation, sorted.
func (dispatcher *Dispatcher) Pending() []string {
	ids := make([]string, 0, len(dispatcher.pending))
	for id := range dispatcher.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// complete runs the item's effect, forwards its id, and reports
// whether a rebuild was requested.
func (dispatcher *Dispatcher) complete(descriptor Descriptor) Outcome {
	outcome := Outcome{Status: Handled, ItemID: descriptor.ID, Rebuild: descriptor.Rebuild}

	switch effect := descriptor.Effect.(type) {
	case nil, NoEffect:
	case SetLanguage:
		if dispatcher.setLanguage != nil {
			dispatcher.setLanguage(effect.Language)
		}
	case OpenURL:
		if dispatcher.opener != nil {
			if err := dispatcher.opener.OpenURL(effect.URL); err != nil {
				outcome.Err = fmt.Errorf("opening %s for %q: %w", effect.URL, descriptor.ID, err)
				dispatcher.logger.Warn("menu url open failed", "item", descriptor.ID, "url", effect.URL, "error", err)
			}
		}
	case Confirm:
		// Confirmation already happened; the activation proceeds.
	}

	if descriptor.Kind.Forwards() {
		if dispatcher.notifier != nil {
			dispatcher.notifier.Notify(descriptor.ID)
			outcome.Forwarded = true
		}
	}

	dispatcher.logger.Debug("menu item activated",
		"item", descriptor.ID,
		"effect", EffectName(descriptor.Effect),
		"rebuild", outcome.Rebuild,
	)
	return outcome
}
