// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

// Token is the opaque identifier a toolkit assigns to a live widget.
// It is meaningful only within the tree instance that produced it: a
// rebuild produces new tokens for every item.
type Token string

// Widget is a toolkit-native menu object. Implementations are
// thread-confined: every method must be called on the goroutine that
// created the widget.
type Widget interface {
	// Token returns the widget's event token. Separators may return
	// the empty token; it is never registered.
	Token() Token
	SetEnabled(enabled bool)
	Enabled() bool
}

// CheckWidget is a widget with a checkmark.
type CheckWidget interface {
	Widget
	SetChecked(checked bool)
	Checked() bool
}

// ContainerWidget is a widget that holds children: a submenu, or the
// root menu itself.
type ContainerWidget interface {
	Widget
	Append(child Widget) error
}

// Toolkit creates native widgets. The compiler calls it only from the
// goroutine that owns the tree being built.
type Toolkit interface {
	NewRoot() (ContainerWidget, error)
	NewContainer(label string) (ContainerWidget, error)
	NewAction(label string) (Widget, error)
	NewCheck(label string, checked bool) (CheckWidget, error)
	NewSeparator() (Widget, error)
}

// Localizer resolves a label key for a language. Fallback to a default
// language is the localizer's responsibility.
type Localizer interface {
	Resolve(key, language string) string
}

// LocalizerFunc adapts a function to the Localizer interface.
type LocalizerFunc func(key, language string) string

// Resolve calls the function.
func (function LocalizerFunc) Resolve(key, language string) string {
	return function(key, language)
}

// Notifier receives the logical id of every completed activation of
// an action or check item. Notify must not block the caller for long:
// it is called on the UI goroutine.
type Notifier interface {
	Notify(itemID string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(itemID string)

// Notify calls the function.
func (function NotifierFunc) Notify(itemID string) {
	function(itemID)
}
