// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the menu view.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Activate clicks the selected row, or opens it when it is a
	// submenu.
	Activate key.Binding
	// Open enters a submenu without activating anything.
	Open key.Binding
	// Back leaves the current submenu.
	Back key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding

	// Notification acts on the visible notification toast.
	Notification key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: arrows and vim keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Open: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("h", "left", "backspace"),
		key.WithHelp("h/←", "back"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Notification: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "open notification"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "exit"),
	),
}

// ShortHelp returns the bindings shown in the help line.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Activate, keys.Back, keys.FilterActivate, keys.Quit}
}
