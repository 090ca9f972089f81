// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestConfirmModalDefaults(t *testing.T) {
	modal := NewConfirmModal("quit", "Quit", "Really quit?", "", "", DefaultTheme)
	if modal.YesLabel != "Yes" || modal.NoLabel != "No" {
		t.Errorf("labels = %q/%q, want Yes/No", modal.YesLabel, modal.NoLabel)
	}
	if !modal.YesFocused() {
		t.Error("yes should start focused")
	}
}

func TestConfirmModalKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want ConfirmChoice
	}{
		{"enter accepts", []tea.KeyMsg{{Type: tea.KeyEnter}}, ConfirmAccepted},
		{"toggle then enter declines", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, ConfirmDeclined},
		{"double toggle accepts", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyEnter}}, ConfirmAccepted},
		{"escape declines", []tea.KeyMsg{{Type: tea.KeyEsc}}, ConfirmDeclined},
		{"y accepts", []tea.KeyMsg{runes("y")}, ConfirmAccepted},
		{"N declines", []tea.KeyMsg{runes("N")}, ConfirmDeclined},
		{"other keys wait", []tea.KeyMsg{runes("x")}, ConfirmOpen},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			modal := NewConfirmModal("quit", "Quit", "", "", "", DefaultTheme)
			choice := ConfirmOpen
			for _, key := range test.keys {
				choice = modal.Update(key)
			}
			if choice != test.want {
				t.Errorf("choice = %v, want %v", choice, test.want)
			}
		})
	}
}

func TestConfirmModalRender(t *testing.T) {
	modal := NewConfirmModal("close_app", "Close Sunshine", "Streaming will stop.\nContinue?", "OK", "Cancel", DefaultTheme)
	lines, x, y := modal.Render(80, 24)
	if len(lines) == 0 {
		t.Fatal("expected rendered lines")
	}

	width := ansi.StringWidth(lines[0])
	for index, line := range lines {
		if got := ansi.StringWidth(line); got != width {
			t.Errorf("line %d width = %d, want %d", index, got, width)
		}
	}
	if x != (80-width)/2 || y != (24-len(lines))/2 {
		t.Errorf("anchor = (%d, %d), not centered for %dx%d block", x, y, width, len(lines))
	}

	text := ansi.Strip(strings.Join(lines, "\n"))
	for _, want := range []string{"Close Sunshine", "Streaming will stop.", "Continue?", "OK", "Cancel"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered modal missing %q:\n%s", want, text)
		}
	}
}

func TestConfirmModalRenderNarrowScreen(t *testing.T) {
	modal := NewConfirmModal("quit", "Quit", "Really quit?", "", "", DefaultTheme)
	lines, x, _ := modal.Render(20, 10)
	if x != 0 {
		t.Errorf("anchor x = %d, want 0 on a narrow screen", x)
	}
	for _, line := range lines {
		if ansi.StringWidth(line) > 20 {
			t.Errorf("line wider than screen: %q", ansi.Strip(line))
		}
	}
}
