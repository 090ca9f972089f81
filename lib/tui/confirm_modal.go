// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ConfirmChoice is the state of a ConfirmModal after a key press.
type ConfirmChoice int

const (
	// ConfirmOpen means the modal is still waiting for an answer.
	ConfirmOpen ConfirmChoice = iota
	// ConfirmAccepted means the user picked the yes button.
	ConfirmAccepted
	// ConfirmDeclined means the user picked no or dismissed the modal.
	ConfirmDeclined
)

// ConfirmModal is a yes/no dialog rendered as a centered overlay. The
// message is markdown with hard line breaks.
type ConfirmModal struct {
	// Subject identifies what is being confirmed. The caller uses it
	// to route the answer; the modal never displays it.
	Subject string

	Title    string
	Message  string
	YesLabel string
	NoLabel  string

	// yes is true while the yes button is focused. Yes starts focused,
	// matching a native yes/no message box.
	yes   bool
	theme Theme
}

// NewConfirmModal returns a modal with the yes button focused. Empty
// button labels default to "Yes" and "No".
func NewConfirmModal(subject, title, message, yesLabel, noLabel string, theme Theme) ConfirmModal {
	if yesLabel == "" {
		yesLabel = "Yes"
	}
	if noLabel == "" {
		noLabel = "No"
	}
	return ConfirmModal{
		Subject:  subject,
		Title:    title,
		Message:  message,
		YesLabel: yesLabel,
		NoLabel:  noLabel,
		yes:      true,
		theme:    theme,
	}
}

// YesFocused reports whether enter would accept.
func (modal ConfirmModal) YesFocused() bool {
	return modal.yes
}

// Update handles one key press and returns the resulting choice.
func (modal *ConfirmModal) Update(message tea.KeyMsg) ConfirmChoice {
	switch message.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab, tea.KeyShiftTab:
		modal.yes = !modal.yes
	case tea.KeyEnter:
		if modal.yes {
			return ConfirmAccepted
		}
		return ConfirmDeclined
	case tea.KeyEsc, tea.KeyCtrlC:
		return ConfirmDeclined
	case tea.KeyRunes:
		switch strings.ToLower(string(message.Runes)) {
		case "y":
			return ConfirmAccepted
		case "n", "q":
			return ConfirmDeclined
		case "h", "l":
			modal.yes = !modal.yes
		}
	}
	return ConfirmOpen
}

// Border and padding: 2 columns of border plus 2 of padding, and 2
// lines of border.
const (
	confirmChromeWidth  = 4
	confirmMinInner     = 24
	confirmMaxInner     = 56
	confirmButtonMargin = 2
)

// Render produces the overlay lines and the top-left anchor that
// centers them on a screen of the given size.
func (modal ConfirmModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := min(max(screenWidth-confirmChromeWidth-4, confirmMinInner), confirmMaxInner)
	if innerWidth+confirmChromeWidth > screenWidth {
		innerWidth = max(screenWidth-confirmChromeWidth, 1)
	}

	background := lipgloss.NewStyle().Background(modal.theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.theme.HeaderForeground).
		Background(modal.theme.ModalBackground)

	var lines []string
	lines = append(lines, PadLine(titleStyle.Render(modal.Title), innerWidth, background))
	lines = append(lines, PadLine("", innerWidth, background))

	body := RenderMarkdown(modal.Message, modal.theme, MarkdownOptions{
		Width:      innerWidth,
		HardWraps:  true,
		Foreground: modal.theme.ModalForeground,
		Background: modal.theme.ModalBackground,
	})
	if body != "" {
		for _, line := range strings.Split(body, "\n") {
			lines = append(lines, PadLine(line, innerWidth, background))
		}
		lines = append(lines, PadLine("", innerWidth, background))
	}
	lines = append(lines, modal.renderButtons(innerWidth, background))

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		BorderBackground(modal.theme.ModalBackground).
		Background(modal.theme.ModalBackground).
		Padding(0, 1)
	rendered := strings.Split(border.Render(strings.Join(lines, "\n")), "\n")

	width := 0
	if len(rendered) > 0 {
		width = ansi.StringWidth(rendered[0])
	}
	anchorX, anchorY := CenterAnchor(screenWidth, screenHeight, width, len(rendered))
	return rendered, anchorX, anchorY
}

// renderButtons right-aligns the two buttons on one line.
func (modal ConfirmModal) renderButtons(width int, background lipgloss.Style) string {
	button := func(label string, focused bool) string {
		style := lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(modal.theme.ModalForeground).
			Background(modal.theme.ModalBackground)
		if focused {
			style = style.
				Bold(true).
				Foreground(modal.theme.SelectedForeground).
				Background(modal.theme.SelectedBackground)
		}
		return style.Render(label)
	}
	buttons := button(modal.YesLabel, modal.yes) +
		background.Render(strings.Repeat(" ", confirmButtonMargin)) +
		button(modal.NoLabel, !modal.yes)

	gap := width - ansi.StringWidth(buttons)
	if gap <= 0 {
		return PadLine(buttons, width, background)
	}
	return background.Render(strings.Repeat(" ", gap)) + buttons
}
