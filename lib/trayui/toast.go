// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tray/lib/trayitems"
	"github.com/bureau-foundation/tray/lib/tui"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 8 * time.Second

// toastMaxWidth bounds the toast box including its border.
const toastMaxWidth = 44

// toastFadeMsg hides the toast with the matching sequence.
type toastFadeMsg struct {
	Sequence int
}

// toast is a host notification shown in the top-right corner.
type toast struct {
	title        string
	message      string
	sequence     int
	notification trayitems.Notification
}

// showNotification displays a toast and moves the tray status.
func (model *Model) showNotification(notification trayitems.Notification) tea.Cmd {
	title, message := notification.Text(model.menu.Localizer(), model.menu.Language())
	model.toastSequence++
	model.toast = &toast{
		title:        title,
		message:      message,
		sequence:     model.toastSequence,
		notification: notification,
	}
	model.status = notification.Status()
	model.logger.Info("notification shown", "kind", string(notification.Kind), "subject", notification.Subject)

	sequence := model.toastSequence
	return model.after(toastDuration, toastFadeMsg{Sequence: sequence})
}

// openToast acts on the visible toast: the host hears
// NotificationClicked and the toast closes.
func (model *Model) openToast() {
	if model.toast == nil {
		return
	}
	kind := model.toast.notification.Kind
	model.toast = nil
	if model.notifier != nil {
		model.notifier.Notify(trayitems.NotificationClicked)
	}
	model.logger.Info("notification opened", "kind", string(kind))
}

// render returns the bordered toast lines for a screen of the given
// width.
func (current *toast) render(theme tui.Theme, screenWidth int) []string {
	width := min(toastMaxWidth, max(screenWidth-2, 12))
	inner := width - 4

	background := lipgloss.NewStyle().Background(theme.ModalBackground)
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.ModalBackground).
		Width(inner).
		Render(current.title)
	body := lipgloss.NewStyle().
		Foreground(theme.ModalForeground).
		Background(theme.ModalBackground).
		Width(inner).
		Render(current.message)

	content := tui.PadLine(title, inner, background) + "\n" + body
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.AccentForeground).
		BorderBackground(theme.ModalBackground).
		Background(theme.ModalBackground).
		Padding(0, 1).
		Render(content)
	return strings.Split(box, "\n")
}
