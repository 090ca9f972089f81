// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayitems

import (
	"fmt"

	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
)

// NotificationKind selects the wording of a host notification and the
// tray status it implies.
type NotificationKind string

const (
	StreamStarted  NotificationKind = "stream-started"
	StreamPaused   NotificationKind = "stream-paused"
	AppStopped     NotificationKind = "app-stopped"
	PairingRequest NotificationKind = "pairing-request"
)

// Status is the tray icon state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPausing Status = "pausing"
	StatusLocked  Status = "locked"
)

type notificationText struct {
	titleKey   string
	messageKey string
	status     Status
}

var notificationTexts = map[NotificationKind]notificationText{
	StreamStarted:  {"stream_started", "streaming_started_for", StatusPlaying},
	StreamPaused:   {"stream_paused", "streaming_paused_for", StatusPausing},
	AppStopped:     {"application_stopped", "application_stopped_message", StatusIdle},
	PairingRequest: {"incoming_pairing_request", "click_to_complete_pairing", StatusLocked},
}

// Notification is a toast the host asks the tray to show. Subject is
// the application or device name substituted into the text.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Subject string           `json:"subject,omitempty"`
}

// Validate rejects unknown kinds.
func (notification Notification) Validate() error {
	if _, ok := notificationTexts[notification.Kind]; !ok {
		return fmt.Errorf("unknown notification kind %q", notification.Kind)
	}
	return nil
}

// Status returns the tray status the notification moves to.
func (notification Notification) Status() Status {
	return notificationTexts[notification.Kind].status
}

// Keys returns the catalog keys for the title and body.
func (notification Notification) Keys() (titleKey, messageKey string) {
	text := notificationTexts[notification.Kind]
	return text.titleKey, text.messageKey
}

// Text resolves the title and body in language. The pairing request
// names the device in the title; every other kind names the
// application in the body.
func (notification Notification) Text(localizer menu.Localizer, language string) (title, message string) {
	titleKey, messageKey := notification.Keys()
	if localizer == nil {
		return titleKey, messageKey
	}
	title = localizer.Resolve(titleKey, language)
	message = localizer.Resolve(messageKey, language)
	if notification.Kind == PairingRequest {
		return locale.Format(title, notification.Subject), message
	}
	return title, locale.Format(message, notification.Subject)
}

// NotificationKinds returns every known kind.
func NotificationKinds() []NotificationKind {
	return []NotificationKind{StreamStarted, StreamPaused, AppStopped, PairingRequest}
}

// Report is the tray's answer to a host state query.
type Report struct {
	Language string        `json:"language"`
	Status   Status        `json:"status"`
	Items    menu.Snapshot `json:"items"`
}
