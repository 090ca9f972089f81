// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostlink

import (
	"time"

	"github.com/bureau-foundation/tray/lib/menu"
)

// Control socket actions.
const (
	ActionSetChecked   = "set-checked"
	ActionSetEnabled   = "set-enabled"
	ActionSetLanguage  = "set-language"
	ActionDisplayState = "display-state"
	ActionState        = "state"
	ActionResolve      = "resolve"
	ActionNotify       = "notify"
	ActionRebuild      = "rebuild"
)

// ActionMenuActivated is the single action on the host's notify socket.
const ActionMenuActivated = "menu-activated"

// ControlActions lists every control socket action in the order the
// CLI documents them.
func ControlActions() []string {
	return []string{
		ActionSetChecked,
		ActionSetEnabled,
		ActionSetLanguage,
		ActionDisplayState,
		ActionState,
		ActionResolve,
		ActionNotify,
		ActionRebuild,
	}
}

// Activation is the payload of a menu-activated notification.
type Activation struct {
	Item string `json:"item"`

	// Sequence numbers activations from 1 in the order the tray
	// produced them. A gap tells the host that activations were
	// dropped.
	Sequence uint64 `json:"sequence"`

	Time time.Time `json:"time"`
}

type setCheckedRequest struct {
	Item    string `cbor:"item"`
	Checked bool   `cbor:"checked"`
}

type setEnabledRequest struct {
	Item    string `cbor:"item"`
	Enabled bool   `cbor:"enabled"`
}

type setLanguageRequest struct {
	Language string `cbor:"language"`
}

// LanguageResult answers set-language with the normalized language.
type LanguageResult struct {
	Language string `json:"language"`
}

type resolveRequest struct {
	Token string `cbor:"token"`
}

// Resolution answers resolve.
type Resolution struct {
	Item string    `json:"item"`
	Kind menu.Kind `json:"kind"`

	// Generation is the registry generation the lookup ran against.
	Generation uint64 `json:"generation"`
}
