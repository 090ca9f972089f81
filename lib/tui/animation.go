// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeatDecayDuration is how long a menu row glows after it changed.
// Heat starts at 1.0 and decays linearly to 0.0.
const HeatDecayDuration = 3 * time.Second

// HeatTickInterval is the re-render interval while any row is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind says who changed a row.
type HeatKind int

const (
	// HeatHost marks a change pushed by the host process (a checkmark
	// or enabled flag set over the control socket).
	HeatHost HeatKind = iota
	// HeatActivated marks a row the user just activated.
	HeatActivated
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps item ids to the time they last changed so the view
// can tint recently changed rows. Not safe for concurrent use; the
// bubbletea model owns it.
type HeatTracker struct {
	entries map[string]heatEntry
	decay   time.Duration
}

// NewHeatTracker returns an empty tracker using [HeatDecayDuration].
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[string]heatEntry), decay: HeatDecayDuration}
}

// Ignite records a change. Re-igniting a hot item restarts its decay.
func (tracker *HeatTracker) Ignite(itemID string, kind HeatKind, now time.Time) {
	tracker.entries[itemID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns 1.0 at ignition falling to 0.0 after the decay period.
func (tracker *HeatTracker) Heat(itemID string, now time.Time) float64 {
	entry, exists := tracker.entries[itemID]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed < 0 {
		return 1
	}
	if elapsed >= tracker.decay {
		return 0
	}
	return 1 - float64(elapsed)/float64(tracker.decay)
}

// Kind returns how the item was last changed. HeatHost for items that
// were never ignited.
func (tracker *HeatTracker) Kind(itemID string) HeatKind {
	return tracker.entries[itemID].kind
}

// HasHot reports whether any item still glows and drops the entries
// that have fully decayed. The model keeps its tick running while this
// returns true.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for itemID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < tracker.decay {
			hot = true
			continue
		}
		delete(tracker.entries, itemID)
	}
	return hot
}

// Forget drops every entry. A rebuild calls it since the rows it
// tinted are gone.
func (tracker *HeatTracker) Forget() {
	clear(tracker.entries)
}

// HeatStyle returns the row style for an item, or ok=false when the
// item is not hot. Rows above half heat get the full accent; cooler
// rows only keep the accent foreground.
func (tracker *HeatTracker) HeatStyle(theme Theme, itemID string, now time.Time) (lipgloss.Style, bool) {
	heat := tracker.Heat(itemID, now)
	if heat <= 0 {
		return lipgloss.Style{}, false
	}
	accent := theme.HotAccent
	if tracker.Kind(itemID) == HeatActivated {
		accent = theme.AccentForeground
	}
	if heat > 0.5 {
		return lipgloss.NewStyle().Background(accent).Foreground(theme.SelectedForeground), true
	}
	return lipgloss.NewStyle().Foreground(accent), true
}
