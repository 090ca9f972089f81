// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trayitems declares the tray menu shipped with the streaming
// host. The logical ids below are the contract the host addresses items
// by: never rename one once released.
package trayitems

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/tray/lib/locale"
	"github.com/bureau-foundation/tray/lib/menu"
)

// Logical item ids.
const (
	OpenSunshine = "open_sunshine"
	Sep1         = "sep_1"
	Sep2         = "sep_2"
	Sep3         = "sep_3"
	Sep4         = "sep_4"
	StarProject  = "star_project"
	Restart      = "restart"
	Quit         = "quit"

	VDDSubmenu    = "vdd_submenu"
	VDDCreate     = "vdd_create"
	VDDClose      = "vdd_close"
	VDDPersistent = "vdd_persistent"

	AdvancedSubmenu = "advanced_submenu"
	ImportConfig    = "import_config"
	ExportConfig    = "export_config"
	ResetConfig     = "reset_config"
	SepAdvanced     = "sep_adv"
	CloseApp        = "close_app"
	ResetDisplay    = "reset_display"

	LanguageSubmenu = "language_submenu"
	LangChinese     = "lang_chinese"
	LangEnglish     = "lang_english"
	LangJapanese    = "lang_japanese"

	VisitSubmenu   = "visit_submenu"
	VisitSunshine  = "visit_sunshine"
	VisitMoonlight = "visit_moonlight"

	// NotificationClicked is forwarded when the user acts on a
	// notification. It has no menu item.
	NotificationClicked = "notification_clicked"
)

// Project links.
const (
	WebsiteURL   = "https://sunshine-foundation.vercel.app/"
	SunshineURL  = "https://github.com/qiin2333/Sunshine-Foundation"
	MoonlightURL = "https://github.com/qiin2333/moonlight-vplus"
)

// Descriptors returns the default item table in declaration order.
// Orders are spaced by 100 at the top level and by 10 inside submenus
// so deployments can slot items in between.
func Descriptors() []menu.Descriptor {
	return []menu.Descriptor{
		menu.Action(OpenSunshine, "open_sunshine", "", 100),

		menu.Separator(Sep1, "", 200),

		menu.Container(VDDSubmenu, "vdd_base_display", "", 300),
		menu.Check(VDDCreate, "vdd_create", VDDSubmenu, false, 310).WithExternalState(),
		menu.Check(VDDClose, "vdd_close", VDDSubmenu, false, 320).WithExternalState(),
		menu.Check(VDDPersistent, "vdd_persistent", VDDSubmenu, false, 330).WithExternalState(),

		menu.Container(AdvancedSubmenu, "advanced_settings", "", 400),
		menu.Action(ImportConfig, "import_config", AdvancedSubmenu, 410),
		menu.Action(ExportConfig, "export_config", AdvancedSubmenu, 420),
		menu.Action(ResetConfig, "reset_config", AdvancedSubmenu, 430),
		menu.Separator(SepAdvanced, AdvancedSubmenu, 440),
		menu.Action(CloseApp, "close_app", AdvancedSubmenu, 450).
			WithEffect(menu.Confirm{TitleKey: "close_app_confirm_title", MessageKey: "close_app_confirm_message"}),
		menu.Action(ResetDisplay, "reset_display", AdvancedSubmenu, 460).
			WithEffect(menu.Confirm{TitleKey: "reset_display_confirm_title", MessageKey: "reset_display_confirm_message"}),

		menu.Separator(Sep2, "", 500),

		menu.Container(LanguageSubmenu, "language", "", 600),
		menu.Action(LangChinese, "chinese", LanguageSubmenu, 610).
			WithEffect(menu.SetLanguage{Language: locale.Chinese}).WithRebuild(),
		menu.Action(LangEnglish, "english", LanguageSubmenu, 620).
			WithEffect(menu.SetLanguage{Language: locale.English}).WithRebuild(),
		menu.Action(LangJapanese, "japanese", LanguageSubmenu, 630).
			WithEffect(menu.SetLanguage{Language: locale.Japanese}).WithRebuild(),

		menu.Separator(Sep3, "", 700),

		menu.Action(StarProject, "star_project", "", 800).
			WithEffect(menu.OpenURL{URL: WebsiteURL}),

		menu.Container(VisitSubmenu, "visit_project", "", 900),
		menu.Action(VisitSunshine, "visit_project_sunshine", VisitSubmenu, 910).
			WithEffect(menu.OpenURL{URL: SunshineURL}),
		menu.Action(VisitMoonlight, "visit_project_moonlight", VisitSubmenu, 920).
			WithEffect(menu.OpenURL{URL: MoonlightURL}),

		menu.Separator(Sep4, "", 1000),

		menu.Action(Restart, "restart", "", 1100),
		menu.Action(Quit, "quit", "", 1200).
			WithEffect(menu.Confirm{TitleKey: "quit_title", MessageKey: "quit_message"}),
	}
}

// Schema returns the validated default table.
func Schema() *menu.Schema {
	return menu.MustSchema(Descriptors()...)
}

// StateSetter is the part of *menu.Menu that UpdateDisplayState needs.
type StateSetter interface {
	SetChecked(id string, checked bool) error
	SetEnabled(id string, enabled bool) error
}

// DisplayState is the host's view of the virtual display.
type DisplayState struct {
	CanCreate  bool `json:"can_create"`
	CanClose   bool `json:"can_close"`
	Persistent bool `json:"persistent"`
	Active     bool `json:"active"`
}

// UpdateDisplayState applies the host's virtual display state to the
// display submenu: create is checked while the display is active,
// close while it is not, and keep-enabled mirrors the persistent flag.
// Every item is attempted; the returned error joins the failures.
func UpdateDisplayState(target StateSetter, state DisplayState) error {
	var failures []error
	record := func(err error) {
		if err != nil {
			failures = append(failures, err)
		}
	}
	record(target.SetEnabled(VDDCreate, state.CanCreate))
	record(target.SetChecked(VDDCreate, state.Active))
	record(target.SetEnabled(VDDClose, state.CanClose))
	record(target.SetChecked(VDDClose, !state.Active))
	record(target.SetChecked(VDDPersistent, state.Persistent))
	if len(failures) > 0 {
		return fmt.Errorf("updating display state: %w", errors.Join(failures...))
	}
	return nil
}
