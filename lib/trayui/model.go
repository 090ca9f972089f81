// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trayui

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/tray/lib/clock"
	"github.com/bureau-foundation/tray/lib/menu"
	"github.com/bureau-foundation/tray/lib/trayitems"
	"github.com/bureau-foundation/tray/lib/tui"
)

// rebuildMsg runs the rebuild protocol. Activations that request a
// rebuild return a command producing it, so the rebuild happens after
// the activation message has been fully handled.
type rebuildMsg struct{}

// heatTickMsg drives the glow animation of recently changed rows.
type heatTickMsg struct{}

// Config configures a Model.
type Config struct {
	// Menu is the menu to display. It must use a *Toolkit. An unbuilt
	// menu is built by NewModel.
	Menu *menu.Menu

	// Notifier receives NotificationClicked when the user acts on a
	// notification toast. Usually the same notifier the menu uses.
	Notifier menu.Notifier

	// Title is shown at the left of the header.
	Title string

	Theme  tui.Theme
	Keys   KeyMap
	Logger *slog.Logger

	// Clock drives the fade and animation timers. Nil uses
	// clock.Real().
	Clock clock.Clock
}

// row is one visible line of the menu list.
type row struct {
	item *Item
	// id is the logical id resolved through the registry. Empty for
	// separators.
	id string
	// trail names the submenus above the item. Only filter results
	// carry one.
	trail     string
	positions []int
}

// filterState holds the fuzzy filter input.
type filterState struct {
	active bool
	input  []rune
}

// Model is the bubbletea model for the tray menu. It owns the
// menu.Menu: every widget access happens inside Update.
type Model struct {
	menu     *menu.Menu
	notifier menu.Notifier
	title    string
	theme    tui.Theme
	keys     KeyMap
	logger   *slog.Logger
	clock    clock.Clock

	// path holds the logical ids of the open submenus, outermost
	// first. Ids survive a rebuild; widgets do not.
	path         []string
	cursor       int
	scrollOffset int

	width  int
	height int
	ready  bool

	filter filterState
	slab   *util.Slab

	confirm *tui.ConfirmModal
	// confirmToggled records that the confirmed item is a check whose
	// mark was flipped before dispatch, so a declined confirmation
	// flips it back.
	confirmToggled bool

	toast         *toast
	toastSequence int
	status        trayitems.Status

	statusLine     string
	statusLevel    slog.Level
	statusSequence int

	heat        *tui.HeatTracker
	tickRunning bool
}

// NewModel returns a model for config.Menu, building the menu first if
// needed.
func NewModel(config Config) (Model, error) {
	if config.Menu == nil {
		return Model{}, errors.New("trayui: Config.Menu is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ticker := config.Clock
	if ticker == nil {
		ticker = clock.Real()
	}
	keys := config.Keys
	if len(keys.Activate.Keys()) == 0 {
		keys = DefaultKeyMap
	}
	theme := config.Theme
	if theme.NormalText == "" {
		theme = tui.DefaultTheme
	}

	if config.Menu.Tree() == nil {
		for _, err := range config.Menu.Build() {
			logger.Warn("menu item not built", "error", err)
		}
	}
	tree := config.Menu.Tree()
	if tree == nil {
		return Model{}, errors.New("trayui: menu root could not be built")
	}
	if _, ok := tree.Root().(*Item); !ok {
		return Model{}, errors.New("trayui: menu was not built with the trayui toolkit")
	}

	model := Model{
		menu:     config.Menu,
		notifier: config.Notifier,
		title:    config.Title,
		theme:    theme,
		keys:     keys,
		logger:   logger,
		clock:    ticker,
		slab:     tui.NewSlab(),
		status:   trayitems.StatusIdle,
		heat:     tui.NewHeatTracker(),
	}
	model.cursor = model.firstSelectable(model.rows())
	return model, nil
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	if model.title == "" {
		return nil
	}
	return tea.SetWindowTitle(model.title)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		cmd := model.handleKey(message)
		return model, cmd

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.clampCursor()

	case rebuildMsg:
		model.rebuild()

	case controlMsg:
		if !message.take() {
			return model, nil
		}
		value, cmd, err := message.apply(&model)
		message.reply <- controlReply{value: value, err: err}
		cmd = tea.Batch(cmd, model.ensureTick())
		return model, cmd

	case toastFadeMsg:
		if model.toast != nil && model.toast.sequence == message.Sequence {
			model.toast = nil
		}

	case logRecordMsg:
		cmd := model.showStatus(message.Level, message.Summary)
		return model, cmd

	case logRecordFadeMsg:
		if message.Sequence == model.statusSequence {
			model.statusLine = ""
		}

	case heatTickMsg:
		if model.heat.HasHot(model.clock.Now()) {
			return model, model.after(tui.HeatTickInterval, heatTickMsg{})
		}
		model.tickRunning = false
	}
	return model, nil
}

func (model *Model) handleKey(message tea.KeyMsg) tea.Cmd {
	if key.Matches(message, model.keys.Quit) {
		return tea.Quit
	}
	if model.confirm != nil {
		return model.handleConfirmKey(message)
	}
	if model.filter.active {
		return model.handleFilterKey(message)
	}

	rows := model.rows()
	switch {
	case key.Matches(message, model.keys.Up):
		model.moveCursor(rows, -1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(rows, 1)
	case key.Matches(message, model.keys.Home):
		model.cursor = model.firstSelectable(rows)
		model.scrollToCursor()
	case key.Matches(message, model.keys.End):
		model.cursor = model.lastSelectable(rows)
		model.scrollToCursor()
	case key.Matches(message, model.keys.Activate):
		return model.activateAt(rows)
	case key.Matches(message, model.keys.Open):
		if selected, ok := model.selected(rows); ok && selected.item.Kind() == menu.KindContainer {
			model.enter(selected)
		}
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.FilterClear):
		model.leave()
	case key.Matches(message, model.keys.FilterActivate):
		model.filter = filterState{active: true}
		model.cursor = 0
		model.scrollOffset = 0
	case key.Matches(message, model.keys.Notification):
		model.openToast()
	}
	return nil
}

func (model *Model) handleFilterKey(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyEsc:
		model.filter = filterState{}
		model.cursor = model.firstSelectable(model.rows())
		model.scrollOffset = 0
	case tea.KeyEnter:
		rows := model.rows()
		cmd := model.activateAt(rows)
		if model.confirm == nil {
			model.filter = filterState{}
			model.clampCursor()
		}
		return cmd
	case tea.KeyUp, tea.KeyCtrlP:
		model.moveCursor(model.rows(), -1)
	case tea.KeyDown, tea.KeyCtrlN:
		model.moveCursor(model.rows(), 1)
	case tea.KeyBackspace:
		if len(model.filter.input) > 0 {
			model.filter.input = model.filter.input[:len(model.filter.input)-1]
		}
		model.cursor = 0
		model.scrollOffset = 0
	case tea.KeyRunes, tea.KeySpace:
		model.filter.input = append(model.filter.input, message.Runes...)
		model.cursor = 0
		model.scrollOffset = 0
	}
	return nil
}

func (model *Model) handleConfirmKey(message tea.KeyMsg) tea.Cmd {
	subject := model.confirm.Subject
	switch model.confirm.Update(message) {
	case tui.ConfirmAccepted:
		model.confirm = nil
		model.logger.Debug("menu activation confirmed", "item", subject)
		return model.handleOutcome(model.menu.ConfirmActivation(subject), nil)
	case tui.ConfirmDeclined:
		model.confirm = nil
		model.menu.CancelActivation(subject)
		model.logger.Debug("menu activation cancelled", "item", subject)
		if model.confirmToggled {
			if checked, ok := model.menu.Checked(subject); ok {
				_ = model.menu.SetChecked(subject, !checked)
			}
		}
	}
	return nil
}

// activateAt clicks the row under the cursor. Check items flip their
// mark before the event is dispatched, as a native menu does.
func (model *Model) activateAt(rows []row) tea.Cmd {
	selected, ok := model.selected(rows)
	if !ok || !selected.item.Enabled() {
		return nil
	}
	switch selected.item.Kind() {
	case menu.KindContainer:
		model.enter(selected)
		return nil
	case menu.KindCheck:
		selected.item.SetChecked(!selected.item.Checked())
		return model.handleOutcome(model.menu.HandleEvent(selected.item.Token()), selected.item)
	case menu.KindAction:
		return model.handleOutcome(model.menu.HandleEvent(selected.item.Token()), nil)
	}
	return nil
}

// handleOutcome applies the result of a dispatch. toggled is the check
// item flipped before dispatch, if any.
func (model *Model) handleOutcome(outcome menu.Outcome, toggled *Item) tea.Cmd {
	switch outcome.Status {
	case menu.Unresolved:
		model.logger.Warn("menu event did not resolve to an item")
		return nil

	case menu.AwaitingConfirmation:
		prompt := outcome.Prompt
		modal := tui.NewConfirmModal(
			prompt.ItemID,
			model.menu.Label(prompt.TitleKey),
			model.menu.Label(prompt.MessageKey),
			model.menu.Label("confirm_yes"),
			model.menu.Label("confirm_no"),
			model.theme,
		)
		model.confirm = &modal
		model.confirmToggled = toggled != nil
		return nil
	}

	model.heat.Ignite(outcome.ItemID, tui.HeatActivated, model.clock.Now())
	commands := []tea.Cmd{model.ensureTick()}
	if outcome.Err != nil {
		model.logger.Warn("menu effect failed", "item", outcome.ItemID, "error", outcome.Err)
		commands = append(commands, model.showStatus(slog.LevelError, outcome.Err.Error()))
	}
	if outcome.Rebuild {
		commands = append(commands, func() tea.Msg { return rebuildMsg{} })
	}
	return tea.Batch(commands...)
}

// rebuild runs the menu's rebuild protocol and re-anchors the view on
// the new widgets.
func (model *Model) rebuild() {
	for _, err := range model.menu.Rebuild() {
		model.logger.Warn("menu item not rebuilt", "error", err)
	}
	model.afterRebuild()
}

// afterRebuild drops view state tied to the old widgets.
func (model *Model) afterRebuild() {
	model.heat.Forget()
	tree := model.menu.Tree()
	for index, id := range model.path {
		if tree == nil || !tree.Has(id) {
			model.path = model.path[:index]
			break
		}
	}
	model.clampCursor()
}

func (model *Model) enter(selected row) {
	if selected.id == "" {
		return
	}
	if model.filter.active {
		model.path = model.pathTo(selected.item)
		model.filter = filterState{}
	} else {
		model.path = append(model.path, selected.id)
	}
	model.cursor = model.firstSelectable(model.rows())
	model.scrollOffset = 0
}

// pathTo returns the submenu ids from the root down to item itself.
func (model *Model) pathTo(item *Item) []string {
	var path []string
	for current := item; current != nil && current.Parent() != nil; current = current.Parent() {
		id, ok := model.menu.Registry().Resolve(current.Token())
		if !ok {
			return nil
		}
		path = append([]string{id}, path...)
	}
	return path
}

func (model *Model) leave() {
	if len(model.path) == 0 {
		return
	}
	left := model.path[len(model.path)-1]
	model.path = model.path[:len(model.path)-1]
	rows := model.rows()
	model.cursor = model.firstSelectable(rows)
	for index, candidate := range rows {
		if candidate.id == left {
			model.cursor = index
		}
	}
	model.scrollToCursor()
}

// root returns the root item of the live tree.
func (model *Model) root() *Item {
	tree := model.menu.Tree()
	if tree == nil {
		return nil
	}
	root, _ := tree.Root().(*Item)
	return root
}

// container returns the submenu currently displayed.
func (model *Model) container() *Item {
	current := model.root()
	tree := model.menu.Tree()
	for _, id := range model.path {
		widget, ok := tree.Widget(id)
		if !ok {
			break
		}
		item, ok := widget.(*Item)
		if !ok {
			break
		}
		current = item
	}
	return current
}

// rows returns the visible rows: the current submenu, or every
// clickable item matching the filter ordered by score.
func (model *Model) rows() []row {
	if model.filter.active && len(model.filter.input) > 0 {
		return model.filterRows()
	}
	container := model.container()
	if container == nil {
		return nil
	}
	registry := model.menu.Registry()
	rows := make([]row, 0, len(container.Children()))
	for _, child := range container.Children() {
		id, _ := registry.Resolve(child.Token())
		rows = append(rows, row{item: child, id: id})
	}
	return rows
}

func (model *Model) filterRows() []row {
	type scored struct {
		row
		score int
	}
	var matches []scored
	registry := model.menu.Registry()
	var walk func(item *Item, trail []string)
	walk = func(item *Item, trail []string) {
		for _, child := range item.Children() {
			switch child.Kind() {
			case menu.KindSeparator:
				continue
			case menu.KindContainer:
				walk(child, append(trail, child.Label()))
			}
			result := tui.FuzzyMatch(child.Label(), model.filter.input, model.slab)
			if !result.Matched() {
				continue
			}
			id, _ := registry.Resolve(child.Token())
			matches = append(matches, scored{
				row:   row{item: child, id: id, trail: strings.Join(trail, " › "), positions: result.Positions},
				score: result.Score,
			})
		}
	}
	if root := model.root(); root != nil {
		walk(root, nil)
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].score > matches[b].score })
	rows := make([]row, len(matches))
	for index, match := range matches {
		rows[index] = match.row
	}
	return rows
}

func (model *Model) selected(rows []row) (row, bool) {
	if model.cursor < 0 || model.cursor >= len(rows) || !rows[model.cursor].item.Selectable() {
		return row{}, false
	}
	return rows[model.cursor], true
}

func (model *Model) moveCursor(rows []row, delta int) {
	for next := model.cursor + delta; next >= 0 && next < len(rows); next += delta {
		if rows[next].item.Selectable() {
			model.cursor = next
			break
		}
	}
	model.scrollToCursor()
}

func (model *Model) firstSelectable(rows []row) int {
	for index, candidate := range rows {
		if candidate.item.Selectable() {
			return index
		}
	}
	return 0
}

func (model *Model) lastSelectable(rows []row) int {
	for index := len(rows) - 1; index >= 0; index-- {
		if rows[index].item.Selectable() {
			return index
		}
	}
	return 0
}

// clampCursor keeps the cursor on a selectable row after the rows
// changed underneath it.
func (model *Model) clampCursor() {
	rows := model.rows()
	if model.cursor >= len(rows) {
		model.cursor = model.lastSelectable(rows)
	}
	if model.cursor < len(rows) && !rows[model.cursor].item.Selectable() {
		model.moveCursor(rows, 1)
		if !rows[model.cursor].item.Selectable() {
			model.moveCursor(rows, -1)
		}
	}
	model.scrollToCursor()
}

// visibleHeight is the number of list rows: the screen minus the
// header, footer rule, and help line.
func (model *Model) visibleHeight() int {
	return max(model.height-3, 1)
}

func (model *Model) scrollToCursor() {
	visible := model.visibleHeight()
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
	model.scrollOffset = max(model.scrollOffset, 0)
}

// showStatus puts text in the status line until the fade delay.
func (model *Model) showStatus(level slog.Level, text string) tea.Cmd {
	model.statusSequence++
	model.statusLine = text
	model.statusLevel = level
	sequence := model.statusSequence
	return model.after(logRecordFadeDelay, logRecordFadeMsg{Sequence: sequence})
}

// ensureTick starts the heat animation when something is hot and no
// tick is pending.
func (model *Model) ensureTick() tea.Cmd {
	if model.tickRunning || !model.heat.HasHot(model.clock.Now()) {
		return nil
	}
	model.tickRunning = true
	return model.after(tui.HeatTickInterval, heatTickMsg{})
}

// after returns a command that yields message once d has passed on the
// model's clock. The timer starts when after is called, not when the
// program runs the command.
func (model Model) after(d time.Duration, message tea.Msg) tea.Cmd {
	fire := model.clock.After(d)
	return func() tea.Msg {
		<-fire
		return message
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	if model.root() == nil {
		return "Menu unavailable."
	}

	sections := []string{
		model.renderHeader(),
		model.renderList(),
		lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width)),
		model.renderFooter(),
	}
	output := strings.Join(sections, "\n")

	if model.toast != nil {
		lines := model.toast.render(model.theme, model.width)
		output = tui.SpliceOverlay(output, lines, max(model.width-ansi.StringWidth(lines[0])-1, 0), 1)
	}
	if model.confirm != nil {
		lines, anchorX, anchorY := model.confirm.Render(model.width, model.height)
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	}
	return output
}

var statusGlyphs = map[trayitems.Status]string{
	trayitems.StatusIdle:    "○",
	trayitems.StatusPlaying: "▶",
	trayitems.StatusPausing: "‖",
	trayitems.StatusLocked:  "◆",
}

func (model Model) renderHeader() string {
	glyphStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	switch model.status {
	case trayitems.StatusPlaying:
		glyphStyle = glyphStyle.Foreground(model.theme.AccentForeground)
	case trayitems.StatusPausing, trayitems.StatusLocked:
		glyphStyle = glyphStyle.Foreground(model.theme.WarnForeground)
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	parts := []string{glyphStyle.Render(statusGlyphs[model.status])}
	if model.title != "" {
		parts = append(parts, titleStyle.Render(model.title))
	}
	if crumbs := model.breadcrumbs(); crumbs != "" {
		parts = append(parts, faint.Render(crumbs))
	}
	left := strings.Join(parts, " ")
	right := faint.Render("[" + model.menu.Language() + "]")

	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left, model.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (model Model) breadcrumbs() string {
	tree := model.menu.Tree()
	var labels []string
	for _, id := range model.path {
		widget, ok := tree.Widget(id)
		if !ok {
			break
		}
		if item, ok := widget.(*Item); ok {
			labels = append(labels, item.Label())
		}
	}
	return strings.Join(labels, " › ")
}

func (model Model) renderList() string {
	rows := model.rows()
	visible := model.visibleHeight()
	rowWidth := max(model.width-1, 1)
	now := model.clock.Now()

	lines := make([]string, 0, visible)
	for index := model.scrollOffset; index < len(rows) && len(lines) < visible; index++ {
		lines = append(lines, model.renderRow(rows[index], index == model.cursor, rowWidth, now))
	}
	if len(rows) == 0 && model.filter.active {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("  no matches"))
	}
	blank := lipgloss.NewStyle().Width(rowWidth).Render("")
	for len(lines) < visible {
		lines = append(lines, blank)
	}

	scrollbar := tui.RenderScrollbar(model.theme, visible, len(rows), visible, model.scrollOffset)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(lines, "\n"), scrollbar)
}

func (model Model) renderRow(current row, selected bool, width int, now time.Time) string {
	item := current.item
	if item.Kind() == menu.KindSeparator {
		return lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(" " + strings.Repeat("─", max(width-2, 0)) + " ")
	}

	textStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if !item.Enabled() {
		textStyle = textStyle.Foreground(model.theme.DisabledText)
	}
	accent := lipgloss.NewStyle().Foreground(model.theme.AccentForeground)
	highlight := textStyle.Background(model.theme.SearchHighlightBackground).Bold(true)

	marker := "    "
	if item.Kind() == menu.KindCheck && item.Checked() {
		marker = " " + accent.Render("✓") + "  "
	}
	label := tui.HighlightPositions(item.Label(), current.positions,
		func(segment string) string { return highlight.Render(segment) },
		func(segment string) string { return textStyle.Render(segment) },
	)

	line := marker + label
	if item.Kind() == menu.KindContainer {
		line += accent.Render(" ›")
	}
	if current.trail != "" {
		line += lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("  " + current.trail)
	}
	line = ansi.Truncate(line, width, "…")

	style := lipgloss.NewStyle().Width(width).MaxWidth(width)
	if selected {
		style = style.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground).Bold(true)
		return style.Render(ansi.Strip(line))
	}
	if heatStyle, hot := model.heat.HeatStyle(model.theme, current.id, now); hot && current.id != "" {
		return heatStyle.Width(width).MaxWidth(width).Render(ansi.Strip(line))
	}
	return style.Render(line)
}

func (model Model) renderFooter() string {
	if model.filter.active {
		prompt := lipgloss.NewStyle().Foreground(model.theme.AccentForeground).Render("/")
		return prompt + string(model.filter.input) + lipgloss.NewStyle().Reverse(true).Render(" ")
	}
	if model.statusLine != "" {
		style := lipgloss.NewStyle().Foreground(model.theme.WarnForeground)
		if model.statusLevel >= slog.LevelError {
			style = style.Foreground(model.theme.ErrorForeground)
		}
		return ansi.Truncate(style.Render(model.statusLine), model.width, "…")
	}

	var parts []string
	for _, binding := range model.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	if model.toast != nil {
		help := model.keys.Notification.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	text := strings.Join(parts, "  ")
	return ansi.Truncate(lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(text), model.width, "…")
}
