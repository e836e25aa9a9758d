package tui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/export"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/tracker"
)

const tickInterval = 250 * time.Millisecond

// App is the root Bubble Tea model. Every Update ends by feeding the live
// week to the undo journal, so one message is one "frame".
type App struct {
	store  *store.Store
	state  *tracker.State
	prefs  tracker.Prefs
	logger *slog.Logger
	width  int
	height int

	now     func() time.Time
	started time.Time

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	resetPending  bool
	exportDir     string

	week     weekModel
	reports  reportsModel
	settings settingsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(s *store.Store, st *tracker.State, logger *slog.Logger) App {
	h := help.New()
	h.ShowAll = false

	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}

	a := App{
		store:      s,
		state:      st,
		prefs:      tracker.LoadPrefs(s),
		logger:     logger,
		activeView: viewWeek,
		exportDir:  dir,
		week:       newWeekModel(st, time.Now),
		reports:    newReportsModel(st),
		settings:   newSettingsModel(s, st),
		help:       h,
	}
	a.setClock(time.Now)
	return a
}

// setClock swaps the time source for the journal feed and new intervals.
func (a *App) setClock(now func() time.Time) {
	a.now = now
	a.started = now()
	a.week.now = now
}

// since is the journal timestamp: time elapsed since the app started.
func (a App) since() time.Duration {
	return a.now().Sub(a.started)
}

func (a App) Init() tea.Cmd {
	a.state.Feed(a.since())
	return tea.Batch(
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	next.state.Feed(next.since())
	return next, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.week.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.reports.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if !key.Matches(msg, keys.Reset) {
			a.resetPending = false
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Undo):
			return a.undo()
		case key.Matches(msg, keys.Redo):
			return a.redo()
		case key.Matches(msg, keys.Reset):
			return a.reset()
		case key.Matches(msg, keys.Save):
			return a, a.save()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewWeek
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			a.reports.buildChart()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			cmd := a.refreshCurrentView()
			return a, cmd
		}

	case tickMsg:
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		if msg.isError {
			a.logger.Debug("status", slog.String("error", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil

	case prefsChangedMsg:
		a.prefs = tracker.LoadPrefs(a.store)
		a.state.History.SetSettings(a.prefs.History)
		a.status = "Settings saved"
		a.isErr = false
		a.logger.Debug("preferences reloaded",
			slog.Duration("default_target", a.prefs.DefaultTarget),
			slog.Duration("undo_debounce", a.prefs.History.Debounce),
			slog.Int("undo_max_entries", a.prefs.History.MaxEntries),
		)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) undo() (App, tea.Cmd) {
	if !a.state.Undo(a.since()) {
		return a, statusCmd("Nothing to undo", false)
	}
	a.week.clamp()
	a.reports.buildChart()
	a.logger.Debug("undo", slog.Int("cursor", a.state.History.Cursor()), slog.Int("entries", a.state.History.Len()))
	return a, statusCmd("Undone", false)
}

func (a App) redo() (App, tea.Cmd) {
	if !a.state.CanRedo() {
		return a, statusCmd("Nothing to redo", false)
	}
	if !a.state.Redo() {
		return a, statusCmd("Nothing to redo", false)
	}
	a.week.clamp()
	a.reports.buildChart()
	a.logger.Debug("redo", slog.Int("cursor", a.state.History.Cursor()), slog.Int("entries", a.state.History.Len()))
	return a, statusCmd("Redone", false)
}

// reset needs the key twice in a row; it also clears the undo history.
func (a App) reset() (App, tea.Cmd) {
	if !a.resetPending {
		a.resetPending = true
		return a, statusCmd("Press R again to reset the week (clears undo history)", true)
	}
	a.resetPending = false
	a.state.Reset(a.prefs)
	a.week.clamp()
	a.reports.buildChart()
	a.logger.Info("week reset")
	return a, statusCmd("Week reset", false)
}

// save encodes the state on the update goroutine; only the write runs in
// the command.
func (a App) save() tea.Cmd {
	data, err := a.state.Encode()
	if err != nil {
		return statusCmd(fmt.Sprintf("Save error: %v", err), true)
	}
	s, logger := a.store, a.logger
	return func() tea.Msg {
		if err := s.SetBlob(tracker.AppKey, data); err != nil {
			logger.Error("save failed", slog.String("error", err.Error()))
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		logger.Debug("state saved")
		return statusMsg{text: "Saved"}
	}
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewReports:
		// read-only
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewWeek:
		return a.week.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a *App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewReports:
		a.reports.buildChart()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewWeek:
		content = a.week.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("workhours")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	undo := mutedStyle.Render("undo")
	if a.state.CanUndo() {
		undo = highlightStyle.Render("undo")
	}
	redo := mutedStyle.Render("redo")
	if a.state.CanRedo() {
		redo = highlightStyle.Render("redo")
	}

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := undo + " " + redo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	week := a.state.Week.Clone()
	path := export.DefaultPath(a.exportDir, f, a.now())
	logger := a.logger
	return func() tea.Msg {
		if err := export.Write(f, week, path); err != nil {
			logger.Error("export failed", slog.String("format", string(f)), slog.String("error", err.Error()))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("exported", slog.String("path", path))
		return exportDoneMsg{path: path}
	}
}
