package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/tracker"
	"github.com/sadopc/workhours/internal/worktime"
)

type settingsModel struct {
	store  *store.Store
	state  *tracker.State
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultTarget  *string
	undoDebounce   *string
	undoMaxEntries *string
	applyToWeek    *bool
}

func newSettingsModel(s *store.Store, st *tracker.State) settingsModel {
	dt, ud, um := "", "", ""
	apply := false
	return settingsModel{
		store:          s,
		state:          st,
		defaultTarget:  &dt,
		undoDebounce:   &ud,
		undoMaxEntries: &um,
		applyToWeek:    &apply,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := tracker.LoadPrefs(s.store)
	*s.defaultTarget = worktime.FormatDuration(p.DefaultTarget)
	*s.undoDebounce = strconv.FormatInt(p.History.Debounce.Milliseconds(), 10)
	*s.undoMaxEntries = strconv.Itoa(p.History.MaxEntries)
	*s.applyToWeek = false

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily target (H:MM)").Value(s.defaultTarget).Validate(validateHoursMinutes),
			huh.NewConfirm().Title("Apply to every day of this week?").Value(s.applyToWeek),
		).Title("Target"),
		huh.NewGroup(
			huh.NewInput().Title("Undo step debounce (ms)").Value(s.undoDebounce).Validate(validateNonNegative),
			huh.NewInput().Title("Undo steps kept (0 = unlimited)").Value(s.undoMaxEntries).Validate(validateNonNegative),
		).Title("Undo"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, statusCmd(err.Error(), true)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return prefsChangedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	target, err := parseHoursMinutes(*s.defaultTarget)
	if err != nil {
		return fmt.Errorf("daily target: %w", err)
	}
	if err := s.store.SetSetting("default_target", strconv.Itoa(int(target/time.Second))); err != nil {
		return err
	}
	if err := s.store.SetSetting("undo_debounce_ms", *s.undoDebounce); err != nil {
		return err
	}
	if err := s.store.SetSetting("undo_max_entries", *s.undoMaxEntries); err != nil {
		return err
	}
	if *s.applyToWeek {
		s.state.Week.SetAllTargets(target)
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "default_target":
		if secs, err := strconv.Atoi(v); err == nil {
			return worktime.FormatDuration(time.Duration(secs) * time.Second)
		}
	case "undo_debounce_ms":
		if ms, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d ms", ms)
		}
	case "undo_max_entries":
		if v == "0" {
			return "unlimited"
		}
	}
	return v
}

func validateNonNegative(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("enter a whole number ≥ 0")
	}
	return nil
}
