package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/tracker"
	"github.com/sadopc/workhours/internal/worktime"
)

type weekForm int

const (
	formNone weekForm = iota
	formInterval
	formTarget
)

type weekModel struct {
	state  *tracker.State
	now    func() time.Time
	width  int
	height int

	dayCursor int
	ivCursor  int

	formActive bool
	formKind   weekForm
	form       *huh.Form

	// Form values as pointers (survive value copies)
	startInput  *string
	endInput    *string
	targetInput *string
}

func newWeekModel(st *tracker.State, now func() time.Time) weekModel {
	start, end, target := "", "", ""
	return weekModel{
		state:       st,
		now:         now,
		startInput:  &start,
		endInput:    &end,
		targetInput: &target,
	}
}

func (w *weekModel) setSize(width, height int) {
	w.width = width
	w.height = height
}

// clamp keeps the cursors inside the week after undo, redo or reset swapped
// the state underneath them.
func (w *weekModel) clamp() {
	days := len(w.state.Week.Days)
	if w.dayCursor >= days {
		w.dayCursor = days - 1
	}
	if w.dayCursor < 0 {
		w.dayCursor = 0
	}
	n := 0
	if d := w.currentDay(); d != nil {
		n = len(d.Intervals)
	}
	if w.ivCursor >= n {
		w.ivCursor = n - 1
	}
	if w.ivCursor < 0 {
		w.ivCursor = 0
	}
}

func (w weekModel) currentDay() *worktime.Day {
	d, err := w.state.Week.Day(w.dayCursor)
	if err != nil {
		return nil
	}
	return d
}

func (w weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	if w.formActive && w.form != nil {
		return w.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}
	day := w.currentDay()
	if day == nil {
		return w, nil
	}

	switch {
	case key.Matches(km, keys.Left):
		if w.dayCursor > 0 {
			w.dayCursor--
			w.ivCursor = 0
		}
	case key.Matches(km, keys.Right):
		if w.dayCursor < len(w.state.Week.Days)-1 {
			w.dayCursor++
			w.ivCursor = 0
		}
	case key.Matches(km, keys.Up):
		if w.ivCursor > 0 {
			w.ivCursor--
		}
	case key.Matches(km, keys.Down):
		if w.ivCursor < len(day.Intervals)-1 {
			w.ivCursor++
		}
	case key.Matches(km, keys.Add):
		w.ivCursor = day.AddIntervalAt(w.now())
	case key.Matches(km, keys.Remove):
		if len(day.Intervals) == 0 {
			return w, statusCmd("No interval to remove", true)
		}
		if err := day.RemoveInterval(w.ivCursor); err != nil {
			return w, statusCmd(err.Error(), true)
		}
		w.clamp()
	case key.Matches(km, keys.Clear):
		if !day.ClearIntervals() {
			return w, statusCmd(day.Name+" has no intervals", true)
		}
		w.ivCursor = 0
		return w, statusCmd("Cleared "+day.Name, false)
	case key.Matches(km, keys.Toggle):
		day.Enabled = !day.Enabled
	case key.Matches(km, keys.Edit):
		if len(day.Intervals) == 0 {
			return w, statusCmd("Press a to add an interval first", true)
		}
		return w.showIntervalForm()
	case key.Matches(km, keys.Target):
		return w.showTargetForm()
	}
	return w, nil
}

func (w weekModel) showIntervalForm() (weekModel, tea.Cmd) {
	day := w.currentDay()
	iv, err := day.Interval(w.ivCursor)
	if err != nil {
		return w, statusCmd(err.Error(), true)
	}
	*w.startInput = iv.Start.String()
	*w.endInput = iv.End.String()

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (HH:MM)").Value(w.startInput).Validate(validateClock),
			huh.NewInput().Title("End (HH:MM)").Value(w.endInput).Validate(validateClock),
		).Title(fmt.Sprintf("%s, interval %d", day.Name, w.ivCursor+1)),
	).WithShowHelp(true).WithShowErrors(true)

	w.formActive = true
	w.formKind = formInterval
	return w, w.form.Init()
}

func (w weekModel) showTargetForm() (weekModel, tea.Cmd) {
	day := w.currentDay()
	*w.targetInput = worktime.FormatDuration(day.Target)

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Target (H:MM)").Value(w.targetInput).Validate(validateHoursMinutes),
		).Title(day.Name),
	).WithShowHelp(true).WithShowErrors(true)

	w.formActive = true
	w.formKind = formTarget
	return w, w.form.Init()
}

func (w weekModel) updateForm(msg tea.Msg) (weekModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			w.closeForm()
			return w, nil
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		kind := w.formKind
		w.closeForm()
		var err error
		if kind == formInterval {
			err = w.applyIntervalEdit(*w.startInput, *w.endInput)
		} else {
			err = w.applyTargetEdit(*w.targetInput)
		}
		if err != nil {
			return w, statusCmd(err.Error(), true)
		}
		return w, nil
	case huh.StateAborted:
		w.closeForm()
		return w, nil
	}
	return w, cmd
}

func (w *weekModel) closeForm() {
	w.formActive = false
	w.formKind = formNone
	w.form = nil
}

// applyIntervalEdit sets start then end, so the clamp rule decides the
// outcome when the user types an end before the start.
func (w weekModel) applyIntervalEdit(start, end string) error {
	iv, err := w.currentDay().Interval(w.ivCursor)
	if err != nil {
		return err
	}
	sh, sm, err := parseClock(start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if err := iv.SetStartClock(sh, sm); err != nil {
		return err
	}
	return iv.SetEndClock(eh, em)
}

func (w weekModel) applyTargetEdit(s string) error {
	d, err := parseHoursMinutes(s)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	w.currentDay().Target = d
	return nil
}

func (w weekModel) view() string {
	if w.width < 20 {
		return "Terminal too small"
	}
	contentWidth := w.width - 4

	if w.formActive && w.form != nil {
		title := titleStyle.Render("Edit")
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", w.form.View()),
		)
	}

	days := w.state.Week.Days
	colWidth := 24
	if n := len(days); n > 0 && contentWidth/n-2 < colWidth {
		colWidth = max(contentWidth/n-2, 14)
	}
	var cols []string
	for i := range days {
		cols = append(cols, w.renderDay(i, colWidth))
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return lipgloss.JoinVertical(lipgloss.Left, grid, w.renderTotals(contentWidth))
}

func (w weekModel) renderDay(i, width int) string {
	d := w.state.Week.Days[i]
	active := i == w.dayCursor

	check := "[x]"
	nameStyle := titleStyle
	if !d.Enabled {
		check = "[ ]"
		nameStyle = mutedStyle
	}
	rows := []string{
		nameStyle.Render(check + " " + d.Name),
		"",
		fmt.Sprintf("Target  %s", worktime.FormatDuration(d.Target)),
		fmt.Sprintf("Done    %s", worktime.FormatDuration(d.Duration())),
		fmt.Sprintf("Todo    %s", renderTodo(d.Target-d.Duration())),
		"",
	}

	if len(d.Intervals) == 0 {
		rows = append(rows, mutedStyle.Render("no intervals"))
	}
	for j, iv := range d.Intervals {
		cursor := "  "
		style := normalItemStyle
		if active && j == w.ivCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if !d.Enabled {
			style = mutedStyle
		}
		rows = append(rows, style.Render(cursor+iv.String()))
	}

	style := dayStyle
	if active {
		style = activeDayStyle
	}
	return style.Width(width).Render(strings.Join(rows, "\n"))
}

func (w weekModel) renderTotals(width int) string {
	wk := w.state.Week
	rows := []string{
		titleStyle.Render("Week"),
		fmt.Sprintf("  %-12s %s", "Week Target:", worktime.FormatDuration(wk.TotalTarget())),
		fmt.Sprintf("  %-12s %s", "Week Total:", highlightStyle.Render(worktime.FormatDuration(wk.TotalDuration()))),
		fmt.Sprintf("  %-12s %s", "Week Todo:", renderTodo(wk.Todo())),
	}
	return panelStyle.Width(width).Render(strings.Join(rows, "\n"))
}

// renderTodo shows the sign apart from the magnitude; a surplus is green.
func renderTodo(d time.Duration) string {
	if d < 0 {
		return successStyle.Render("-" + worktime.FormatDuration(d))
	}
	if d == 0 {
		return successStyle.Render(worktime.FormatDuration(d))
	}
	return warningStyle.Render(worktime.FormatDuration(d))
}
