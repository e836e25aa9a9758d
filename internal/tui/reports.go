package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/tracker"
	"github.com/sadopc/workhours/internal/worktime"
)

type reportsModel struct {
	state  *tracker.State
	width  int
	height int

	chart barchart.Model
}

func newReportsModel(st *tracker.State) reportsModel {
	return reportsModel{
		state: st,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// buildChart stacks done hours under the hours still to do, one bar per day.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	doneStyle := lipgloss.NewStyle().Foreground(colorSecondary)
	todoStyle := lipgloss.NewStyle().Foreground(colorSubtle)
	overStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	var bars []barchart.BarData
	for _, d := range r.state.Week.Days {
		label := d.Name
		if rs := []rune(label); len(rs) > 3 {
			label = string(rs[:3])
		}
		done := d.Duration().Hours()
		todo := d.Todo().Hours()

		values := []barchart.BarValue{{Name: "done", Value: done, Style: doneStyle}}
		if todo > 0 {
			values = append(values, barchart.BarValue{Name: "todo", Value: todo, Style: todoStyle})
		} else if d.Enabled && done > 0 {
			values[0].Style = overStyle
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	if len(bars) == 0 {
		return
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := titleStyle.Render("Reports")
	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	legend := "  " + lipgloss.NewStyle().Foreground(colorSecondary).Render("█") + " done  " +
		lipgloss.NewStyle().Foreground(colorSubtle).Render("█") + " todo  " +
		lipgloss.NewStyle().Foreground(colorSuccess).Render("█") + " target met"

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", tableView,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	wk := r.state.Week
	if len(wk.Days) == 0 {
		return mutedStyle.Render("  No days configured")
	}

	rule := strings.Repeat("─", max(min(w-6, 50), 0))
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %8s %8s %10s", "Day", "Target", "Done", "Todo", "Intervals")))
	rows = append(rows, mutedStyle.Render("  "+rule))

	for _, d := range wk.Days {
		name := d.Name
		style := normalItemStyle
		if !d.Enabled {
			style = mutedStyle
			name += " (off)"
		}
		rows = append(rows, style.Render(fmt.Sprintf("  %-12s %8s %8s %8s %10d",
			name,
			worktime.FormatDuration(d.TargetDuration()),
			worktime.FormatDuration(d.Duration()),
			worktime.FormatSigned(d.Todo()),
			len(d.Intervals),
		)))
	}
	rows = append(rows, mutedStyle.Render("  "+rule))
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-12s %8s %8s %8s",
		"Week",
		worktime.FormatDuration(wk.TotalTarget()),
		worktime.FormatDuration(wk.TotalDuration()),
		worktime.FormatSigned(wk.Todo()),
	)))

	return strings.Join(rows, "\n")
}
