package cli

import (
	"fmt"
	"io"

	"github.com/sadopc/workhours/internal/worktime"
	"github.com/spf13/cobra"
)

func newSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print target, done and todo per day and for the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, e)
		},
	}
}

func runSummary(cmd *cobra.Command, e *env) error {
	writeSummary(cmd.OutOrStdout(), e.load().Week)
	return nil
}

func writeSummary(w io.Writer, week worktime.Week) {
	fmt.Fprintf(w, "%-12s %8s %8s %8s  %s\n", "Day", "Target", "Done", "Todo", "Intervals")
	for _, d := range week.Days {
		name := d.Name
		if !d.Enabled {
			name += " (off)"
		}
		intervals := "-"
		for i, iv := range d.Intervals {
			if i == 0 {
				intervals = ""
			} else {
				intervals += ", "
			}
			intervals += iv.String()
		}
		fmt.Fprintf(w, "%-12s %8s %8s %8s  %s\n",
			name,
			worktime.FormatDuration(d.TargetDuration()),
			worktime.FormatDuration(d.Duration()),
			worktime.FormatSigned(d.Todo()),
			intervals,
		)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Week Target: %s\n", worktime.FormatDuration(week.TotalTarget()))
	fmt.Fprintf(w, "Week Total:  %s\n", worktime.FormatDuration(week.TotalDuration()))
	fmt.Fprintf(w, "Week Todo:   %s\n", worktime.FormatSigned(week.Todo()))
}
