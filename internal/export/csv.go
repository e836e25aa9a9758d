package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/workhours/internal/worktime"
)

// ToCSV writes one row per interval, plus one row for each day without
// intervals so disabled or empty days still show up.
func ToCSV(week worktime.Week, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Day", "Enabled", "Target", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, d := range week.Days {
		enabled := strconv.FormatBool(d.Enabled)
		target := worktime.FormatDuration(d.Target)
		if len(d.Intervals) == 0 {
			if err := w.Write([]string{d.Name, enabled, target, "", "", "0", "00:00"}); err != nil {
				return err
			}
			continue
		}
		for _, iv := range d.Intervals {
			dur := iv.Duration()
			row := []string{
				d.Name,
				enabled,
				target,
				iv.Start.String(),
				iv.End.String(),
				fmt.Sprintf("%d", int64(dur.Seconds())),
				worktime.FormatDuration(dur),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
