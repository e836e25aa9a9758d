package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/workhours/internal/worktime"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Target     string    `json:"target"`
	Done       string    `json:"done"`
	Todo       string    `json:"todo"`
	TodoSec    int64     `json:"todo_seconds"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Name      string         `json:"name"`
	Enabled   bool           `json:"enabled"`
	Target    string         `json:"target"`
	Done      string         `json:"done"`
	Todo      string         `json:"todo"`
	Intervals []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	DurationSec int64  `json:"duration_seconds"`
}

func ToJSON(week worktime.Week, path string) error {
	todo := week.Todo()
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Target:     worktime.FormatDuration(week.TotalTarget()),
		Done:       worktime.FormatDuration(week.TotalDuration()),
		Todo:       worktime.FormatSigned(todo),
		TodoSec:    int64(todo.Seconds()),
	}

	for _, d := range week.Days {
		day := jsonDay{
			Name:      d.Name,
			Enabled:   d.Enabled,
			Target:    worktime.FormatDuration(d.Target),
			Done:      worktime.FormatDuration(d.Duration()),
			Todo:      worktime.FormatSigned(d.Todo()),
			Intervals: []jsonInterval{},
		}
		for _, iv := range d.Intervals {
			day.Intervals = append(day.Intervals, jsonInterval{
				Start:       iv.Start.Time().Format(time.RFC3339),
				End:         iv.End.Time().Format(time.RFC3339),
				DurationSec: int64(iv.Duration().Seconds()),
			})
		}
		export.Days = append(export.Days, day)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
