// Package export writes a week to CSV, JSON or PDF files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/workhours/internal/worktime"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatPDF}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or pdf)", s)
}

// DefaultPath returns dir/workhours-export-<date>.<format>.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("workhours-export-%s.%s", now.Format("2006-01-02"), f))
}

func Write(f Format, week worktime.Week, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(week, path)
	case FormatJSON:
		return ToJSON(week, path)
	case FormatPDF:
		return ToPDF(week, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}
