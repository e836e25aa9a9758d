package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sadopc/workhours/internal/worktime"
)

// ToPDF renders a one-page week report: a table of days followed by the
// week totals.
func ToPDF(week worktime.Week, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Work hours", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Work Hours: week of %s", time.Now().Format("2006-01-02")))
	pdf.Ln(14)

	widths := []float64{40, 25, 25, 25, 65}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range []string{"Day", "Target", "Done", "Todo", "Intervals"} {
		pdf.CellFormat(widths[i], 8, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, d := range week.Days {
		name := d.Name
		if !d.Enabled {
			name += " (off)"
		}
		pdf.CellFormat(widths[0], 7, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, worktime.FormatDuration(d.TargetDuration()), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, worktime.FormatDuration(d.Duration()), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, worktime.FormatSigned(d.Todo()), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, intervalList(d), "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Week Target: "+worktime.FormatDuration(week.TotalTarget()))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Week Total: "+worktime.FormatDuration(week.TotalDuration()))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Week Todo: "+worktime.FormatSigned(week.Todo()))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}

func intervalList(d worktime.Day) string {
	if len(d.Intervals) == 0 {
		return "-"
	}
	s := ""
	for i, iv := range d.Intervals {
		if i > 0 {
			s += ", "
		}
		s += iv.Start.String() + "-" + iv.End.String()
	}
	return s
}
