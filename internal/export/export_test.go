package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/workhours/internal/worktime"
)

func sampleWeek(t *testing.T) worktime.Week {
	t.Helper()
	w := worktime.DefaultWeek(worktime.DefaultDayTarget)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	mon := &w.Days[0]
	mon.AddIntervalAt(base)
	mon.AddIntervalAt(base.Add(4 * time.Hour))
	if err := mon.Intervals[0].SetEndClock(12, 0); err != nil {
		t.Fatal(err)
	}
	if err := mon.Intervals[1].SetEndClock(17, 0); err != nil {
		t.Fatal(err)
	}
	w.Days[4].Enabled = false
	return w
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.csv")
	if err := ToCSV(sampleWeek(t), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 Monday intervals + 4 empty days
	if len(records) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(records))
	}
	if records[0][0] != "Day" || records[0][6] != "Duration" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	first := records[1]
	if first[0] != "Monday" || first[3] != "09:00" || first[4] != "12:00" || first[5] != "10800" || first[6] != "03:00" {
		t.Fatalf("unexpected first interval row: %v", first)
	}
	friday := records[6]
	if friday[0] != "Friday" || friday[1] != "false" || friday[2] != "07:36" {
		t.Fatalf("unexpected friday row: %v", friday)
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(sampleWeek(t), filepath.Join(t.TempDir(), "missing", "x.csv")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.json")
	if err := ToJSON(sampleWeek(t), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.ExportedAt == "" {
		t.Fatal("missing exported_at")
	}
	// four enabled days of 7:36, seven hours done
	if got.Target != "30:24" || got.Done != "07:00" || got.Todo != "23:24" {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.TodoSec != int64((23*time.Hour + 24*time.Minute).Seconds()) {
		t.Fatalf("unexpected todo seconds %d", got.TodoSec)
	}
	if len(got.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(got.Days))
	}
	mon := got.Days[0]
	if mon.Done != "07:00" || mon.Todo != "00:36" || len(mon.Intervals) != 2 {
		t.Fatalf("unexpected monday: %+v", mon)
	}
	if mon.Intervals[1].DurationSec != 4*3600 {
		t.Fatalf("unexpected interval: %+v", mon.Intervals[1])
	}
	if got.Days[1].Intervals == nil {
		t.Fatal("empty days should export an empty list, not null")
	}
	if got.Days[4].Enabled {
		t.Fatal("friday should be disabled")
	}
}

func TestToJSONSurplus(t *testing.T) {
	w := worktime.Week{Days: []worktime.Day{worktime.NewDay("Monday").WithTarget(time.Hour)}}
	w.Days[0].AddIntervalAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	w.Days[0].Intervals[0].SetEndClock(11, 30)

	path := filepath.Join(t.TempDir(), "surplus.json")
	if err := ToJSON(w, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var got jsonExport
	json.Unmarshal(data, &got)
	if got.Todo != "-01:30" {
		t.Fatalf("expected -01:30, got %q", got.Todo)
	}
}

// ============================================================
// PDF
// ============================================================

func TestToPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.pdf")
	if err := ToPDF(sampleWeek(t), path); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", data[:min(len(data), 16)])
	}
}

func TestIntervalList(t *testing.T) {
	w := sampleWeek(t)
	if got := intervalList(w.Days[0]); got != "09:00-12:00, 13:00-17:00" {
		t.Fatalf("unexpected list %q", got)
	}
	if got := intervalList(w.Days[1]); got != "-" {
		t.Fatalf("unexpected list %q", got)
	}
}

// ============================================================
// Dispatch
// ============================================================

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "JSON", " pdf "} {
		if _, err := ParseFormat(in); err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Fatal("expected error for xlsx")
	}
}

func TestWriteAllFormats(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	for _, f := range Formats {
		path := DefaultPath(dir, f, now)
		if err := Write(f, sampleWeek(t), path); err != nil {
			t.Fatalf("Write %s: %v", f, err)
		}
		if filepath.Base(path) != "workhours-export-2025-03-14."+string(f) {
			t.Fatalf("unexpected path %q", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing %s file: %v", f, err)
		}
	}
	if err := Write(Format("xml"), sampleWeek(t), filepath.Join(dir, "x")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
