package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active view.
type viewState int

const (
	viewWeek viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Week", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type prefsChangedMsg struct{}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

var errClockFormat = errors.New("use HH:MM")

// parseClock reads a time of day as "H:MM", "HH:MM" or "HHMM".
func parseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	var hs, ms string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hs, ms = s[:i], s[i+1:]
	} else if len(s) == 4 {
		hs, ms = s[:2], s[2:]
	} else {
		return 0, 0, errClockFormat
	}
	if len(ms) != 2 || hs == "" || len(hs) > 2 {
		return 0, 0, errClockFormat
	}
	hour, err = strconv.Atoi(hs)
	if err != nil {
		return 0, 0, errClockFormat
	}
	minute, err = strconv.Atoi(ms)
	if err != nil {
		return 0, 0, errClockFormat
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%02d:%02d is not a time of day", hour, minute)
	}
	return hour, minute, nil
}

// maxDayTarget bounds every target typed as "H:MM".
const maxDayTarget = 24 * time.Hour

// parseHoursMinutes reads a daily duration written as "H:MM", at most 24:00.
func parseHoursMinutes(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(ms) != 2 {
		return 0, errClockFormat
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || len(hs) > 2 {
		return 0, errClockFormat
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, errClockFormat
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	if d > maxDayTarget {
		return 0, fmt.Errorf("%d:%02d is longer than a day", h, m)
	}
	return d, nil
}

func validateClock(s string) error {
	_, _, err := parseClock(s)
	return err
}

func validateHoursMinutes(s string) error {
	_, err := parseHoursMinutes(s)
	return err
}
