package worktime

import (
	"fmt"
	"time"
)

// FormatDuration renders the magnitude of d as HH:MM.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	mins := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// FormatSigned is FormatDuration with a leading "-" for negative values.
func FormatSigned(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(d)
	}
	return FormatDuration(d)
}
