package worktime

import (
	"fmt"
	"time"
)

// DefaultDayTarget is 7h36m, a 38 hour week over five days.
const DefaultDayTarget = 7*time.Hour + 36*time.Minute

var DefaultDayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Week is the full tracked state and the unit of undo.
type Week struct {
	Days []Day `json:"days"`
}

// DefaultWeek returns Monday to Friday, each with the given target.
func DefaultWeek(target time.Duration) Week {
	w := Week{Days: make([]Day, 0, len(DefaultDayNames))}
	for _, name := range DefaultDayNames {
		w.Days = append(w.Days, NewDay(name).WithTarget(target))
	}
	return w
}

func (w *Week) Day(i int) (*Day, error) {
	if i < 0 || i >= len(w.Days) {
		return nil, fmt.Errorf("day %d: %w", i, ErrIndexOutOfRange)
	}
	return &w.Days[i], nil
}

func (w Week) TotalDuration() time.Duration {
	var total time.Duration
	for _, d := range w.Days {
		total += d.Duration()
	}
	return total
}

func (w Week) TotalTarget() time.Duration {
	var total time.Duration
	for _, d := range w.Days {
		total += d.TargetDuration()
	}
	return total
}

// Todo is the week target minus the worked total; negative is surplus.
func (w Week) Todo() time.Duration {
	return w.TotalTarget() - w.TotalDuration()
}

func (w *Week) SetAllTargets(target time.Duration) {
	for i := range w.Days {
		w.Days[i].Target = target
	}
}

func (w Week) Equal(o Week) bool {
	if len(w.Days) != len(o.Days) {
		return false
	}
	for i := range w.Days {
		if !w.Days[i].Equal(o.Days[i]) {
			return false
		}
	}
	return true
}

func (w Week) Clone() Week {
	if w.Days == nil {
		return w
	}
	days := make([]Day, len(w.Days))
	for i, d := range w.Days {
		days[i] = d.Clone()
	}
	return Week{Days: days}
}
