package worktime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Day is the record of one weekday. A disabled day keeps its intervals but
// reports zero duration and zero target, which removes it from every
// aggregate.
type Day struct {
	Name      string        `json:"name"`
	Enabled   bool          `json:"enabled"`
	Target    time.Duration `json:"target"`
	Intervals []Interval    `json:"intervals"`
}

func NewDay(name string) Day {
	return Day{Name: name, Enabled: true}
}

func (d Day) WithTarget(target time.Duration) Day {
	d.Target = target
	return d
}

func (d Day) Duration() time.Duration {
	if !d.Enabled {
		return 0
	}
	var total time.Duration
	for _, iv := range d.Intervals {
		total += iv.Duration()
	}
	return total
}

// TargetDuration is the day's contribution to the week target.
func (d Day) TargetDuration() time.Duration {
	if !d.Enabled {
		return 0
	}
	return d.Target
}

// Todo is target minus done. Negative means surplus.
func (d Day) Todo() time.Duration {
	return d.TargetDuration() - d.Duration()
}

// AddInterval appends a zero-length interval at the current minute and
// returns its index.
func (d *Day) AddInterval() int {
	return d.AddIntervalAt(time.Now())
}

func (d *Day) AddIntervalAt(t time.Time) int {
	d.Intervals = append(d.Intervals, NewIntervalAt(t))
	return len(d.Intervals) - 1
}

// Interval returns a pointer to the i-th interval for in-place edits.
func (d *Day) Interval(i int) (*Interval, error) {
	if i < 0 || i >= len(d.Intervals) {
		return nil, fmt.Errorf("%s interval %d: %w", d.Name, i, ErrIndexOutOfRange)
	}
	return &d.Intervals[i], nil
}

func (d *Day) RemoveInterval(i int) error {
	if i < 0 || i >= len(d.Intervals) {
		return fmt.Errorf("remove %s interval %d: %w", d.Name, i, ErrIndexOutOfRange)
	}
	d.Intervals = append(d.Intervals[:i:i], d.Intervals[i+1:]...)
	return nil
}

// ClearIntervals empties the list and reports whether anything was removed.
func (d *Day) ClearIntervals() bool {
	if len(d.Intervals) == 0 {
		return false
	}
	d.Intervals = nil
	return true
}

func (d Day) Equal(o Day) bool {
	if d.Name != o.Name || d.Enabled != o.Enabled || d.Target != o.Target {
		return false
	}
	if len(d.Intervals) != len(o.Intervals) {
		return false
	}
	for i := range d.Intervals {
		if !d.Intervals[i].Equal(o.Intervals[i]) {
			return false
		}
	}
	return true
}

func (d Day) Clone() Day {
	if d.Intervals != nil {
		d.Intervals = append([]Interval(nil), d.Intervals...)
	}
	return d
}

// UnmarshalJSON treats a missing "enabled" field as true so records saved
// before the flag existed stay in the totals.
func (d *Day) UnmarshalJSON(data []byte) error {
	type plain Day
	p := plain{Enabled: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Day(p)
	return nil
}
