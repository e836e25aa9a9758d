package worktime

import (
	"encoding/json"
	"time"
)

// Interval is one stretch of worked time. Start never lies after End: every
// setter snaps the opposite endpoint when an edit would cross it.
type Interval struct {
	Start TimeValue `json:"start"`
	End   TimeValue `json:"end"`
}

// NewInterval returns a zero-length interval at the current minute.
func NewInterval() Interval {
	return NewIntervalAt(time.Now())
}

func NewIntervalAt(t time.Time) Interval {
	v := At(t)
	return Interval{Start: v, End: v}
}

func (iv *Interval) SetStart(v TimeValue) {
	iv.Start = v
	if iv.End.Before(v) {
		iv.End = v
	}
}

func (iv *Interval) SetEnd(v TimeValue) {
	iv.End = v
	if iv.Start.After(v) {
		iv.Start = v
	}
}

// SetStartClock moves the start to h:m on its own date.
func (iv *Interval) SetStartClock(h, m int) error {
	v := iv.Start
	if err := v.SetClock(h, m); err != nil {
		return err
	}
	iv.SetStart(v)
	return nil
}

// SetEndClock moves the end to h:m on its own date.
func (iv *Interval) SetEndClock(h, m int) error {
	v := iv.End
	if err := v.SetClock(h, m); err != nil {
		return err
	}
	iv.SetEnd(v)
	return nil
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) Equal(o Interval) bool {
	return iv.Start.Equal(o.Start) && iv.End.Equal(o.End)
}

func (iv Interval) String() string {
	return iv.Start.String() + " -> " + iv.End.String()
}

// UnmarshalJSON snaps a saved end that lies before its start, as SetEnd
// would.
func (iv *Interval) UnmarshalJSON(data []byte) error {
	type plain Interval
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	iv.Start = p.Start
	iv.SetEnd(p.End)
	return nil
}
