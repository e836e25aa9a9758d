package worktime

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrHourRange   = errors.New("hour out of range 0-23")
	ErrMinuteRange = errors.New("minute out of range 0-59")
)

// TimeValue is a wall-clock time of day anchored to the date it was created
// on. Only the hour and minute are ever edited; the date and zone never move.
type TimeValue struct {
	t time.Time
}

// Now returns the current local time truncated to the minute.
func Now() TimeValue {
	return At(time.Now())
}

// At returns the TimeValue for t in the local zone, truncated to the minute.
func At(t time.Time) TimeValue {
	t = t.Local()
	return TimeValue{t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())}
}

func (v TimeValue) Hour() int       { return v.t.Hour() }
func (v TimeValue) Minute() int     { return v.t.Minute() }
func (v TimeValue) Time() time.Time { return v.t }

func (v TimeValue) String() string { return v.t.Format("15:04") }

func (v TimeValue) Equal(o TimeValue) bool  { return v.t.Equal(o.t) }
func (v TimeValue) Before(o TimeValue) bool { return v.t.Before(o.t) }
func (v TimeValue) After(o TimeValue) bool  { return v.t.After(o.t) }

// Sub returns the elapsed time from earlier to v. It is negative when
// earlier is in fact later.
func (v TimeValue) Sub(earlier TimeValue) time.Duration {
	return v.t.Sub(earlier.t)
}

func (v *TimeValue) SetHour(h int) error {
	return v.SetClock(h, v.Minute())
}

func (v *TimeValue) SetMinute(m int) error {
	return v.SetClock(v.Hour(), m)
}

// SetClock replaces both wall-clock fields. On error v is left unchanged.
func (v *TimeValue) SetClock(h, m int) error {
	if h < 0 || h > 23 {
		return fmt.Errorf("%w: %d", ErrHourRange, h)
	}
	if m < 0 || m > 59 {
		return fmt.Errorf("%w: %d", ErrMinuteRange, m)
	}
	t := v.t
	if t.IsZero() {
		t = Now().t
	}
	v.t = time.Date(t.Year(), t.Month(), t.Day(), h, m, 0, 0, t.Location())
	return nil
}

func (v TimeValue) MarshalJSON() ([]byte, error) {
	return v.t.MarshalJSON()
}

func (v *TimeValue) UnmarshalJSON(data []byte) error {
	var t time.Time
	if err := t.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode time value: %w", err)
	}
	v.t = t
	return nil
}
