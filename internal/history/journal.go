// Package history keeps a linear undo/redo journal of value snapshots.
//
// The journal never reads a clock. Callers pass a monotonically
// non-decreasing timestamp with every Feed, which is what makes the
// debounce testable with synthetic time.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Snapshot is a value that can be compared and deep-copied.
type Snapshot[T any] interface {
	Equal(T) bool
	Clone() T
}

type Settings struct {
	// Debounce is the minimum time between two recorded entries.
	Debounce time.Duration `json:"debounce"`
	// MaxEntries caps the journal length; 0 means unlimited.
	MaxEntries int `json:"max_entries"`
}

func DefaultSettings() Settings {
	return Settings{Debounce: time.Second, MaxEntries: 100}
}

var ErrCorrupt = errors.New("corrupt journal")

type entry[T any] struct {
	at    time.Duration
	state T
}

// Journal is an ordered list of snapshots with a cursor. Recording after
// stepping back discards the entries past the cursor.
type Journal[T Snapshot[T]] struct {
	settings Settings
	entries  []entry[T]
	cursor   int
}

func New[T Snapshot[T]](settings Settings) *Journal[T] {
	return &Journal[T]{settings: settings, cursor: -1}
}

func (j *Journal[T]) Settings() Settings { return j.settings }

func (j *Journal[T]) SetSettings(s Settings) {
	j.settings = s
	j.trim()
}

// Feed records state when it differs from the entry at the cursor and the
// debounce window has passed since the last recorded entry. It reports
// whether an entry was appended.
func (j *Journal[T]) Feed(at time.Duration, state T) bool {
	if len(j.entries) > 0 {
		if j.entries[j.cursor].state.Equal(state) {
			return false
		}
		last := j.entries[len(j.entries)-1].at
		// A timestamp going backwards means the feeding clock restarted.
		if at >= last && at-last < j.settings.Debounce {
			return false
		}
	}
	j.push(at, state)
	return true
}

// Record is Feed without the debounce. Hosts call it before an explicit undo
// so a pending edit becomes its own step.
func (j *Journal[T]) Record(at time.Duration, state T) bool {
	if len(j.entries) > 0 && j.entries[j.cursor].state.Equal(state) {
		return false
	}
	j.push(at, state)
	return true
}

func (j *Journal[T]) push(at time.Duration, state T) {
	j.entries = append(j.entries[:j.cursor+1], entry[T]{at: at, state: state.Clone()})
	j.cursor = len(j.entries) - 1
	j.trim()
}

func (j *Journal[T]) trim() {
	limit := j.settings.MaxEntries
	if limit <= 0 || len(j.entries) <= limit {
		return
	}
	drop := len(j.entries) - limit
	j.entries = append([]entry[T](nil), j.entries[drop:]...)
	j.cursor -= drop
	if j.cursor < 0 {
		j.cursor = 0
	}
}

func (j *Journal[T]) HasPrevious() bool { return j.cursor > 0 }

func (j *Journal[T]) HasNext() bool { return j.cursor >= 0 && j.cursor < len(j.entries)-1 }

// StepBack moves the cursor one entry back and returns a copy of that state.
// ok is false when there is nothing to undo.
func (j *Journal[T]) StepBack() (state T, ok bool) {
	if !j.HasPrevious() {
		return state, false
	}
	j.cursor--
	return j.entries[j.cursor].state.Clone(), true
}

// StepForward is the redo counterpart of StepBack.
func (j *Journal[T]) StepForward() (state T, ok bool) {
	if !j.HasNext() {
		return state, false
	}
	j.cursor++
	return j.entries[j.cursor].state.Clone(), true
}

// Current returns a copy of the entry at the cursor.
func (j *Journal[T]) Current() (state T, ok bool) {
	if j.cursor < 0 {
		return state, false
	}
	return j.entries[j.cursor].state.Clone(), true
}

func (j *Journal[T]) Len() int    { return len(j.entries) }
func (j *Journal[T]) Cursor() int { return j.cursor }

type wireEntry[T any] struct {
	At    time.Duration `json:"at"`
	State T             `json:"state"`
}

type wireJournal[T any] struct {
	Settings Settings       `json:"settings"`
	Cursor   int            `json:"cursor"`
	Entries  []wireEntry[T] `json:"entries"`
}

func (j *Journal[T]) MarshalJSON() ([]byte, error) {
	w := wireJournal[T]{Settings: j.settings, Cursor: j.cursor, Entries: make([]wireEntry[T], len(j.entries))}
	for i, e := range j.entries {
		w.Entries[i] = wireEntry[T]{At: e.at, State: e.state}
	}
	return json.Marshal(w)
}

func (j *Journal[T]) UnmarshalJSON(data []byte) error {
	w := wireJournal[T]{Settings: DefaultSettings(), Cursor: -1}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(w.Entries) == 0 {
		w.Cursor = -1
	} else if w.Cursor < 0 || w.Cursor >= len(w.Entries) {
		return fmt.Errorf("%w: cursor %d outside %d entries", ErrCorrupt, w.Cursor, len(w.Entries))
	}
	entries := make([]entry[T], len(w.Entries))
	for i, e := range w.Entries {
		entries[i] = entry[T]{at: e.At, state: e.State}
	}
	j.settings = w.Settings
	j.entries = entries
	j.cursor = w.Cursor
	j.trim()
	return nil
}
