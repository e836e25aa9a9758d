// Package tracker holds the persisted application snapshot: the live week
// and its undo journal, saved as one opaque value under a fixed key.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/workhours/internal/history"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/worktime"
)

// AppKey is the key the snapshot is stored under.
const AppKey = "app"

// KV is the slice of the store the tracker needs.
type KV interface {
	GetBlob(key string) ([]byte, error)
	SetBlob(key string, value []byte) error
	GetIntSetting(key string, fallback int) int
}

type Journal = history.Journal[worktime.Week]

// Prefs are the user preferences kept in the settings table.
type Prefs struct {
	DefaultTarget time.Duration
	History       history.Settings
}

func DefaultPrefs() Prefs {
	return Prefs{DefaultTarget: worktime.DefaultDayTarget, History: history.DefaultSettings()}
}

// LoadPrefs reads preferences, keeping defaults for missing or invalid keys.
func LoadPrefs(kv KV) Prefs {
	p := DefaultPrefs()
	if secs := kv.GetIntSetting("default_target", -1); secs >= 0 {
		p.DefaultTarget = time.Duration(secs) * time.Second
	}
	if ms := kv.GetIntSetting("undo_debounce_ms", -1); ms >= 0 {
		p.History.Debounce = time.Duration(ms) * time.Millisecond
	}
	if n := kv.GetIntSetting("undo_max_entries", -1); n >= 0 {
		p.History.MaxEntries = n
	}
	return p
}

// State is everything that survives a restart.
type State struct {
	Week    worktime.Week `json:"week"`
	History *Journal      `json:"history"`
}

// NewState returns the default five-day week and an empty journal.
func NewState(p Prefs) *State {
	return &State{
		Week:    worktime.DefaultWeek(p.DefaultTarget),
		History: history.New[worktime.Week](p.History),
	}
}

// Load restores the saved state. A missing or unreadable snapshot yields
// NewState; the cause is logged, never returned.
func Load(kv KV, p Prefs, logger *slog.Logger) *State {
	data, err := kv.GetBlob(AppKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debug("no saved state, using default week")
		} else {
			logger.Warn("reading saved state failed, using default week", slog.String("error", err.Error()))
		}
		return NewState(p)
	}

	s, err := Decode(data, p)
	if err != nil {
		logger.Warn("saved state is malformed, using default week", slog.String("error", err.Error()))
		return NewState(p)
	}
	logger.Debug("state restored",
		slog.Int("days", len(s.Week.Days)),
		slog.Int("undo_entries", s.History.Len()),
	)
	return s
}

// Decode parses a snapshot. Fields absent from older snapshots keep their
// defaults; the journal takes the current preferences.
func Decode(data []byte, p Prefs) (*State, error) {
	s := NewState(p)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if s.History == nil {
		s.History = history.New[worktime.Week](p.History)
	}
	s.History.SetSettings(p.History)
	return s, nil
}

func (s *State) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func (s *State) Save(kv KV) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := kv.SetBlob(AppKey, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Reset replaces the week with the default one and starts a new journal.
func (s *State) Reset(p Prefs) {
	*s = *NewState(p)
}

// Undo records the live week, then steps back. It reports false, leaving the
// journal untouched, when there is nothing to undo.
func (s *State) Undo(at time.Duration) bool {
	if !s.CanUndo() {
		return false
	}
	s.History.Record(at, s.Week)
	prev, ok := s.History.StepBack()
	if ok {
		s.Week = prev
	}
	return ok
}

func (s *State) Redo() bool {
	next, ok := s.History.StepForward()
	if ok {
		s.Week = next
	}
	return ok
}

// Feed hands the live week to the journal once per update.
func (s *State) Feed(at time.Duration) bool {
	return s.History.Feed(at, s.Week)
}

// CanUndo is true when there is an earlier entry, or an unrecorded edit and
// room in the journal to keep the entry it would return to.
func (s *State) CanUndo() bool {
	if s.History.HasPrevious() {
		return true
	}
	cur, ok := s.History.Current()
	if !ok || cur.Equal(s.Week) {
		return false
	}
	return s.History.Settings().MaxEntries != 1
}

// CanRedo is true only while the live week is the entry at the cursor, so a
// redo never discards an unrecorded edit.
func (s *State) CanRedo() bool {
	if !s.History.HasNext() {
		return false
	}
	cur, ok := s.History.Current()
	return ok && cur.Equal(s.Week)
}
