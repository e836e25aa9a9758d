package tracker

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type brokenKV struct{}

func (brokenKV) GetBlob(string) ([]byte, error)    { return nil, errors.New("disk on fire") }
func (brokenKV) SetBlob(string, []byte) error      { return errors.New("disk on fire") }
func (brokenKV) GetIntSetting(_ string, f int) int { return f }

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.Local)
}

func TestLoadPrefs_Defaults(t *testing.T) {
	p := LoadPrefs(newTestStore(t))
	assert.Equal(t, DefaultPrefs(), p)
	assert.Equal(t, 7*time.Hour+36*time.Minute, p.DefaultTarget)
}

func TestLoadPrefs_Overrides(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetSetting("default_target", "28800"))
	require.NoError(t, s.SetSetting("undo_debounce_ms", "250"))
	require.NoError(t, s.SetSetting("undo_max_entries", "oops"))

	p := LoadPrefs(s)
	assert.Equal(t, 8*time.Hour, p.DefaultTarget)
	assert.Equal(t, 250*time.Millisecond, p.History.Debounce)
	assert.Equal(t, 100, p.History.MaxEntries)
}

func TestLoad_MissingKeyFallsBack(t *testing.T) {
	st := Load(newTestStore(t), DefaultPrefs(), discard)
	require.Len(t, st.Week.Days, 5)
	assert.Equal(t, "Monday", st.Week.Days[0].Name)
	assert.Equal(t, 5*worktime.DefaultDayTarget, st.Week.TotalTarget())
	assert.Zero(t, st.History.Len())
}

func TestLoad_ReadErrorFallsBack(t *testing.T) {
	st := Load(brokenKV{}, DefaultPrefs(), discard)
	assert.Len(t, st.Week.Days, 5)
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetBlob(AppKey, []byte(`{"week": 12`)))
	st := Load(s, DefaultPrefs(), discard)
	assert.Len(t, st.Week.Days, 5)

	require.NoError(t, s.SetBlob(AppKey, []byte(`{"history":{"cursor":9,"entries":[]}, "week":{"days":[{"name":"X"}]}}`)))
	st = Load(s, DefaultPrefs(), discard)
	assert.Len(t, st.Week.Days, 1, "empty journal with stray cursor is still valid")

	require.NoError(t, s.SetBlob(AppKey, []byte(`{"history":{"cursor":9,"entries":[{"at":0,"state":{"days":[]}}]}}`)))
	st = Load(s, DefaultPrefs(), discard)
	assert.Len(t, st.Week.Days, 5, "corrupt journal falls back to default")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	p := DefaultPrefs()
	st := NewState(p)
	st.Feed(0)

	mon, err := st.Week.Day(0)
	require.NoError(t, err)
	mon.AddIntervalAt(at(9, 0))
	iv, err := mon.Interval(0)
	require.NoError(t, err)
	require.NoError(t, iv.SetEndClock(12, 0))
	st.Week.Days[4].Enabled = false
	st.Feed(5 * time.Second)

	require.NoError(t, st.Save(s))

	got := Load(s, p, discard)
	assert.True(t, st.Week.Equal(got.Week))
	assert.Equal(t, 3*time.Hour, got.Week.TotalDuration())
	assert.Equal(t, 2, got.History.Len())
	assert.True(t, got.History.HasPrevious())
}

func TestDecode_OlderSnapshotWithoutHistory(t *testing.T) {
	st, err := Decode([]byte(`{"week":{"days":[{"name":"Monday","target":3600000000000}]}}`), DefaultPrefs())
	require.NoError(t, err)
	require.Len(t, st.Week.Days, 1)
	assert.True(t, st.Week.Days[0].Enabled)
	assert.Equal(t, time.Hour, st.Week.TotalTarget())
	assert.NotNil(t, st.History)
}

func TestDecode_InvertedIntervalIsSnapped(t *testing.T) {
	data := []byte(`{"week":{"days":[{"name":"Monday","enabled":true,"target":27360000000000,` +
		`"intervals":[{"start":"2025-03-10T17:00:00Z","end":"2025-03-10T09:00:00Z"}]}]}}`)
	st, err := Decode(data, DefaultPrefs())
	require.NoError(t, err)

	iv := st.Week.Days[0].Intervals[0]
	assert.False(t, iv.End.Before(iv.Start))
	assert.Equal(t, time.Duration(0), st.Week.Days[0].Duration())
	assert.Equal(t, worktime.DefaultDayTarget, st.Week.Todo())
}

func TestDecode_AppliesCurrentHistoryPrefs(t *testing.T) {
	p := DefaultPrefs()
	st := NewState(p)
	data, err := st.Encode()
	require.NoError(t, err)

	p.History.Debounce = 5 * time.Second
	got, err := Decode(data, p)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, got.History.Settings().Debounce)
}

func TestSave_Error(t *testing.T) {
	err := NewState(DefaultPrefs()).Save(brokenKV{})
	assert.ErrorContains(t, err, "save state")
}

func TestUndoRedo(t *testing.T) {
	st := NewState(DefaultPrefs())
	assert.False(t, st.CanUndo())

	st.Feed(0)
	a := st.Week.Clone()
	assert.False(t, st.CanUndo())

	st.Week.Days[0].AddIntervalAt(at(9, 0))
	assert.False(t, st.Feed(100*time.Millisecond), "inside the debounce window")
	assert.True(t, st.CanUndo(), "pending edit is undoable")

	require.True(t, st.Undo(200*time.Millisecond))
	assert.True(t, st.Week.Equal(a))
	assert.True(t, st.CanRedo())

	require.True(t, st.Redo())
	assert.Len(t, st.Week.Days[0].Intervals, 1)
	assert.False(t, st.CanRedo())

	require.True(t, st.Undo(300*time.Millisecond))
	assert.False(t, st.Undo(400*time.Millisecond), "nothing before the first entry")
}

func TestUndo_SingleEntryJournal(t *testing.T) {
	p := DefaultPrefs()
	p.History.MaxEntries = 1
	st := NewState(p)
	st.Feed(0)
	st.Week.Days[0].AddIntervalAt(at(9, 0))

	assert.False(t, st.CanUndo())
	assert.False(t, st.Undo(100*time.Millisecond))
	assert.Len(t, st.Week.Days[0].Intervals, 1)
	assert.Equal(t, 1, st.History.Len())
	assert.Equal(t, 0, st.History.Cursor())
}

func TestUndo_TwoEntryJournalKeepsPendingEdit(t *testing.T) {
	p := DefaultPrefs()
	p.History.MaxEntries = 2
	st := NewState(p)
	st.Feed(0)
	a := st.Week.Clone()
	st.Week.Days[0].AddIntervalAt(at(9, 0))

	require.True(t, st.CanUndo())
	require.True(t, st.Undo(100*time.Millisecond))
	assert.True(t, st.Week.Equal(a))
	require.True(t, st.Redo())
	assert.Len(t, st.Week.Days[0].Intervals, 1)
}

func TestCanRedo_FalseWithUnrecordedEdit(t *testing.T) {
	st := NewState(DefaultPrefs())
	st.Feed(0)
	st.Week.Days[1].Enabled = false
	st.Feed(2 * time.Second)
	st.Undo(3 * time.Second)
	require.True(t, st.CanRedo())

	st.Week.Days[2].Enabled = false
	assert.False(t, st.CanRedo())
}

func TestReset(t *testing.T) {
	p := DefaultPrefs()
	st := NewState(p)
	st.Feed(0)
	st.Week.Days[0].AddIntervalAt(at(9, 0))
	st.Feed(2 * time.Second)

	st.Reset(p)
	assert.True(t, st.Week.Equal(worktime.DefaultWeek(p.DefaultTarget)))
	assert.Zero(t, st.History.Len())
}
