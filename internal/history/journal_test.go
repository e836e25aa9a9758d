package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a minimal Snapshot used to exercise the journal without the
// worktime model.
type counter struct {
	N    int   `json:"n"`
	Tags []int `json:"tags"`
}

func (c counter) Equal(o counter) bool {
	if c.N != o.N || len(c.Tags) != len(o.Tags) {
		return false
	}
	for i := range c.Tags {
		if c.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}

func (c counter) Clone() counter {
	c.Tags = append([]int(nil), c.Tags...)
	return c
}

func newJournal() *Journal[counter] {
	return New[counter](Settings{Debounce: time.Second, MaxEntries: 10})
}

func TestFeed_FirstStateAlwaysRecorded(t *testing.T) {
	j := newJournal()
	assert.False(t, j.HasPrevious())
	assert.False(t, j.HasNext())

	assert.True(t, j.Feed(0, counter{N: 1}))
	assert.Equal(t, 1, j.Len())
	assert.False(t, j.HasPrevious())
	assert.False(t, j.HasNext())
}

func TestFeed_IdenticalStateIsNoop(t *testing.T) {
	j := newJournal()
	j.Feed(0, counter{N: 1})
	assert.False(t, j.Feed(10*time.Millisecond, counter{N: 1}))
	assert.False(t, j.Feed(time.Hour, counter{N: 1}))
	assert.Equal(t, 1, j.Len())
	assert.False(t, j.HasPrevious())
}

func TestFeed_DebounceCoalescesEdits(t *testing.T) {
	j := newJournal()
	j.Feed(0, counter{N: 1})

	assert.False(t, j.Feed(100*time.Millisecond, counter{N: 2}))
	assert.False(t, j.Feed(900*time.Millisecond, counter{N: 3}))
	assert.False(t, j.HasPrevious())

	assert.True(t, j.Feed(time.Second, counter{N: 4}))
	assert.True(t, j.HasPrevious())
	assert.Equal(t, 2, j.Len())
}

func TestStepBack_ReturnsPreviousState(t *testing.T) {
	j := newJournal()
	a := counter{N: 1, Tags: []int{1}}
	b := counter{N: 2, Tags: []int{1, 2}}
	j.Feed(0, a)
	j.Feed(2*time.Second, b)

	got, ok := j.StepBack()
	require.True(t, ok)
	assert.True(t, got.Equal(a))
	assert.False(t, j.HasPrevious())
	assert.True(t, j.HasNext())

	_, ok = j.StepBack()
	assert.False(t, ok, "nothing left to undo")

	got, ok = j.StepForward()
	require.True(t, ok)
	assert.True(t, got.Equal(b))
	_, ok = j.StepForward()
	assert.False(t, ok, "nothing left to redo")
}

func TestRecordAfterUndoDropsFuture(t *testing.T) {
	j := newJournal()
	j.Feed(0, counter{N: 1})
	j.Feed(2*time.Second, counter{N: 2})
	j.Feed(4*time.Second, counter{N: 3})

	j.StepBack()
	j.StepBack()
	require.Equal(t, 0, j.Cursor())

	// The live state equals the cursor entry: nothing to record.
	assert.False(t, j.Feed(6*time.Second, counter{N: 1}))
	assert.True(t, j.HasNext())

	assert.True(t, j.Feed(6*time.Second, counter{N: 9}))
	assert.False(t, j.HasNext())
	assert.Equal(t, 2, j.Len())

	got, ok := j.StepBack()
	require.True(t, ok)
	assert.Equal(t, 1, got.N)
}

func TestRecord_IgnoresDebounce(t *testing.T) {
	j := newJournal()
	j.Feed(0, counter{N: 1})
	assert.False(t, j.Feed(10*time.Millisecond, counter{N: 2}))
	assert.True(t, j.Record(10*time.Millisecond, counter{N: 2}))
	assert.False(t, j.Record(20*time.Millisecond, counter{N: 2}))

	got, ok := j.StepBack()
	require.True(t, ok)
	assert.Equal(t, 1, got.N)
}

func TestFeed_ClockRestartCountsAsElapsed(t *testing.T) {
	j := newJournal()
	j.Feed(time.Hour, counter{N: 1})
	assert.True(t, j.Feed(0, counter{N: 2}))
}

func TestSnapshotsAreIndependent(t *testing.T) {
	j := newJournal()
	live := counter{N: 1, Tags: []int{1}}
	j.Feed(0, live)
	live.Tags[0] = 99

	cur, ok := j.Current()
	require.True(t, ok)
	assert.Equal(t, []int{1}, cur.Tags)

	cur.Tags[0] = 7
	again, _ := j.Current()
	assert.Equal(t, []int{1}, again.Tags)
}

func TestMaxEntriesDropsOldest(t *testing.T) {
	j := New[counter](Settings{Debounce: 0, MaxEntries: 3})
	for i := 0; i < 5; i++ {
		j.Feed(time.Duration(i)*time.Second, counter{N: i})
	}
	assert.Equal(t, 3, j.Len())
	assert.Equal(t, 2, j.Cursor())

	j.StepBack()
	got, ok := j.StepBack()
	require.True(t, ok)
	assert.Equal(t, 2, got.N)
	assert.False(t, j.HasPrevious())
}

func TestSetSettingsTrims(t *testing.T) {
	j := New[counter](Settings{})
	for i := 0; i < 5; i++ {
		j.Feed(time.Duration(i), counter{N: i})
	}
	j.SetSettings(Settings{MaxEntries: 2})
	assert.Equal(t, 2, j.Len())
	cur, _ := j.Current()
	assert.Equal(t, 4, cur.N)
}

func TestJSONRoundTrip(t *testing.T) {
	j := newJournal()
	j.Feed(0, counter{N: 1})
	j.Feed(2*time.Second, counter{N: 2, Tags: []int{5}})
	j.StepBack()

	data, err := json.Marshal(j)
	require.NoError(t, err)

	got := New[counter](DefaultSettings())
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, j.Settings(), got.Settings())
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 0, got.Cursor())
	assert.True(t, got.HasNext())

	next, ok := got.StepForward()
	require.True(t, ok)
	assert.Equal(t, []int{5}, next.Tags)
}

func TestUnmarshalRejectsBadCursor(t *testing.T) {
	got := New[counter](DefaultSettings())
	err := json.Unmarshal([]byte(`{"cursor":3,"entries":[{"at":0,"state":{"n":1}}]}`), got)
	assert.ErrorIs(t, err, ErrCorrupt)

	err = json.Unmarshal([]byte(`{"cursor":"x"}`), got)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalEmpty(t *testing.T) {
	got := New[counter](DefaultSettings())
	require.NoError(t, json.Unmarshal([]byte(`{}`), got))
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, DefaultSettings(), got.Settings())
	assert.True(t, got.Feed(0, counter{N: 1}))
}
