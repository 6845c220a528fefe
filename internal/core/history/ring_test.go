package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finished(code int32) Record {
	now := time.Now()
	return NewFinished(nil, code, now.Add(-time.Second), now)
}

func TestRing_PushMostRecentFirst(t *testing.T) {
	r := NewRing(10)

	r.Push(finished(1))
	r.Push(finished(2))
	r.Push(finished(3))

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int32(3), *snap[0].ExitCode)
	assert.Equal(t, int32(2), *snap[1].ExitCode)
	assert.Equal(t, int32(1), *snap[2].ExitCode)

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, int32(3), *latest.ExitCode)
}

func TestRing_EvictsOldest(t *testing.T) {
	r := NewRing(3)

	for i := range 7 {
		r.Push(finished(int32(i)))
	}

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int32(6), *snap[0].ExitCode)
	assert.Equal(t, int32(5), *snap[1].ExitCode)
	assert.Equal(t, int32(4), *snap[2].ExitCode)
}

func TestRing_DefaultLimit(t *testing.T) {
	for _, limit := range []int{0, -4} {
		r := NewRing(limit)
		for i := range DefaultLimit + 5 {
			r.Push(finished(int32(i)))
		}
		assert.Equal(t, DefaultLimit, r.Len())
	}
}

func TestRing_SnapshotIsCopy(t *testing.T) {
	r := NewRing(2)
	r.Push(finished(0))

	snap := r.Snapshot()
	snap[0].ID = "mutated"

	latest, _ := r.Latest()
	assert.NotEqual(t, "mutated", latest.ID)
}

func TestRing_Reset(t *testing.T) {
	r := NewRing(2)
	r.Push(finished(0))
	r.Reset()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Latest()
	assert.False(t, ok)
}

func TestRecord_Duration(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := NewFinished(nil, 0, start, start.Add(1500*time.Millisecond))

	d, ok := rec.Duration()
	require.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, ok = Record{StartedAt: start}.Duration()
	assert.False(t, ok)
}

func TestRecord_Failed(t *testing.T) {
	assert.False(t, finished(0).Failed())
	assert.True(t, finished(127).Failed())
	assert.True(t, finished(-1).Failed())
	assert.False(t, Record{}.Failed())
}

func TestRecord_CommandString(t *testing.T) {
	cmd := "make test"
	rec := NewFinished(&cmd, 0, time.Now(), time.Now())
	assert.Equal(t, "make test", rec.CommandString())
	assert.Equal(t, "", finished(0).CommandString())
}

func TestNewFinished_UniqueIDs(t *testing.T) {
	a, b := finished(0), finished(0)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
