package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tenrec/internal/core/history"
)

func newRecord(cmd string, code int32) history.Record {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return history.NewFinished(&cmd, code, start, start.Add(2*time.Second))
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("list empty", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)

		recs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("save and get", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
		rec := newRecord("make test", 0)

		require.NoError(t, store.Save(ctx, rec))

		got, err := store.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "make test", got.CommandString())
		require.NotNil(t, got.ExitCode)
		assert.Equal(t, int32(0), *got.ExitCode)
		d, ok := got.Duration()
		require.True(t, ok)
		assert.Equal(t, 2*time.Second, d)
	})

	t.Run("get not found", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)

		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, history.ErrNotFound)
	})

	t.Run("newest first and pruned", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 2)

		for _, cmd := range []string{"one", "two", "three"} {
			require.NoError(t, store.Save(ctx, newRecord(cmd, 0)))
		}

		recs, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "three", recs[0].CommandString())
		assert.Equal(t, "two", recs[1].CommandString())
	})

	t.Run("last failed", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)

		_, err := store.LastFailed(ctx)
		require.ErrorIs(t, err, history.ErrNotFound)

		require.NoError(t, store.Save(ctx, newRecord("false", 1)))
		require.NoError(t, store.Save(ctx, newRecord("true", 0)))

		got, err := store.LastFailed(ctx)
		require.NoError(t, err)
		assert.Equal(t, "false", got.CommandString())
	})

	t.Run("clear", func(t *testing.T) {
		store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
		require.NoError(t, store.Save(ctx, newRecord("ls", 0)))

		require.NoError(t, store.Clear(ctx))

		recs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "history.json")
		store := NewHistoryStore(path, 0)

		require.NoError(t, store.Save(ctx, newRecord("ls", 0)))
		_, err := os.Stat(path)
		assert.NoError(t, err)
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temp file is renamed away")
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		store := NewHistoryStore(path, 0)

		_, err := store.List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupted")
	})
}
