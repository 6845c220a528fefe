package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tenrec/internal/core/history"
)

func saveRecord(t *testing.T, flags *Flags, cmdText string, code int32) history.Record {
	t.Helper()
	start := time.Now().Add(-3 * time.Second)
	rec := history.NewFinished(&cmdText, code, start, start.Add(1500*time.Millisecond))
	rec.Session = "main"
	require.NoError(t, flags.HistoryStore.Save(context.Background(), rec))
	return rec
}

func TestHistoryCmd_List(t *testing.T) {
	flags := testFlags(t)
	first := saveRecord(t, flags, "make test", 0)
	saveRecord(t, flags, "go vet ./...", 1)

	res := runCmd(t, NewHistoryCmd(flags), nil, "history")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "SESSION")
	assert.Contains(t, res.stdout, first.ID[:8])
	assert.Contains(t, res.stdout, "make test")
	assert.Contains(t, res.stdout, "exit 1")
	assert.Contains(t, res.stdout, "1.5s")
}

func TestHistoryCmd_Empty(t *testing.T) {
	flags := testFlags(t)

	res := runCmd(t, NewHistoryCmd(flags), nil, "history")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No command history")
}

func TestHistoryCmd_Failed(t *testing.T) {
	flags := testFlags(t)
	saveRecord(t, flags, "false", 1)
	saveRecord(t, flags, "true", 0)

	res := runCmd(t, NewHistoryCmd(flags), nil, "history", "--failed")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "false")
	assert.NotContains(t, res.stdout, "true")
}

func TestHistoryCmd_FailedNone(t *testing.T) {
	flags := testFlags(t)
	saveRecord(t, flags, "true", 0)

	res := runCmd(t, NewHistoryCmd(flags), nil, "history", "--failed")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "No failed commands")
}

func TestHistoryCmd_Clear(t *testing.T) {
	flags := testFlags(t)
	saveRecord(t, flags, "ls", 0)

	res := runCmd(t, NewHistoryCmd(flags), nil, "history", "--clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Command history cleared")

	recs, err := flags.HistoryStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
