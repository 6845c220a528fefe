package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tenrec/internal/core/config"
	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/internal/store/jsonfile"
	"github.com/hay-kot/tenrec/pkg/executil"
)

func TestRunAllAndSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.PromptPatterns = []prompt.UserPattern{{Pattern: "[bad", Label: "Bad"}}

	results := RunAll(context.Background(), []Check{
		NewConfigCheck(&cfg, ""),
		NewTmuxCheck(&executil.RecordingExecutor{
			Errors: map[string]error{"tmux": errors.New("not found")},
		}, ""),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "Configuration", results[0].Name)
	assert.Equal(t, "Tmux", results[1].Name)
	assert.Equal(t, StatusFail, results[0].Worst())
	assert.Equal(t, StatusWarn, results[1].Worst())

	counts := Summary(results)
	assert.Equal(t, Counts{Passed: 1, Warned: 1, Failed: 1}, counts)
	assert.False(t, counts.Healthy())
}

type panicCheck struct{}

func (panicCheck) Name() string { return "Broken" }

func (panicCheck) Run(context.Context) Result { panic("boom") }

func TestRunAll_RecoversPanic(t *testing.T) {
	results := RunAll(context.Background(), []Check{panicCheck{}})

	require.Len(t, results, 1)
	assert.Equal(t, "Broken", results[0].Name)
	assert.Equal(t, StatusFail, results[0].Worst())
	assert.Equal(t, "boom", results[0].Items[0].Detail)
}

func TestItem_JSONStatus(t *testing.T) {
	data, err := json.Marshal(warn("tmux installed", "missing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"tmux installed","status":"warn","detail":"missing"}`, string(data))
}

func TestResult_WorstEmpty(t *testing.T) {
	assert.Equal(t, StatusPass, Result{}.Worst())
}

func TestConfigCheck_NilConfig(t *testing.T) {
	result := NewConfigCheck(nil, "").Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestConfigCheck_Valid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(&cfg, "").Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "Config valid", result.Items[1].Label)
	assert.Equal(t, StatusPass, result.Items[1].Status)
}

func TestTmuxCheck(t *testing.T) {
	t.Run("installed without target", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Outputs: map[string][]byte{"tmux": []byte("tmux 3.4\n")}}

		result := NewTmuxCheck(rec, "").Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, "tmux 3.4", result.Items[0].Detail)
	})

	t.Run("target readable", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Outputs: map[string][]byte{"tmux": []byte("$ \n")}}

		result := NewTmuxCheck(rec, "work").Run(context.Background())

		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[1].Status)
		require.Len(t, rec.Commands, 2)
		assert.Equal(t, "capture-pane", rec.Commands[1].Args[0])
	})
}

func TestHistoryCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	store := jsonfile.NewHistoryStore(path, 0)

	code := int32(1)
	require.NoError(t, store.Save(context.Background(), history.Record{ID: "a", ExitCode: &code}))

	ok := NewHistoryCheck(store).Run(context.Background())
	require.Len(t, ok.Items, 1)
	assert.Equal(t, StatusPass, ok.Items[0].Status)
	assert.Equal(t, path+" (1 record(s), 1 failed)", ok.Items[0].Detail)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	broken := NewHistoryCheck(jsonfile.NewHistoryStore(bad, 0)).Run(context.Background())
	assert.Equal(t, StatusFail, broken.Items[0].Status)
}
