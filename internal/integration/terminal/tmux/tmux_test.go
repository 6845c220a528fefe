package tmux

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tenrec/pkg/executil"
)

func TestSource_LastLines(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"tmux": []byte("one\ntwo\nthree\nContinue? (y/n)\n\n\n\n"),
		},
	}
	src := New(rec, "work:1.0")

	lines, err := src.LastLines(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "Continue? (y/n)"}, lines)

	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "tmux", rec.Commands[0].Cmd)
	assert.Equal(t, []string{"capture-pane", "-t", "work:1.0", "-p", "-J"}, rec.Commands[0].Args)
}

func TestSource_LastLinesError(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Errors: map[string]error{"tmux": errors.New("can't find pane")},
	}
	src := New(rec, "gone")

	_, err := src.LastLines(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture-pane gone")
}

func TestLastLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []string
	}{
		{name: "empty", content: "", n: 5, want: nil},
		{name: "only blank", content: "\n  \n\n", n: 5, want: nil},
		{name: "fewer than n", content: "a\nb\n", n: 5, want: []string{"a", "b"}},
		{name: "crlf", content: "a\r\nb\r\nc\r\n", n: 2, want: []string{"b", "c"}},
		{name: "keeps inner blanks", content: "a\n\nb\n\n", n: 3, want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastLines(tt.content, tt.n))
		})
	}
}

func TestAvailable(t *testing.T) {
	assert.True(t, Available(context.Background(), &executil.RecordingExecutor{}))
	assert.False(t, Available(context.Background(), &executil.RecordingExecutor{
		Errors: map[string]error{"tmux": errors.New("not found")},
	}))
}
