package commands

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/core/config"
	"github.com/hay-kot/tenrec/internal/printer"
	"github.com/hay-kot/tenrec/internal/store/jsonfile"
	"github.com/hay-kot/tenrec/pkg/executil"
)

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

// testFlags returns flags wired the way main wires them, with file stores in
// a temp dir and a recording executor.
func testFlags(t *testing.T) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	return &Flags{
		ConfigPath:   filepath.Join(t.TempDir(), "config.yaml"),
		DataDir:      cfg.DataDir,
		Config:       &cfg,
		HistoryStore: jsonfile.NewHistoryStore(cfg.HistoryFile(), cfg.HistoryLimit),
		Exec:         &executil.RecordingExecutor{},
	}
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// syncBuffer is a bytes.Buffer safe to read while a command writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runCmd runs a single registered command with the given stdin.
func runCmd(t *testing.T, r registrar, stdin io.Reader, args ...string) runResult {
	t.Helper()
	_, result := startCmd(context.Background(), r, stdin, args...)
	return <-result
}

// startCmd runs a command in the background. The returned buffer is the live
// stderr; the channel yields the result once the command returns.
func startCmd(ctx context.Context, r registrar, stdin io.Reader, args ...string) (*syncBuffer, <-chan runResult) {
	var stdout, stderr syncBuffer
	app := &cli.Command{
		Name:           "tenrec",
		Reader:         stdin,
		Writer:         &stdout,
		ErrWriter:      &stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = r.Register(app)

	result := make(chan runResult, 1)
	go func() {
		ctx := printer.NewContext(ctx, printer.New(&stderr))
		err := app.Run(ctx, append([]string{"tenrec"}, args...))
		result <- runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
	}()

	return &stderr, result
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.ExitCode())
}

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)
