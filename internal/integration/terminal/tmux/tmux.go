// Package tmux samples rendered pane content from tmux.
package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/hay-kot/tenrec/internal/integration/terminal"
	"github.com/hay-kot/tenrec/pkg/executil"
)

// Source implements terminal.LineSource for a single tmux target
// (session, session:window or session:window.pane).
type Source struct {
	exec   executil.Executor
	target string
}

// New creates a source reading the given tmux target.
func New(exec executil.Executor, target string) *Source {
	return &Source{exec: exec, target: target}
}

// Target returns the tmux target this source reads.
func (s *Source) Target() string {
	return s.target
}

// Available returns true if tmux is installed and accessible.
func Available(ctx context.Context, exec executil.Executor) bool {
	_, err := exec.Run(ctx, "tmux", "-V")
	return err == nil
}

// LastLines captures the pane and returns its last n non-blank-trailing
// lines. Blank rows below the cursor are dropped so the window ends at the
// most recent output.
func (s *Source) LastLines(ctx context.Context, n int) ([]string, error) {
	// -p: print to stdout
	// -J: join wrapped lines and trim trailing spaces
	out, err := s.exec.Run(ctx, "tmux", "capture-pane", "-t", s.target, "-p", "-J")
	if err != nil {
		return nil, fmt.Errorf("capture-pane %s: %w", s.target, err)
	}

	return lastLines(string(out), n), nil
}

// lastLines splits captured content and returns up to n lines ending at the
// last non-blank line.
func lastLines(content string, n int) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end == 0 {
		return nil
	}

	start := max(end-n, 0)
	return lines[start:end]
}

var _ terminal.LineSource = (*Source)(nil)
