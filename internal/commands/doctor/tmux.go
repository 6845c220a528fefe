package doctor

import (
	"context"
	"strings"

	"github.com/hay-kot/tenrec/internal/integration/terminal/tmux"
	"github.com/hay-kot/tenrec/pkg/executil"
)

// TmuxCheck verifies tmux is usable as a line source.
type TmuxCheck struct {
	exec   executil.Executor
	target string
}

// NewTmuxCheck creates a tmux check. When target is set the pane is also
// sampled.
func NewTmuxCheck(exec executil.Executor, target string) *TmuxCheck {
	return &TmuxCheck{exec: exec, target: target}
}

func (c *TmuxCheck) Name() string {
	return "Tmux"
}

func (c *TmuxCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	out, err := c.exec.Run(ctx, "tmux", "-V")
	if err != nil {
		// tmux is optional; stdin watching works without it
		result.add(warn("tmux installed", "not found, pane monitoring is unavailable"))
		return result
	}

	result.add(pass("tmux installed", strings.TrimSpace(string(out))))

	if c.target == "" {
		return result
	}

	if _, err := tmux.New(c.exec, c.target).LastLines(ctx, 1); err != nil {
		result.add(fail("tmux.target", err.Error()))
		return result
	}

	result.add(pass("tmux.target", c.target+" is readable"))
	return result
}
