// Package terminal samples rendered terminal text for prompts that need the
// user's attention and publishes the result as observable per-session state.
package terminal

import "context"

// LineSource returns the most recent rendered lines of a terminal, oldest
// first. Implementations may return fewer than n lines.
type LineSource interface {
	LastLines(ctx context.Context, n int) ([]string, error)
}

// LineSourceFunc adapts a function to LineSource.
type LineSourceFunc func(ctx context.Context, n int) ([]string, error)

// LastLines calls f.
func (f LineSourceFunc) LastLines(ctx context.Context, n int) ([]string, error) {
	return f(ctx, n)
}

// StaticLines returns a LineSource that always yields the same lines.
func StaticLines(lines ...string) LineSource {
	return LineSourceFunc(func(context.Context, int) ([]string, error) {
		return lines, nil
	})
}
