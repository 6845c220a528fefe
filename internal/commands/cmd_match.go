package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/internal/core/validate"
	"github.com/hay-kot/tenrec/internal/integration/terminal"
	"github.com/hay-kot/tenrec/internal/integration/terminal/tmux"
	"github.com/hay-kot/tenrec/internal/printer"
	"github.com/hay-kot/tenrec/internal/styles"
)

type MatchCmd struct {
	flags *Flags

	// Command-specific flags
	target string
	format string
}

// NewMatchCmd creates a new match command
func NewMatchCmd(flags *Flags) *MatchCmd {
	return &MatchCmd{flags: flags}
}

// Register adds the match command to the application
func (cmd *MatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "match",
		Usage:     "Classify lines as input prompts",
		UsageText: "tenrec match [options] [lines...]",
		Description: `Runs the prompt pattern engine over lines of terminal text.

Lines are taken from the arguments, or from stdin when no arguments are given.
Escape sequences are stripped before matching. Every matching line is printed.

With --tmux, the last lines of the given pane are sampled once and only the
prompt nearest the cursor is reported.

Exits with status 1 when nothing matches.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "tmux",
				Usage:       "sample a tmux pane (session, session:window or session:window.pane)",
				Destination: &cmd.target,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MatchCmd) run(ctx context.Context, c *cli.Command) error {
	var (
		matches []prompt.Match
		err     error
	)

	switch {
	case cmd.target != "":
		matches, err = cmd.scanPane(ctx)
	case c.Args().Len() > 0:
		matches = cmd.flags.Engine().MatchAll(c.Args().Slice())
	default:
		matches, err = cmd.matchReader(c.Root().Reader)
	}
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		if err := writeMatchesJSON(c.Root().Writer, matches); err != nil {
			return err
		}
	} else if len(matches) == 0 {
		printer.Ctx(ctx).Infof("No prompts found")
	} else if err := writeMatchesTable(c.Root().Writer, matches); err != nil {
		return err
	}

	if len(matches) == 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *MatchCmd) matchReader(r io.Reader) ([]prompt.Match, error) {
	if r == nil || isInteractive(r) {
		return nil, fmt.Errorf("no input: pass lines as arguments or pipe text on stdin")
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return cmd.flags.Engine().MatchAll(lines), nil
}

// scanPane runs a single monitor scan against the pane and returns the
// published prompt, if any.
func (cmd *MatchCmd) scanPane(ctx context.Context) ([]prompt.Match, error) {
	if err := validate.TmuxTarget(cmd.target); err != nil {
		return nil, err
	}

	var (
		pane   = tmux.New(cmd.flags.Exec, cmd.target)
		srcErr error
	)

	src := terminal.LineSourceFunc(func(ctx context.Context, n int) ([]string, error) {
		lines, err := pane.LastLines(ctx, n)
		srcErr = err
		return lines, err
	})

	state := terminal.NewBufferState(cmd.flags.Config.HistoryLimit)
	mon := terminal.NewMonitor(
		log.With().Str("component", "monitor").Str("target", cmd.target).Logger(),
		cmd.flags.Engine(),
		state,
		cmd.flags.Config.MonitorOptions(),
	)
	mon.SetSource(src)
	mon.Scan(ctx)

	if srcErr != nil {
		return nil, srcErr
	}

	snap := state.Snapshot()
	if !snap.HasPendingInput {
		return nil, nil
	}
	return []prompt.Match{{
		Line:     -1,
		Text:     *snap.PendingText,
		Category: *snap.PendingCategory,
	}}, nil
}

func writeMatchesJSON(w io.Writer, matches []prompt.Match) error {
	type matchJSON struct {
		Line     *int   `json:"line,omitempty"`
		Text     string `json:"text"`
		Category string `json:"category"`
		Label    string `json:"label,omitempty"`
	}

	out := make([]matchJSON, 0, len(matches))
	for _, m := range matches {
		mj := matchJSON{Text: m.Text, Category: m.Category.String(), Label: m.Label}
		if m.Line >= 0 {
			line := m.Line
			mj.Line = &line
		}
		out = append(out, mj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeMatchesTable(w io.Writer, matches []prompt.Match) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LINE\tCATEGORY\tLABEL\tTEXT")

	for _, m := range matches {
		line := "-"
		if m.Line >= 0 {
			line = fmt.Sprintf("%d", m.Line)
		}
		label := m.Label
		if label == "" {
			label = "-"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			styles.DimStyle.Render(line),
			styles.Category(m.Category),
			styles.LabelStyle.Render(label),
			styles.TextStyle.Render(m.Text),
		)
	}

	return tw.Flush()
}
