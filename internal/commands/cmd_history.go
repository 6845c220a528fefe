package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	clear  bool
	failed bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage recorded commands",
		UsageText: "tenrec history [options]",
		Description: `View or manage commands recorded by 'tenrec watch'.

By default, lists recorded commands with their exit status, duration and
finish time, newest first.
Use --failed to show only the most recent failed command.
Use --clear to remove all history records.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear all recorded commands",
				Destination: &cmd.clear,
			},
			&cli.BoolFlag{
				Name:        "failed",
				Usage:       "show only the most recent failed command",
				Destination: &cmd.failed,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.clear {
		return cmd.runClear(ctx, p)
	}

	return cmd.runList(ctx, c, p)
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command, p *printer.Printer) error {
	var records []history.Record

	if cmd.failed {
		rec, err := cmd.flags.HistoryStore.LastFailed(ctx)
		if errors.Is(err, history.ErrNotFound) {
			p.Infof("No failed commands")
			return nil
		}
		if err != nil {
			return fmt.Errorf("find last failed: %w", err)
		}
		records = []history.Record{rec}
	} else {
		var err error
		records, err = cmd.flags.HistoryStore.List(ctx)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
	}

	if len(records) == 0 {
		p.Infof("No command history")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSESSION\tCOMMAND\tSTATUS\tDURATION\tFINISHED")

	for _, rec := range records {
		status := p.StatusOK()
		if rec.Failed() {
			status = p.StatusFailed(fmt.Sprintf("exit %d", *rec.ExitCode))
		}

		cmdStr := rec.CommandString()
		if cmdStr == "" {
			cmdStr = "-"
		} else if len(cmdStr) > 50 {
			cmdStr = cmdStr[:47] + "..."
		}

		session := rec.Session
		if session == "" {
			session = "-"
		}

		duration := "-"
		if d, ok := rec.Duration(); ok {
			duration = d.Round(time.Millisecond).String()
		}

		finished := "-"
		if rec.FinishedAt != nil {
			finished = rec.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(rec.ID),
			session,
			cmdStr,
			status,
			duration,
			finished,
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, p *printer.Printer) error {
	if err := cmd.flags.HistoryStore.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	p.Successf("Command history cleared")
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
