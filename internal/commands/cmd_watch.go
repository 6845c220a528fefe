package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/core/shellint"
	"github.com/hay-kot/tenrec/internal/core/validate"
	"github.com/hay-kot/tenrec/internal/integration/terminal"
	"github.com/hay-kot/tenrec/internal/integration/terminal/tmux"
	"github.com/hay-kot/tenrec/internal/printer"
	"github.com/hay-kot/tenrec/internal/styles"
)

type WatchCmd struct {
	flags *Flags

	// Command-specific flags
	targets     []string
	session     string
	passthrough bool
	noSave      bool
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Extract command and prompt signals from a terminal",
		UsageText: "some-pty-recorder | tenrec watch [options]\n   tenrec watch --tmux <target> [--tmux <target>...]",
		Description: `Watches terminal output for shell-integration marks and input prompts.

When stdin is a pipe, raw terminal output is copied to stdout unchanged and
OSC 133 marks are decoded from it. Finished commands are reported on stderr
and saved to the history file.

With --tmux, each target pane is sampled periodically and prompts waiting for
input are reported as they appear and disappear. Whenever a pane is monitored,
watch runs until interrupted, even after stdin ends. Without piped input,
tmux.target from the config is used when no --tmux flag is given.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "tmux",
				Usage:       "tmux pane to monitor for prompts (repeatable)",
				Destination: &cmd.targets,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "session name recorded for commands read from stdin",
				Value:       "stdin",
				Destination: &cmd.session,
			},
			&cli.BoolFlag{
				Name:        "passthrough",
				Usage:       "copy stdin to stdout",
				Value:       true,
				Destination: &cmd.passthrough,
			},
			&cli.BoolFlag{
				Name:        "no-save",
				Usage:       "do not persist finished commands",
				Destination: &cmd.noSave,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	in := c.Root().Reader

	streaming := in != nil && !isInteractive(in)
	targets := cmd.targets
	if len(targets) == 0 && !streaming && cmd.flags.Config.Tmux.Target != "" {
		targets = []string{cmd.flags.Config.Tmux.Target}
	}
	if !streaming && len(targets) == 0 {
		return fmt.Errorf("nothing to watch: pipe terminal output on stdin or pass --tmux <target>")
	}
	if err := validateWatch(cmd.session, targets); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logger = log.With().Str("component", "watch").Logger()
		engine = cmd.flags.Engine()
		opts   = cmd.flags.Config.SessionOptions()
		mgr    = terminal.NewManager()
		unsubs []func()
		wg     sync.WaitGroup
	)

	defer func() {
		for _, s := range mgr.Pending() {
			p.Warnf("[%s] still waiting for input at exit", s.ID)
		}
		mgr.CloseAll()
		for _, unsub := range unsubs {
			unsub()
		}
		wg.Wait()
	}()

	for _, target := range targets {
		s := terminal.NewSession(logger, target, engine, opts)
		mgr.Register(s)

		updates, unsub := s.State.Subscribe()
		unsubs = append(unsubs, unsub)

		wg.Add(1)
		go func() {
			defer wg.Done()
			reportPrompts(p, s.ID, updates)
		}()

		// CloseAll stops the monitors after the pending check on exit
		s.Start(context.WithoutCancel(ctx), tmux.New(cmd.flags.Exec, target))
		p.Infof("monitoring %s every %s", target, opts.Monitor.ScanInterval)
	}

	if !streaming {
		<-ctx.Done()
		return nil
	}

	s := terminal.NewSession(logger, cmd.session, engine, opts)
	s.OnEvent(cmd.eventHandler(ctx, p))
	mgr.Register(s)

	var w io.Writer = s
	if cmd.passthrough {
		w = io.MultiWriter(c.Root().Writer, s)
	}

	if _, err := io.Copy(w, in); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read input: %w", err)
	}

	// stdin is often /dev/null under cron, systemd or tmux run-shell; pane
	// monitors keep running until interrupted.
	if len(targets) > 0 {
		logger.Debug().Str("session", cmd.session).Msg("input closed, still monitoring panes")
		<-ctx.Done()
	}
	return nil
}

func validateWatch(session string, targets []string) error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.SessionName(session); err != nil {
		errs = errs.Append("session", err)
	}
	for i, target := range targets {
		if err := validate.TmuxTarget(target); err != nil {
			errs = errs.Append(fmt.Sprintf("tmux[%d]", i), err)
		}
	}

	return errs.ToError()
}

// eventHandler reports and persists finished commands. Other marks are only
// logged by the session.
func (cmd *WatchCmd) eventHandler(ctx context.Context, p *printer.Printer) shellint.Handler {
	return func(ev shellint.Event) {
		if ev.Kind != shellint.EventCommandFinished || ev.Record == nil {
			return
		}
		rec := *ev.Record

		duration := "-"
		if d, ok := rec.Duration(); ok {
			duration = d.Round(time.Millisecond).String()
		}

		status := styles.ExitStyle(ev.ExitCode).Render(fmt.Sprintf("exit %d", ev.ExitCode))
		p.Printf("%s [%s] command finished: %s in %s", printer.Arrow, rec.Session, status, duration)

		if cmd.noSave || cmd.flags.HistoryStore == nil {
			return
		}
		if err := cmd.flags.HistoryStore.Save(ctx, rec); err != nil {
			log.Warn().Err(err).Str("id", rec.ID).Msg("failed to save history record")
		}
	}
}

// reportPrompts prints pending-input changes until updates is closed.
func reportPrompts(p *printer.Printer, id string, updates <-chan terminal.Snapshot) {
	var (
		pending bool
		last    string
	)

	for snap := range updates {
		switch {
		case snap.HasPendingInput && (!pending || *snap.PendingText != last):
			pending, last = true, *snap.PendingText
			p.Warnf("[%s] waiting for input (%s): %s", id, styles.Category(*snap.PendingCategory), last)
		case !snap.HasPendingInput && pending:
			pending, last = false, ""
			p.Infof("[%s] prompt cleared", id)
		}
	}
}
