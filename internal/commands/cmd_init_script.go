package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/templates"
)

type InitScriptCmd struct {
	flags *Flags

	// Command-specific flags
	prefix  string
	session string
}

// NewInitScriptCmd creates a new init-script command
func NewInitScriptCmd(flags *Flags) *InitScriptCmd {
	return &InitScriptCmd{flags: flags}
}

// Register adds the init-script command to the application
func (cmd *InitScriptCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init-script",
		Usage:     "Print shell integration for bash or zsh",
		UsageText: "tenrec init-script [options] [bash|zsh]",
		Description: `Prints a snippet that makes the shell emit OSC 133 marks around every
command, which 'tenrec watch' decodes into command history.

Add it to your shell startup file, for example:

  eval "$(tenrec init-script bash)"

The shell defaults to the basename of $SHELL.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "prefix",
				Usage:       "name prefix for the functions the snippet defines",
				Value:       templates.DefaultPrefix,
				Destination: &cmd.prefix,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "export TENREC_SESSION with this value",
				Destination: &cmd.session,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitScriptCmd) run(_ context.Context, c *cli.Command) error {
	shell := c.Args().First()
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	if shell == "" || shell == "." {
		return fmt.Errorf("cannot detect shell: pass bash or zsh")
	}

	script, err := templates.RenderShell(shell, templates.ShellData{
		Prefix:  cmd.prefix,
		Session: cmd.session,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(c.Root().Writer, script)
	return err
}
