package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tenrec/internal/core/config"
	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/internal/printer"
	"github.com/hay-kot/tenrec/internal/styles"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate configuration file",
				UsageText: "tenrec config validate [options]",
				Description: `Validates the configuration file.

Every user prompt pattern is compiled and listed with the category its matches
will be reported under. File paths and monitor settings are checked, and the
number of rules the prompt engine will evaluate is reported.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// patternReport is the outcome of compiling one user prompt pattern.
type patternReport struct {
	Field    string          `json:"field"`
	Label    string          `json:"label"`
	Category prompt.Category `json:"category"`
	Valid    bool            `json:"valid"`
	Error    string          `json:"error,omitempty"`
}

type fieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateReport struct {
	Valid        bool                       `json:"valid"`
	BuiltinRules int                        `json:"builtin_rules"`
	ActiveRules  int                        `json:"active_rules"`
	Patterns     []patternReport            `json:"patterns,omitempty"`
	Errors       []fieldMessage             `json:"errors,omitempty"`
	Warnings     []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := buildValidateReport(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	return cmd.outputText(printer.Ctx(ctx), report)
}

func buildValidateReport(cfg *config.Config, configPath string) validateReport {
	err := cfg.ValidateDeep(configPath)

	// invalid patterns are reported below; the engine only needs the count
	engine := prompt.NewEngine(zerolog.Nop(), cfg.PromptPatterns)

	report := validateReport{
		Valid:        err == nil,
		BuiltinRules: len(prompt.Builtins()),
		ActiveRules:  len(engine.Patterns()),
		Warnings:     cfg.Warnings(),
	}

	for i, up := range cfg.PromptPatterns {
		category, _ := prompt.ParseCategory(up.Category)
		pr := patternReport{
			Field:    config.PatternField(i),
			Label:    up.Label,
			Category: category,
			Valid:    true,
		}
		if _, cerr := up.Compile(); cerr != nil {
			pr.Valid, pr.Error = false, cerr.Error()
		}
		report.Patterns = append(report.Patterns, pr)
	}

	for _, fe := range config.FieldErrors(err) {
		report.Errors = append(report.Errors, fieldMessage{Field: fe.Field, Message: fe.Err.Error()})
	}

	return report
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, r validateReport) error {
	p.Section(fmt.Sprintf("Prompt rules (%d active, %d built-in)", r.ActiveRules, r.BuiltinRules))
	if len(r.Patterns) == 0 {
		p.Printf("  no user patterns")
	}
	for _, pr := range r.Patterns {
		label := pr.Field + " " + pr.Label
		if pr.Valid {
			p.CheckItem(label, styles.Category(pr.Category))
		} else {
			p.FailItem(label, pr.Error)
		}
	}

	// pattern errors are already shown above
	var other []fieldMessage
	for _, fe := range r.Errors {
		if !strings.HasPrefix(fe.Field, "prompt_patterns[") {
			other = append(other, fe)
		}
	}

	if len(other) > 0 {
		p.Printf("")
		p.Section("Errors")
		for _, fe := range other {
			label := fe.Field
			if label == "" {
				label = "config"
			}
			p.FailItem(label, fe.Message)
		}
	}

	if len(r.Warnings) > 0 {
		p.Printf("")
		p.Section("Warnings")
		for _, w := range r.Warnings {
			label := w.Category
			if w.Item != "" {
				label += " " + w.Item
			}
			p.WarnItem(label, w.Message)
		}
	}

	p.Printf("")
	if r.Valid {
		if len(r.Warnings) > 0 {
			p.Successf("Configuration is valid (%d warning(s))", len(r.Warnings))
		} else {
			p.Successf("Configuration is valid")
		}
		return nil
	}

	p.Errorf("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	return cli.Exit("", 1)
}
