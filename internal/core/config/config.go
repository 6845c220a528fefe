// Package config handles configuration loading and validation for tenrec.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/internal/core/validate"
	"github.com/hay-kot/tenrec/internal/integration/terminal"
)

// Config holds the application configuration.
type Config struct {
	HistoryLimit   int                  `yaml:"history_limit"`
	Monitor        MonitorConfig        `yaml:"monitor"`
	PromptPatterns []prompt.UserPattern `yaml:"prompt_patterns"`
	Tmux           TmuxConfig           `yaml:"tmux"`
	DataDir        string               `yaml:"-"` // set by caller, not from config file
}

// MonitorConfig controls the buffer monitor scan loop.
type MonitorConfig struct {
	ScanLines    int           `yaml:"scan_lines"`
	ScanInterval time.Duration `yaml:"scan_interval"`
}

// TmuxConfig holds tmux-related configuration.
type TmuxConfig struct {
	// Target is the default pane watched by `watch --tmux` when no target is
	// given on the command line.
	Target string `yaml:"target"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryLimit: history.DefaultLimit,
		Monitor: MonitorConfig{
			ScanLines:    terminal.DefaultScanLines,
			ScanInterval: terminal.DefaultScanInterval,
		},
		PromptPatterns: []prompt.UserPattern{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.HistoryLimit == 0 {
		c.HistoryLimit = defaults.HistoryLimit
	}
	if c.Monitor.ScanLines == 0 {
		c.Monitor.ScanLines = defaults.Monitor.ScanLines
	}
	if c.Monitor.ScanInterval == 0 {
		c.Monitor.ScanInterval = defaults.Monitor.ScanInterval
	}
}

// Validate rejects values the runtime cannot work with. Prompt patterns are
// not checked here; the engine skips bad ones and ValidateDeep reports them.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}
	if c.HistoryLimit < 1 {
		errs = errs.Append("history_limit", fmt.Errorf("must be at least 1, got %d", c.HistoryLimit))
	}
	if c.Monitor.ScanLines < 1 {
		errs = errs.Append("monitor.scan_lines", fmt.Errorf("must be at least 1, got %d", c.Monitor.ScanLines))
	}
	if c.Monitor.ScanInterval <= 0 {
		errs = errs.Append("monitor.scan_interval", fmt.Errorf("must be positive, got %s", c.Monitor.ScanInterval))
	}
	if c.Tmux.Target != "" {
		if err := validate.TmuxTarget(c.Tmux.Target); err != nil {
			errs = errs.Append("tmux.target", err)
		}
	}

	return errs.ToError()
}

// HistoryFile returns the path to the persisted command history.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

// MonitorOptions converts the monitor section for terminal.NewMonitor.
func (c *Config) MonitorOptions() terminal.MonitorOptions {
	return terminal.MonitorOptions{
		ScanLines:    c.Monitor.ScanLines,
		ScanInterval: c.Monitor.ScanInterval,
	}
}

// SessionOptions returns the options used for every terminal session.
func (c *Config) SessionOptions() terminal.Options {
	return terminal.Options{
		HistoryLimit: c.HistoryLimit,
		Monitor:      c.MonitorOptions(),
	}
}
