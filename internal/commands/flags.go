package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/hay-kot/tenrec/internal/core/config"
	"github.com/hay-kot/tenrec/internal/core/history"
	"github.com/hay-kot/tenrec/internal/core/prompt"
	"github.com/hay-kot/tenrec/pkg/executil"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// HistoryStore persists commands observed by watch
	HistoryStore history.Store

	// Exec runs external tools such as tmux
	Exec executil.Executor
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tenrec", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tenrec")
}

// Engine builds a prompt engine from the built-in rules and the configured
// user patterns.
func (f *Flags) Engine() *prompt.Engine {
	var user []prompt.UserPattern
	if f.Config != nil {
		user = f.Config.PromptPatterns
	}
	return prompt.NewEngine(log.With().Str("component", "prompt").Logger(), user)
}

// isInteractive reports whether r is a terminal rather than a pipe or file.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
