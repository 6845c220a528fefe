package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/tenrec/internal/core/prompt"
)

// minScanInterval is the shortest interval that does not trigger a warning.
const minScanInterval = 100 * time.Millisecond

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks file access and compiles every prompt
// pattern. Returns criterio.FieldErrors when problems are found.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	errs = c.validateFileAccess(errs, configPath)
	errs = c.validatePromptPatterns(errs)

	var fieldErrs criterio.FieldErrors
	if err := c.Validate(); errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs = errs.Append(fe.Field, fe.Err)
		}
	}

	return errs.ToError()
}

// FieldErrors flattens a validation error into field errors. Errors that
// are not criterio.FieldErrors are returned as a single entry with no field.
func FieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

// PatternField returns the config path of the i-th user prompt pattern.
func PatternField(i int) string {
	return fmt.Sprintf("prompt_patterns[%d]", i)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	seen := make(map[string]int, len(c.PromptPatterns))
	for i, up := range c.PromptPatterns {
		key := strings.ToLower(strings.TrimSpace(up.Label))
		if prev, ok := seen[key]; ok && key != "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Prompt Patterns",
				Item:     PatternField(i),
				Message:  fmt.Sprintf("label %q is also used by %s", up.Label, PatternField(prev)),
			})
		} else {
			seen[key] = i
		}

		if up.Category == "" {
			continue
		}
		if _, ok := prompt.ParseCategory(up.Category); !ok {
			warnings = append(warnings, ValidationWarning{
				Category: "Prompt Patterns",
				Item:     PatternField(i),
				Message:  fmt.Sprintf("unknown category %q, matches will be reported as %q", up.Category, prompt.CategoryUnknown),
			})
		}
	}

	if c.Monitor.ScanInterval > 0 && c.Monitor.ScanInterval < minScanInterval {
		warnings = append(warnings, ValidationWarning{
			Category: "Monitor",
			Item:     "scan_interval",
			Message:  fmt.Sprintf("%s is shorter than %s and will sample the terminal very often", c.Monitor.ScanInterval, minScanInterval),
		})
	}

	if c.Tmux.Target != "" {
		if _, err := exec.LookPath("tmux"); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Tmux",
				Item:     "target",
				Message:  "tmux.target is set but tmux was not found in PATH",
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(errs criterio.FieldErrorsBuilder, configPath string) criterio.FieldErrorsBuilder {
	if configPath != "" {
		info, err := os.Stat(configPath)
		switch {
		case err == nil && info.IsDir():
			errs = errs.Append("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
		case err != nil && !os.IsNotExist(err):
			errs = errs.Append("config_file", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if c.DataDir != "" {
		info, err := os.Stat(c.DataDir)
		switch {
		case err == nil && !info.IsDir():
			errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
		case err != nil && !os.IsNotExist(err):
			errs = errs.Append("data_dir", fmt.Errorf("cannot access %s: %w", c.DataDir, err))
		}
	}

	return errs
}

// validatePromptPatterns reports every user pattern the engine would skip.
func (c *Config) validatePromptPatterns(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	for i, up := range c.PromptPatterns {
		if _, err := up.Compile(); err != nil {
			errs = errs.Append(PatternField(i), err)
		}
	}

	return errs
}
