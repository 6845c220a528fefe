package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/tenrec/internal/core/config"
	"github.com/hay-kot/tenrec/internal/core/prompt"
)

// ConfigCheck validates the configuration file and its prompt patterns.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.add(fail("Config loaded", "configuration not loaded"))
		return result
	}

	result.add(pass("Prompt patterns",
		fmt.Sprintf("%d built-in, %d user-defined", len(prompt.Builtins()), len(c.config.PromptPatterns))))

	err := c.config.ValidateDeep(c.configPath)
	warnings := c.config.Warnings()

	if err == nil && len(warnings) == 0 {
		result.add(pass("Config valid", ""))
		return result
	}

	for _, fe := range config.FieldErrors(err) {
		label := fe.Field
		if label == "" {
			label = "validation"
		}
		result.add(fail(label, fe.Err.Error()))
	}

	for _, w := range warnings {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.add(warn(label, w.Message))
	}

	return result
}
