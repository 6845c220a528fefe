package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// UserPattern is an externally supplied classification rule, typically read
// from the config file.
type UserPattern struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Label    string `yaml:"label" json:"label"`
	Category string `yaml:"category" json:"category"`
}

// Compile validates the entry and compiles it. Unknown or empty categories
// compile to CategoryUnknown.
func (u UserPattern) Compile() (CompiledPattern, error) {
	if strings.TrimSpace(u.Pattern) == "" {
		return CompiledPattern{}, fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(u.Label) == "" {
		return CompiledPattern{}, fmt.Errorf("label is required")
	}

	re, err := regexp.Compile(u.Pattern)
	if err != nil {
		return CompiledPattern{}, fmt.Errorf("compile %q: %w", u.Pattern, err)
	}

	category, _ := ParseCategory(u.Category)
	return CompiledPattern{Regexp: re, Category: category, Label: u.Label}, nil
}

// CompiledPattern is a ready-to-evaluate rule. Immutable after construction.
type CompiledPattern struct {
	Regexp   *regexp.Regexp
	Category Category
	Label    string
}

// builtinRule is the source form of a built-in rule.
type builtinRule struct {
	label    string
	pattern  string
	category Category
}

// builtinRules are ordered most-specific first; the first hit wins, so
// reordering changes classification results.
var builtinRules = []builtinRule{
	{label: "Tool-approval prompt", pattern: `Do you want to run`, category: CategoryToolApproval},
	{label: "Allow/Deny", pattern: `(?i)(allow|deny|permit|reject)`, category: CategoryAuthorization},
	{label: "Overwrite", pattern: `(?i)overwrite.*\?`, category: CategoryConfirmation},
	{label: "Proceed/Continue", pattern: `(?i)do you want to (proceed|continue)`, category: CategoryConfirmation},
	{label: "Yes/No prompt", pattern: `(?i)\(y(?:es)?/n(?:o)?\)`, category: CategoryConfirmation},
	{label: "Y/N bracket", pattern: `\[Y/n\]|\[y/N\]`, category: CategoryConfirmation},
	{label: "Press Enter", pattern: `(?i)press (enter|return) to continue`, category: CategoryContinuation},
	{label: "Password prompt", pattern: `(?i)(password|passphrase):?\s*$`, category: CategoryCredential},
}

// builtinPatterns is compiled once at package init.
var builtinPatterns = compileBuiltins()

func compileBuiltins() []CompiledPattern {
	out := make([]CompiledPattern, 0, len(builtinRules))
	for _, r := range builtinRules {
		out = append(out, CompiledPattern{
			Regexp:   regexp.MustCompile(r.pattern),
			Category: r.category,
			Label:    r.label,
		})
	}
	return out
}

// Builtins returns a copy of the built-in rules in evaluation order.
func Builtins() []CompiledPattern {
	out := make([]CompiledPattern, len(builtinPatterns))
	copy(out, builtinPatterns)
	return out
}
