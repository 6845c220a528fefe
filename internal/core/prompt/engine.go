package prompt

import (
	"github.com/rs/zerolog"

	"github.com/hay-kot/tenrec/pkg/ansi"
)

// Match is the result of classifying one line.
type Match struct {
	Line     int      // index of the line within the scanned batch
	Text     string   // full line with escape sequences stripped
	Category Category // category of the winning rule
	Label    string   // label of the winning rule
}

// Engine classifies lines against an ordered rule list. Built-in rules come
// first, followed by user rules in the order supplied. An Engine is immutable
// after construction and safe for concurrent use.
type Engine struct {
	patterns []CompiledPattern
}

// NewEngine builds an engine from the built-in rules plus the valid entries
// of user. Invalid user entries are logged and skipped.
func NewEngine(log zerolog.Logger, user []UserPattern) *Engine {
	patterns := Builtins()

	for i, entry := range user {
		compiled, err := entry.Compile()
		if err != nil {
			log.Warn().
				Err(err).
				Int("index", i).
				Str("label", entry.Label).
				Msg("skipping invalid prompt pattern")
			continue
		}
		patterns = append(patterns, compiled)
	}

	log.Debug().
		Int("builtin", len(builtinPatterns)).
		Int("total", len(patterns)).
		Msg("prompt engine ready")

	return &Engine{patterns: patterns}
}

// Patterns returns a copy of the compiled rules in evaluation order.
func (e *Engine) Patterns() []CompiledPattern {
	out := make([]CompiledPattern, len(e.patterns))
	copy(out, e.patterns)
	return out
}

// Match classifies a single line. The line is stripped of escape sequences
// first and the first matching rule wins. ok is false for empty lines and
// lines no rule matches.
func (e *Engine) Match(line string, index int) (Match, bool) {
	clean := ansi.Strip(line)
	if clean == "" {
		return Match{}, false
	}

	for _, p := range e.patterns {
		if !p.Regexp.MatchString(clean) {
			continue
		}
		return Match{
			Line:     index,
			Text:     clean,
			Category: p.Category,
			Label:    p.Label,
		}, true
	}

	return Match{}, false
}

// MatchAll classifies every line and returns the matches in line order.
// Match.Line is the position of the line in lines.
func (e *Engine) MatchAll(lines []string) []Match {
	var matches []Match
	for i, line := range lines {
		if m, ok := e.Match(line, i); ok {
			matches = append(matches, m)
		}
	}
	return matches
}
