// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// SessionName validates a session name is non-empty after trimming whitespace
// and contains no control characters.
func SessionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("name %q contains control characters", name)
	}
	return nil
}

// TmuxTarget validates a tmux target (session, session:window or
// session:window.pane). Targets are passed as a single argument to tmux, so
// whitespace and a leading dash are rejected.
func TmuxTarget(target string) error {
	if target == "" {
		return fmt.Errorf("target is required")
	}
	if strings.HasPrefix(target, "-") {
		return fmt.Errorf("target %q must not start with '-'", target)
	}
	if strings.IndexFunc(target, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("target %q must not contain whitespace", target)
	}
	return nil
}
