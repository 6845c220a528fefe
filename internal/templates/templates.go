// Package templates renders the shell snippets that make a shell emit
// OSC 133 command lifecycle marks.
package templates

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/hay-kot/tenrec/pkg/tmpl"
)

//go:embed shell/*.sh.tmpl
var shellFS embed.FS

// DefaultPrefix namespaces the shell functions and variables defined by a
// snippet.
const DefaultPrefix = "__tenrec"

// Shells lists the supported shells.
var Shells = []string{"bash", "zsh"}

// ShellData holds the values available to shell snippets.
type ShellData struct {
	// Prefix is prepended to every function and variable name.
	Prefix string
	// Session, when set, is exported as TENREC_SESSION.
	Session string
}

// RenderShell renders the integration snippet for shell.
func RenderShell(shell string, data ShellData) (string, error) {
	shell = strings.ToLower(strings.TrimSpace(shell))
	if !slices.Contains(Shells, shell) {
		return "", fmt.Errorf("unsupported shell %q (supported: %s)", shell, strings.Join(Shells, ", "))
	}

	if data.Prefix == "" {
		data.Prefix = DefaultPrefix
	}
	if !validPrefix(data.Prefix) {
		return "", fmt.Errorf("invalid prefix %q: use letters, digits and underscores", data.Prefix)
	}

	raw, err := shellFS.ReadFile("shell/" + shell + ".sh.tmpl")
	if err != nil {
		return "", fmt.Errorf("read %s template: %w", shell, err)
	}

	return tmpl.Render(string(raw), data)
}

func validPrefix(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
