package prompt

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, user ...UserPattern) *Engine {
	t.Helper()
	return NewEngine(zerolog.Nop(), user)
}

func TestEngine_Match(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantOK    bool
		wantCat   Category
		wantLabel string
	}{
		{
			name:      "tool approval beats generic confirmation",
			line:      "Do you want to run this tool?",
			wantOK:    true,
			wantCat:   CategoryToolApproval,
			wantLabel: "Tool-approval prompt",
		},
		{
			name:   "tool approval is case sensitive",
			line:   "do you want to run this?",
			wantOK: false,
		},
		{
			name:      "allow or deny beats y/n",
			line:      "Allow or Deny? (y/n)",
			wantOK:    true,
			wantCat:   CategoryAuthorization,
			wantLabel: "Allow/Deny",
		},
		{
			name:      "permit lowercase",
			line:      "permit access to keychain",
			wantOK:    true,
			wantCat:   CategoryAuthorization,
			wantLabel: "Allow/Deny",
		},
		{
			name:      "overwrite question",
			line:      "Overwrite existing file config.yaml?",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Overwrite",
		},
		{
			name:   "overwrite without question mark",
			line:   "overwrite complete",
			wantOK: false,
		},
		{
			name:      "do you want to continue",
			line:      "Do you want to continue",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Proceed/Continue",
		},
		{
			name:      "yes/no long form",
			line:      "Are you sure? (yes/no)",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Yes/No prompt",
		},
		{
			name:      "y/n uppercase",
			line:      "Install packages (Y/N)",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Yes/No prompt",
		},
		{
			name:      "bracket Y/n",
			line:      "Do you wish to install? [Y/n]",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Y/N bracket",
		},
		{
			name:      "bracket y/N",
			line:      "Remove 3 packages [y/N] ",
			wantOK:    true,
			wantCat:   CategoryConfirmation,
			wantLabel: "Y/N bracket",
		},
		{
			name:   "bracket form is case sensitive",
			line:   "choose [y/n]",
			wantOK: false,
		},
		{
			name:      "press return",
			line:      "Press RETURN to continue",
			wantOK:    true,
			wantCat:   CategoryContinuation,
			wantLabel: "Press Enter",
		},
		{
			name:      "password prompt",
			line:      "Password: ",
			wantOK:    true,
			wantCat:   CategoryCredential,
			wantLabel: "Password prompt",
		},
		{
			name:      "ssh password prompt",
			line:      "alice@build01's password:",
			wantOK:    true,
			wantCat:   CategoryCredential,
			wantLabel: "Password prompt",
		},
		{
			name:      "passphrase without colon",
			line:      "Enter passphrase",
			wantOK:    true,
			wantCat:   CategoryCredential,
			wantLabel: "Password prompt",
		},
		{
			name:      "colored password prompt reports stripped text",
			line:      "\x1b[1mPassword:\x1b[0m ",
			wantOK:    true,
			wantCat:   CategoryCredential,
			wantLabel: "Password prompt",
		},
		{
			name:   "password mid line",
			line:   "grep -r 'password' .",
			wantOK: false,
		},
		{
			name:   "plain output",
			line:   "downloading files...",
			wantOK: false,
		},
		{
			name:   "empty",
			line:   "",
			wantOK: false,
		},
		{
			name:   "only escapes",
			line:   "\x1b[0m\x1b[K",
			wantOK: false,
		},
	}

	engine := newTestEngine(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.Match(tt.line, 7)
			require.Equal(t, tt.wantOK, ok, "match for %q", tt.line)
			if !ok {
				return
			}
			assert.Equal(t, 7, got.Line)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.NotContains(t, got.Text, "\x1b")
		})
	}
}

func TestEngine_MatchReturnsCleanText(t *testing.T) {
	engine := newTestEngine(t)

	got, ok := engine.Match("\x1b[33mContinue? (y/n)\x1b[0m", 0)
	require.True(t, ok)
	assert.Equal(t, "Continue? (y/n)", got.Text)
}

func TestEngine_MatchAll(t *testing.T) {
	engine := newTestEngine(t)

	lines := []string{
		"$ ls",
		"file1.txt",
		"Continue? (y/n)",
		"$ cat f",
		"Password: ",
	}

	matches := engine.MatchAll(lines)
	require.Len(t, matches, 2)

	assert.Equal(t, 2, matches[0].Line)
	assert.Equal(t, CategoryConfirmation, matches[0].Category)
	assert.Equal(t, "Continue? (y/n)", matches[0].Text)

	assert.Equal(t, 4, matches[1].Line)
	assert.Equal(t, CategoryCredential, matches[1].Category)
}

func TestEngine_MatchAllNoMatches(t *testing.T) {
	engine := newTestEngine(t)

	assert.Empty(t, engine.MatchAll([]string{"$ make", "ok"}))
	assert.Empty(t, engine.MatchAll(nil))
}

func TestEngine_UserPatterns(t *testing.T) {
	engine := newTestEngine(t,
		UserPattern{Pattern: `(?i)approve this plan`, Label: "Plan approval", Category: "tool-approval"},
		UserPattern{Pattern: `^>>> $`, Label: "REPL", Category: "bogus"},
	)

	patterns := engine.Patterns()
	require.Len(t, patterns, len(Builtins())+2)

	got, ok := engine.Match("Approve this plan?", 0)
	require.True(t, ok)
	assert.Equal(t, "Plan approval", got.Label)
	assert.Equal(t, CategoryToolApproval, got.Category)

	got, ok = engine.Match(">>> ", 1)
	require.True(t, ok)
	assert.Equal(t, CategoryUnknown, got.Category)
}

func TestEngine_BuiltinsWinOverUserPatterns(t *testing.T) {
	engine := newTestEngine(t,
		UserPattern{Pattern: `Password`, Label: "Custom password", Category: "unknown"},
	)

	got, ok := engine.Match("Password:", 0)
	require.True(t, ok)
	assert.Equal(t, "Password prompt", got.Label)
}

func TestEngine_InvalidUserPatternsSkipped(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	engine := NewEngine(log, []UserPattern{
		{Pattern: "", Label: "empty pattern"},
		{Pattern: "foo", Label: ""},
		{Pattern: "(unclosed", Label: "bad regex"},
		{Pattern: "^ready>$", Label: "Ready"},
	})

	assert.Len(t, engine.Patterns(), len(Builtins())+1)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("skipping invalid prompt pattern")))

	_, ok := engine.Match("ready>", 0)
	assert.True(t, ok)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("credential")
	assert.True(t, ok)
	assert.Equal(t, CategoryCredential, c)

	c, ok = ParseCategory("")
	assert.False(t, ok)
	assert.Equal(t, CategoryUnknown, c)

	c, ok = ParseCategory("Credential")
	assert.False(t, ok)
	assert.Equal(t, CategoryUnknown, c)
}
