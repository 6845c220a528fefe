// Package ansi removes terminal escape sequences from rendered text.
package ansi

import (
	"regexp"
	"strings"
)

// ESC is the lead byte of every escape sequence.
const ESC = "\x1b"

// escapePattern matches the three sequence families removed by Strip:
//
//	ESC [ <params> <letter>          CSI (SGR, cursor movement)
//	ESC ] <text> (BEL | ESC \)       OSC (titles, hyperlinks, shell marks)
//	ESC ( <A|B|0|1|2>                character set designation
var escapePattern = regexp.MustCompile(`\x1b(?:\[[0-?]*[A-Za-z]|\][^\x07\x1b]*(?:\x07|\x1b\\)|\([AB012])`)

// Strip returns line with every CSI, OSC and charset designation sequence
// removed. Incomplete sequences are left untouched; Strip works on whole
// lines, not on stream chunks.
func Strip(line string) string {
	if !strings.Contains(line, ESC) {
		return line
	}
	return escapePattern.ReplaceAllString(line, "")
}

// StripAll strips every line in place order and returns a new slice.
func StripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Strip(line)
	}
	return out
}
