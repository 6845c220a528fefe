// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/tenrec/internal/core/prompt"
)

// Tokyo Night color palette.
var (
	ColorRed    = lipgloss.Color("#f7768e")
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorPurple = lipgloss.Color("#bb9af7")
	ColorCyan   = lipgloss.Color("#7dcfff")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// categoryColors assigns one color per prompt category.
var categoryColors = map[prompt.Category]lipgloss.Color{
	prompt.CategoryConfirmation:  ColorYellow,
	prompt.CategoryAuthorization: ColorPurple,
	prompt.CategoryContinuation:  ColorCyan,
	prompt.CategoryToolApproval:  ColorBlue,
	prompt.CategoryCredential:    ColorRed,
	prompt.CategoryUnknown:       ColorGray,
}

// CategoryStyle returns the badge style for a prompt category.
func CategoryStyle(c prompt.Category) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = ColorGray
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// Category renders a category name in its color.
func Category(c prompt.Category) string {
	return CategoryStyle(c).Render(c.String())
}

// LabelStyle styles rule labels.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// TextStyle styles matched terminal text.
var TextStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Italic(true)

// DimStyle styles secondary details such as line numbers and timestamps.
var DimStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// EventStyle styles shell-integration lifecycle events.
var EventStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// ExitStyle returns the style for an exit code: green for success, red
// otherwise.
func ExitStyle(code int32) lipgloss.Style {
	if code == 0 {
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
	return lipgloss.NewStyle().Foreground(ColorRed)
}
