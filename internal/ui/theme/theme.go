// Package theme holds the terminal palette and shared styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Primary matches the default calendar event color.
var (
	Primary   = lipgloss.Color("#667EEA")
	Secondary = lipgloss.Color("#38B2AC")
	Accent    = lipgloss.Color("#ED8936")
	Success   = lipgloss.Color("#48BB78")
	Error     = lipgloss.Color("#F56565")
	Warning   = lipgloss.Color("#ECC94B")
	Text      = lipgloss.Color("#F7FAFC")
	TextDim   = lipgloss.Color("#A0AEC0")
	BgCard    = lipgloss.Color("#2D3748")
	Border    = lipgloss.Color("#4A5568")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// BandColor returns the palette color for a score percentage, matching
// the feedback bands used in quiz results.
func BandColor(percent float64) color.Color {
	switch {
	case percent >= 80:
		return Success
	case percent >= 70:
		return Warning
	default:
		return Error
	}
}

// Band returns the bold text style for a score percentage.
func Band(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(BandColor(percent)).Bold(true)
}
