// Package layout renders the frame around every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyaid/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws the app name, the screen title and a right-aligned
// status such as "Q 2/5".
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  studyaid")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	innerWidth := max(width-4, 0)
	leftGap := max((innerWidth-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(innerWidth-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return box(width).Render(content)
}

// RenderFooter draws the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return box(width).Render("  " + strings.Join(parts, "   "))
}

func box(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame stacks header, content and footer to fill height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// ContentHeight is the room left for a screen between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// Center places s in the middle of a line width wide.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Rule draws a horizontal divider at most 60 cells wide.
func Rule(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
}
