package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyaid/internal/ui/theme"
)

const minBarWidth = 4

// ScoreBar draws a score percentage in [0, 100] as a horizontal fill
// colored by score band.
type ScoreBar struct {
	Score     float64
	Width     int
	ShowScore bool
}

// NewScoreBar returns a bar of width cells for score.
func NewScoreBar(score float64, width int) ScoreBar {
	return ScoreBar{Score: score, Width: width}
}

// WithScore appends the percentage after the bar.
func (b ScoreBar) WithScore() ScoreBar {
	b.ShowScore = true
	return b
}

// Filled returns how many of the bar's cells are filled.
func (b ScoreBar) Filled() int {
	w := max(b.Width, minBarWidth)
	return min(max(int(float64(w)*b.Score/100+0.5), 0), w)
}

// View renders the bar.
func (b ScoreBar) View() string {
	w := max(b.Width, minBarWidth)
	filled := b.Filled()

	out := lipgloss.NewStyle().Background(theme.BandColor(b.Score)).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", w-filled))
	if b.ShowScore {
		out += theme.Band(b.Score).Render(fmt.Sprintf(" %5.1f%%", b.Score))
	}
	return out
}
