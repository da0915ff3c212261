package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyaid/internal/document"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, theme.Title.Render(title))
	fmt.Fprintln(w, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(lipgloss.Width(title), 40))))
}

func styled(w io.Writer, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}

func scoreLabel(score float64) string {
	return theme.Band(score).Render(fmt.Sprintf("%.1f%%", score))
}

// readInput returns the text of path, or of stdin when path is "-". Word
// documents are reduced to their paragraphs.
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return document.Text(path, data)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
