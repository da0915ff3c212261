// Package components holds reusable terminal widgets.
package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyaid/internal/ui/theme"
)

// Choice is a single-select list of options labelled A, B, C...
type Choice struct {
	Options  []string
	Cursor   int
	Selected int // -1 when nothing is chosen
}

// NewChoice creates a Choice. selected is the index of a previously chosen
// option, or -1.
func NewChoice(options []string, selected int) Choice {
	if selected < -1 || selected >= len(options) {
		selected = -1
	}
	return Choice{Options: options, Cursor: max(selected, 0), Selected: selected}
}

// Label returns the letter shown before option i.
func Label(i int) string {
	return string(rune('A' + i))
}

// Update moves the cursor with arrows or j/k and picks an option with
// space or its letter. It reports whether the selection changed.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Options) == 0 {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return c, false
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
		return c, false
	case "space", " ":
		c.Selected = c.Cursor
		return c, true
	}

	if len(key) == 1 {
		i := int(strings.ToUpper(key)[0]) - 'A'
		if i >= 0 && i < len(c.Options) {
			c.Cursor, c.Selected = i, i
			return c, true
		}
	}
	return c, false
}

// Current returns the option under the cursor.
func (c Choice) Current() string {
	if len(c.Options) == 0 {
		return ""
	}
	return c.Options[c.Cursor]
}

// View renders the option list.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == c.Selected {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, Label(i), opt)

		switch {
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Label.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
