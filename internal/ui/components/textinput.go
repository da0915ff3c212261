package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput for free-text answers.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused input prefilled with value.
func NewTextInput(placeholder, value string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.SetValue(value)
	ti.Focus()
	return TextInput{Model: ti}
}

// Init focuses the input.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.Model.Value()
}
