// Package router keeps the stack of terminal screens.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyaid/internal/ui/layout"
)

// Screen is one full-window view.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the content between header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status in the
// header.
type StatusProvider interface {
	Status() string
}

// PushScreenMsg pushes Screen onto the stack.
type PushScreenMsg struct {
	Screen Screen
}

// ReplaceScreenMsg swaps the top screen for Screen.
type ReplaceScreenMsg struct {
	Screen Screen
}

// PopScreenMsg pops the top screen. Popping the last screen quits.
type PopScreenMsg struct{}

// Router manages a stack of screens.
type Router struct {
	stack []Screen
}

// New creates a Router showing initial.
func New(initial Screen) *Router {
	return &Router{stack: []Screen{initial}}
}

// Push adds s on top of the stack and runs its Init.
func (r *Router) Push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Replace swaps the top screen for s and runs its Init.
func (r *Router) Replace(s Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Pop removes the top screen, quitting when none would remain.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return tea.Quit
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Active returns the top screen.
func (r *Router) Active() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards the rest to the active
// screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

// KeyHints returns the active screen's footer hints, or nil.
func (r *Router) KeyHints() []layout.KeyHint {
	if p, ok := r.Active().(KeyHintProvider); ok {
		return p.KeyHints()
	}
	return nil
}

// Status returns the active screen's header status, or "".
func (r *Router) Status() string {
	if p, ok := r.Active().(StatusProvider); ok {
		return p.Status()
	}
	return ""
}
