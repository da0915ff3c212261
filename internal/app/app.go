// Package app runs the interactive quiz in the terminal.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/router"
	"github.com/abhisek/studyaid/internal/screens/take"
	"github.com/abhisek/studyaid/internal/session"
	"github.com/abhisek/studyaid/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	Attempt *session.Attempt
	Grader  *quiz.Grader
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	return AppModel{
		router: router.New(take.New(ctx, opts.Attempt, opts.Grader)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.router.Status(), m.width)

	hints := m.router.KeyHints()
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run takes opts.Attempt interactively and returns the graded record. The
// record is nil when the learner quits before finishing.
func Run(ctx context.Context, opts Options) (*quiz.QuizSessionRecord, error) {
	if opts.Attempt == nil || opts.Grader == nil {
		return nil, fmt.Errorf("app: attempt and grader are required")
	}

	p := tea.NewProgram(newAppModel(ctx, opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return nil, err
	}
	if opts.Attempt.Phase == session.PhaseActive {
		opts.Attempt.Abandon()
	}
	return opts.Attempt.Record, nil
}
