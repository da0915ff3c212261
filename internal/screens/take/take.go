// Package take is the interactive quiz-taking screen.
package take

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/router"
	"github.com/abhisek/studyaid/internal/screens/summary"
	"github.com/abhisek/studyaid/internal/session"
	"github.com/abhisek/studyaid/internal/ui/components"
	"github.com/abhisek/studyaid/internal/ui/layout"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

const answerLimit = 500

// gradedMsg carries the result of grading the finished attempt.
type gradedMsg struct {
	Record *quiz.QuizSessionRecord
	Err    error
}

// TakeScreen walks the learner through an attempt one question at a time.
type TakeScreen struct {
	ctx     context.Context
	attempt *session.Attempt
	grader  *quiz.Grader
	now     func() time.Time

	choice      components.Choice
	input       components.TextInput
	grading     bool
	confirmQuit bool
	errMsg      string
}

var _ router.Screen = (*TakeScreen)(nil)
var _ router.KeyHintProvider = (*TakeScreen)(nil)
var _ router.StatusProvider = (*TakeScreen)(nil)

// New creates a TakeScreen for an active attempt.
func New(ctx context.Context, attempt *session.Attempt, grader *quiz.Grader) *TakeScreen {
	s := &TakeScreen{
		ctx:     ctx,
		attempt: attempt,
		grader:  grader,
		now:     time.Now,
	}
	s.load()
	return s
}

func (s *TakeScreen) Init() tea.Cmd {
	if s.freeText() {
		return s.input.Init()
	}
	return nil
}

func (s *TakeScreen) Title() string {
	return s.attempt.Quiz.Title
}

func (s *TakeScreen) Status() string {
	p := s.attempt.Progress()
	return fmt.Sprintf("Q %d/%d", p.Index+1, p.Total)
}

func (s *TakeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.grading:
		return nil
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}

	submit := "Next"
	if s.attempt.IsLast() {
		submit = "Finish"
	}
	hints := make([]layout.KeyHint, 0, 5)
	if !s.freeText() {
		hints = append(hints, layout.KeyHint{Key: "↑↓/A-" + components.Label(len(s.choice.Options)-1), Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: submit},
		layout.KeyHint{Key: "Ctrl+P/N", Description: "Prev/Next"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *TakeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gradedMsg:
		s.grading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(msg.Record)}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.freeText() && !s.grading {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TakeScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	if s.grading {
		return s, nil
	}

	key := msg.String()
	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.attempt.Abandon()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.commit()
		s.confirmQuit = true
		return s, nil
	case "ctrl+n":
		s.commit()
		if s.attempt.Next() {
			return s, s.load()
		}
		return s, nil
	case "ctrl+p":
		s.commit()
		if s.attempt.Prev() {
			return s, s.load()
		}
		return s, nil
	case "enter":
		return s.submit()
	}

	if s.freeText() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	var changed bool
	s.choice, changed = s.choice.Update(msg)
	if changed {
		s.errMsg = ""
		s.commit()
	}
	return s, nil
}

// submit records the current answer, then advances or starts grading.
func (s *TakeScreen) submit() (router.Screen, tea.Cmd) {
	if !s.freeText() && s.choice.Selected < 0 && len(s.choice.Options) > 0 {
		s.choice.Selected = s.choice.Cursor
	}
	s.commit()

	if !s.attempt.IsLast() {
		s.attempt.Next()
		return s, s.load()
	}
	if !s.attempt.CanFinish() {
		s.errMsg = "Answer this question to finish the quiz."
		return s, nil
	}

	s.grading = true
	s.errMsg = ""
	attempt, grader, ctx, now := s.attempt, s.grader, s.ctx, s.now()
	return s, func() tea.Msg {
		rec, err := attempt.Finish(ctx, grader, now)
		return gradedMsg{Record: rec, Err: err}
	}
}

// commit stores the widget's value as the answer to the current question.
func (s *TakeScreen) commit() {
	q := s.attempt.Current()
	var answer string
	switch {
	case s.freeText():
		answer = s.input.Value()
	case s.choice.Selected >= 0:
		answer = s.choice.Options[s.choice.Selected]
	default:
		return
	}
	if err := s.attempt.Answer(q.ID, answer); err != nil {
		s.errMsg = err.Error()
	}
}

// load builds the answer widget for the current question, restoring any
// earlier answer.
func (s *TakeScreen) load() tea.Cmd {
	s.errMsg = ""
	q := s.attempt.Current()
	answer := s.attempt.AnswerFor(q.ID)
	if s.freeText() {
		s.input = components.NewTextInput("Type your answer...", answer, answerLimit)
		return s.input.Init()
	}
	opts := options(q)
	s.choice = components.NewChoice(opts, selectedIndex(answer, opts))
	return nil
}

func (s *TakeScreen) freeText() bool {
	q := s.attempt.Current()
	return q.Kind == quiz.KindShortAnswer || len(options(q)) == 0
}

func options(q quiz.Question) []string {
	if q.Kind == quiz.KindTrueFalse {
		return []string{"True", "False"}
	}
	return q.Options
}

// selectedIndex finds a stored answer among opts by text or letter.
func selectedIndex(answer string, opts []string) int {
	if answer == "" {
		return -1
	}
	for i, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return i
		}
	}
	if len(answer) == 1 {
		if i := int(strings.ToUpper(answer)[0]) - 'A'; i >= 0 && i < len(opts) {
			return i
		}
	}
	return -1
}

func (s *TakeScreen) View(width, height int) string {
	if s.grading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Grading your answers...")
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	q := s.attempt.Current()
	p := s.attempt.Progress()

	var b strings.Builder
	info := theme.Label.Render("  "+q.Kind.Label()) +
		theme.Subtitle.Render(fmt.Sprintf("   %d of %d answered", p.Answered, p.Total))
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%d. %s", p.Index+1, q.Text)))
	b.WriteString("\n\n")

	if s.freeText() {
		b.WriteString(layout.Center("Answer: "+s.input.View(), width))
	} else {
		b.WriteString(layout.Center(s.choice.View(), width))
	}
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg), width))
	}
	return b.String()
}

func renderQuitConfirm(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Warning).
		Padding(1, 4).
		Render(theme.Body.Bold(true).Render("Abandon this quiz?") + "\n\n" +
			theme.Subtitle.Render("Your answers will not be graded or saved."))
	return "\n\n" + layout.Center(box, width)
}
