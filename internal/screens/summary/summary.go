// Package summary shows the graded result of a quiz attempt.
package summary

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/router"
	"github.com/abhisek/studyaid/internal/ui/components"
	"github.com/abhisek/studyaid/internal/ui/layout"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

// SummaryScreen displays a graded quiz.
type SummaryScreen struct {
	record *quiz.QuizSessionRecord
	offset int
}

var _ router.Screen = (*SummaryScreen)(nil)
var _ router.KeyHintProvider = (*SummaryScreen)(nil)
var _ router.StatusProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for rec.
func New(rec *quiz.QuizSessionRecord) *SummaryScreen {
	return &SummaryScreen{record: rec}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Results"
}

func (s *SummaryScreen) Status() string {
	if s.record == nil {
		return ""
	}
	return fmt.Sprintf("%.1f%%", s.record.Score)
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	rec := s.record
	if rec == nil {
		return ""
	}

	var b strings.Builder
	center := func(line string) {
		b.WriteString(layout.Center(line, width))
		b.WriteString("\n")
	}

	center(theme.Title.Render(rec.Title))
	center(theme.Subtitle.Render(fmt.Sprintf("%s  ·  %s  ·  %s", rec.Difficulty, rec.QuestionType.Label(), rec.TimeTakenLabel())))
	b.WriteString("\n")

	center(theme.Band(rec.Score).Render(fmt.Sprintf("%.1f%%", rec.Score)) +
		theme.Body.Render(fmt.Sprintf("   %d of %d correct", rec.CorrectAnswers, rec.TotalQuestions)))
	note := quiz.Feedback(rec.Score)
	center(theme.Body.Render(note.Message))
	b.WriteString("\n")

	if len(rec.ByKind) > 1 {
		center(theme.Subtitle.Render("By question type"))
		center(layout.Rule(width))
		for _, k := range sortedKinds(rec.ByKind) {
			ks := rec.ByKind[k]
			center(fmt.Sprintf("%-16s %d/%d  %s",
				k.Label(), ks.Correct, ks.Total, components.NewScoreBar(ks.Accuracy, 20).WithScore().View()))
		}
		b.WriteString("\n")
	}

	missed := rec.Missed()
	if len(missed) == 0 {
		center(theme.Correct.Render("Every answer correct."))
	} else {
		center(theme.Subtitle.Render("Review"))
		center(layout.Rule(width))
		b.WriteString(renderMissed(missed, width))
	}

	b.WriteString("\n")
	for _, tip := range note.Tips {
		center(theme.Hint.Render("• " + tip))
	}

	return scroll(b.String(), s.offset, height)
}

func renderMissed(missed []quiz.GradingResult, width int) string {
	text := lipgloss.NewStyle().Width(max(min(width-8, 72), 20))

	var b strings.Builder
	for _, d := range missed {
		answer := d.UserAnswer
		if answer == "" {
			answer = "(no answer)"
		}
		block := theme.Body.Bold(true).Render(fmt.Sprintf("Q%d. %s", d.QuestionID, d.Question)) + "\n" +
			theme.Incorrect.Render("  Your answer: ") + theme.Body.Render(answer) + "\n" +
			theme.Correct.Render("  Correct:     ") + theme.Body.Render(d.CorrectAnswer)
		if d.Explanation != "" {
			block += "\n" + theme.Hint.Render("  "+d.Explanation)
		}
		b.WriteString(layout.Center(text.Render(block), width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func sortedKinds(m map[quiz.Kind]quiz.KindStats) []quiz.Kind {
	kinds := make([]quiz.Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// scroll drops the first offset lines, keeping at least one page visible.
func scroll(content string, offset, height int) string {
	lines := strings.Split(content, "\n")
	if height > 0 {
		offset = min(offset, max(len(lines)-height, 0))
	}
	return strings.Join(lines[offset:], "\n")
}
