package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/quiz"
)

// Start opens an attempt at qz positioned on the first question.
func Start(qz *quiz.Quiz, now time.Time) (*Attempt, error) {
	if qz == nil || len(qz.Questions) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	snapshot := *qz
	snapshot.Questions = nil
	if err := copier.CopyWithOption(&snapshot.Questions, &qz.Questions, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy quiz: %w", err)
	}

	return &Attempt{
		ID:        uuid.NewString(),
		Quiz:      &snapshot,
		StartedAt: now,
		Phase:     PhaseActive,
		answers:   make(map[int]string, len(snapshot.Questions)),
	}, nil
}

// Current returns the question the learner is on.
func (a *Attempt) Current() quiz.Question {
	return a.Quiz.Questions[a.current]
}

// Index returns the 0-based position of the current question.
func (a *Attempt) Index() int {
	return a.current
}

// IsLast reports whether the current question is the final one.
func (a *Attempt) IsLast() bool {
	return a.current == len(a.Quiz.Questions)-1
}

// Answer records the learner's answer to questionID, replacing any earlier
// one. Blank answers clear it.
func (a *Attempt) Answer(questionID int, answer string) error {
	if a.Phase != PhaseActive {
		return ErrAttemptClosed
	}
	if !a.hasQuestion(questionID) {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		delete(a.answers, questionID)
		return nil
	}
	a.answers[questionID] = answer
	return nil
}

// AnswerFor returns the recorded answer for questionID, or "".
func (a *Attempt) AnswerFor(questionID int) string {
	return a.answers[questionID]
}

// Answered reports whether questionID has an answer.
func (a *Attempt) Answered(questionID int) bool {
	_, ok := a.answers[questionID]
	return ok
}

// Next moves to the following question. It returns false on the last one.
func (a *Attempt) Next() bool {
	if a.Phase != PhaseActive || a.IsLast() {
		return false
	}
	a.current++
	return true
}

// Prev moves to the preceding question. It returns false on the first one.
func (a *Attempt) Prev() bool {
	if a.Phase != PhaseActive || a.current == 0 {
		return false
	}
	a.current--
	return true
}

// Progress returns the current position and answer count.
func (a *Attempt) Progress() Progress {
	return Progress{
		Index:    a.current,
		Total:    len(a.Quiz.Questions),
		Answered: len(a.answers),
	}
}

// CanFinish reports whether an interactive runner should allow finishing:
// the learner is on the last question and has answered it.
func (a *Attempt) CanFinish() bool {
	return a.Phase == PhaseActive && a.IsLast() && a.Answered(a.Current().ID)
}

// Finish grades every question, unanswered ones as empty, and closes the
// attempt.
func (a *Attempt) Finish(ctx context.Context, g *quiz.Grader, now time.Time) (*quiz.QuizSessionRecord, error) {
	if a.Phase != PhaseActive {
		return nil, ErrAttemptClosed
	}

	sub := g.GradeSubmission(ctx, a.Quiz, a.answers, now)
	rec := quiz.NewRecord(a.Quiz, sub, now.Sub(a.StartedAt))
	rec.ID = a.ID

	a.Record = rec
	a.Phase = PhaseCompleted

	log.Debug().
		Str("attempt", a.ID).
		Int("correct", rec.CorrectAnswers).
		Int("total", rec.TotalQuestions).
		Float64("score", rec.Score).
		Msg("quiz attempt finished")
	return rec, nil
}

// Abandon closes the attempt without grading.
func (a *Attempt) Abandon() {
	if a.Phase == PhaseActive {
		a.Phase = PhaseAbandoned
	}
}

func (a *Attempt) hasQuestion(id int) bool {
	for _, q := range a.Quiz.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
