package session

import (
	"errors"
	"time"

	"github.com/abhisek/studyaid/internal/quiz"
)

var (
	// ErrAttemptClosed is returned when a finished or abandoned attempt is
	// changed.
	ErrAttemptClosed = errors.New("quiz attempt is closed")

	// ErrUnknownQuestion is returned for answers to a question ID the quiz
	// does not have.
	ErrUnknownQuestion = errors.New("unknown question")
)

// Phase is the lifecycle stage of an attempt.
type Phase int

const (
	PhaseActive    Phase = iota // Taking questions
	PhaseCompleted              // Graded; Record is set
	PhaseAbandoned              // Torn down without grading
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Attempt is one learner's pass through a quiz. It owns a private copy of
// the quiz so nothing outside can change the questions mid-attempt.
type Attempt struct {
	// ID identifies the attempt; it becomes the record ID once finished.
	ID string

	Quiz      *quiz.Quiz
	StartedAt time.Time
	Phase     Phase

	// Record is the graded outcome, set by Finish.
	Record *quiz.QuizSessionRecord

	answers map[int]string
	current int
}

// Progress is a snapshot of how far through the quiz the learner is.
type Progress struct {
	// Index is the 0-based position of the current question.
	Index    int
	Total    int
	Answered int
}
