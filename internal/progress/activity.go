// Package progress computes study statistics from a user's activity log.
package progress

import (
	"time"

	"github.com/abhisek/studyaid/internal/store"
)

// DefaultSubject labels activity recorded without a subject.
const DefaultSubject = "General"

// Activity is one logged study action.
type Activity struct {
	Type              string    `json:"activity_type" yaml:"activity_type"`
	Subject           string    `json:"subject" yaml:"subject"`
	DurationMinutes   int       `json:"duration_minutes" yaml:"duration_minutes"`
	Score             *float64  `json:"score" yaml:"score"`
	QuestionsAnswered int       `json:"questions_answered" yaml:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers" yaml:"correct_answers"`
	NotesCreated      int       `json:"notes_created" yaml:"notes_created"`
	FlashcardsStudied int       `json:"flashcards_studied" yaml:"flashcards_studied"`
	Timestamp         time.Time `json:"timestamp" yaml:"timestamp"`
	// RecordID links a quiz activity to its stored session record.
	RecordID string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

func (a Activity) subject() string {
	if a.Subject == "" {
		return DefaultSubject
	}
	return a.Subject
}

func (a Activity) scoredQuiz() bool {
	return a.Type == store.ActivityQuiz && a.Score != nil
}

// FromRow converts a stored activity.
func FromRow(r store.ActivityRow) Activity {
	return Activity{
		Type:              r.Type,
		Subject:           r.Subject,
		DurationMinutes:   r.DurationMinutes,
		Score:             r.Score,
		QuestionsAnswered: r.QuestionsAnswered,
		CorrectAnswers:    r.CorrectAnswers,
		NotesCreated:      r.NotesCreated,
		FlashcardsStudied: r.FlashcardsStudied,
		Timestamp:         r.Timestamp,
		RecordID:          r.RecordID,
	}
}

// Row converts a to its stored form for username.
func (a Activity) Row(username string) store.ActivityRow {
	return store.ActivityRow{
		Timestamp:         a.Timestamp,
		Username:          username,
		Type:              a.Type,
		Subject:           a.Subject,
		DurationMinutes:   a.DurationMinutes,
		Score:             a.Score,
		QuestionsAnswered: a.QuestionsAnswered,
		CorrectAnswers:    a.CorrectAnswers,
		NotesCreated:      a.NotesCreated,
		FlashcardsStudied: a.FlashcardsStudied,
		RecordID:          a.RecordID,
	}
}
