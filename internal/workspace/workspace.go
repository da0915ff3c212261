// Package workspace holds one user's study data and keeps it in sync with
// the store.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/flashcards"
	"github.com/abhisek/studyaid/internal/notes"
	"github.com/abhisek/studyaid/internal/progress"
	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/review"
	"github.com/abhisek/studyaid/internal/store"
)

// Workspace is the data of the signed-in user. It is created on login and
// dropped on logout.
type Workspace struct {
	Username   string
	Notes      []notes.Note
	Flashcards []flashcards.Card
	Activity   []progress.Activity
	Events     []Event

	library    store.LibraryRepo
	activities store.ActivityRepo
}

// New returns an empty workspace for username backed by the given repos.
func New(username string, library store.LibraryRepo, activities store.ActivityRepo) *Workspace {
	return &Workspace{Username: username, library: library, activities: activities}
}

// Load reads everything stored for username.
func Load(ctx context.Context, library store.LibraryRepo, activities store.ActivityRepo, username string) (*Workspace, error) {
	w := New(username, library, activities)

	lib, err := library.LoadLibrary(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	for _, r := range lib.Notes {
		w.Notes = append(w.Notes, notes.Note{
			Title: r.Title, Content: r.Content, Category: r.Category, NoteType: r.NoteType, Created: r.CreatedAt,
		})
	}
	for _, r := range lib.Flashcards {
		w.Flashcards = append(w.Flashcards, flashcards.FromRow(r))
	}
	for _, r := range lib.Events {
		w.Events = append(w.Events, eventFromRow(r))
	}

	rows, err := activities.ListActivities(ctx, username, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	for _, r := range rows {
		w.Activity = append(w.Activity, progress.FromRow(r))
	}

	log.Debug().Str("user", username).
		Int("notes", len(w.Notes)).
		Int("flashcards", len(w.Flashcards)).
		Int("activities", len(w.Activity)).
		Msg("workspace loaded")
	return w, nil
}

// Save replaces the user's stored notes, flashcards and events with the
// workspace contents. The activity log is append-only and not touched.
func (w *Workspace) Save(ctx context.Context) error {
	lib := store.UserLibrary{}
	for _, n := range w.Notes {
		cat := n.Category
		if cat == "" {
			cat = notes.DefaultCategory
		}
		lib.Notes = append(lib.Notes, store.NoteRow{
			Title: n.Title, Content: n.Content, Category: cat, NoteType: n.NoteType, CreatedAt: n.Created,
		})
	}
	for _, c := range w.Flashcards {
		lib.Flashcards = append(lib.Flashcards, c.Row())
	}
	for _, e := range w.Events {
		lib.Events = append(lib.Events, e.row())
	}
	if err := w.library.ReplaceLibrary(ctx, w.Username, lib); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// AppendActivity logs a and, when record is non-nil, stores it as JSON
// beside the entry.
func (w *Workspace) AppendActivity(ctx context.Context, a progress.Activity, record any) error {
	row := a.Row(w.Username)
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode activity record: %w", err)
		}
		row.Record = raw
	}
	if _, err := w.activities.AppendActivity(ctx, row); err != nil {
		return err
	}
	w.Activity = append(w.Activity, a)
	return nil
}

// RecordQuiz logs a finished quiz attempt under subject.
func (w *Workspace) RecordQuiz(ctx context.Context, rec *quiz.QuizSessionRecord, subject string) error {
	if subject == "" {
		subject = progress.DefaultSubject
	}
	score := rec.Score
	a := progress.Activity{
		Type:              store.ActivityQuiz,
		Subject:           subject,
		DurationMinutes:   int(math.Ceil(rec.TimeTaken.Minutes())),
		Score:             &score,
		QuestionsAnswered: rec.TotalQuestions,
		CorrectAnswers:    rec.CorrectAnswers,
		Timestamp:         rec.Timestamp,
		RecordID:          rec.ID,
	}
	return w.AppendActivity(ctx, a, rec)
}

// QuizHistory returns the stored quiz records in the order they were taken.
// Entries whose record cannot be read are skipped.
func (w *Workspace) QuizHistory(ctx context.Context) ([]quiz.QuizSessionRecord, error) {
	rows, err := w.activities.ListActivities(ctx, w.Username, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("quiz history: %w", err)
	}
	var out []quiz.QuizSessionRecord
	for _, r := range rows {
		if r.Type != store.ActivityQuiz || len(r.Record) == 0 {
			continue
		}
		var rec quiz.QuizSessionRecord
		if err := json.Unmarshal(r.Record, &rec); err != nil {
			log.Warn().Err(err).Str("record_id", r.RecordID).Msg("skipping unreadable quiz record")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecordStudy logs a flashcard study run. The card category is the
// subject.
func (w *Workspace) RecordStudy(ctx context.Context, rec *review.StudyRecord) error {
	if len(rec.Results) == 0 {
		return nil
	}
	subject := rec.Category
	if subject == "" {
		subject = progress.DefaultSubject
	}
	a := progress.Activity{
		Type:              store.ActivityFlashcards,
		Subject:           subject,
		DurationMinutes:   rec.Minutes(),
		FlashcardsStudied: len(rec.Results),
		Timestamp:         rec.Finished,
	}
	return w.AppendActivity(ctx, a, rec)
}

// ReviewHistory returns every stored flashcard review result.
func (w *Workspace) ReviewHistory(ctx context.Context) ([]review.Result, error) {
	rows, err := w.activities.ListActivities(ctx, w.Username, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("review history: %w", err)
	}
	var out []review.Result
	for _, r := range rows {
		if r.Type != store.ActivityFlashcards || len(r.Record) == 0 {
			continue
		}
		var rec review.StudyRecord
		if err := json.Unmarshal(r.Record, &rec); err != nil {
			log.Warn().Err(err).Int("activity", r.ID).Msg("skipping unreadable study record")
			continue
		}
		out = append(out, rec.Results...)
	}
	return out, nil
}

// ErrRecordNotFound is returned when no quiz record has the requested ID.
var ErrRecordNotFound = errors.New("quiz record not found")

// QuizRecord returns the stored record with id. A unique ID prefix is
// accepted.
func (w *Workspace) QuizRecord(ctx context.Context, id string) (*quiz.QuizSessionRecord, error) {
	row, err := w.activities.GetByRecordID(ctx, w.Username, id)
	if errors.Is(err, store.ErrNotFound) {
		return w.recordByPrefix(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	var rec quiz.QuizSessionRecord
	if err := json.Unmarshal(row.Record, &rec); err != nil {
		return nil, fmt.Errorf("decode quiz record %s: %w", id, err)
	}
	return &rec, nil
}

func (w *Workspace) recordByPrefix(ctx context.Context, prefix string) (*quiz.QuizSessionRecord, error) {
	history, err := w.QuizHistory(ctx)
	if err != nil {
		return nil, err
	}
	var match *quiz.QuizSessionRecord
	for i := range history {
		if prefix == "" || !strings.HasPrefix(history[i].ID, prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("quiz record prefix %q is ambiguous", prefix)
		}
		match = &history[i]
	}
	if match == nil {
		return nil, ErrRecordNotFound
	}
	return match, nil
}

// Clear deletes all of the user's stored data and empties the workspace.
func (w *Workspace) Clear(ctx context.Context) error {
	if err := w.library.DeleteLibrary(ctx, w.Username); err != nil {
		return fmt.Errorf("clear library: %w", err)
	}
	if err := w.activities.DeleteActivities(ctx, w.Username); err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	w.Notes, w.Flashcards, w.Activity, w.Events = nil, nil, nil, nil
	return nil
}

// Summary counts what the workspace holds.
type Summary struct {
	Notes      int      `json:"notes_count"`
	Flashcards int      `json:"flashcards_count"`
	Sessions   int      `json:"sessions_count"`
	Events     int      `json:"events_count"`
	Subjects   []string `json:"subjects"`
}

// Summary reports counts and the distinct note and flashcard categories in
// name order.
func (w *Workspace) Summary() Summary {
	seen := make(map[string]struct{})
	add := func(cat string) {
		if cat == "" {
			cat = notes.DefaultCategory
		}
		seen[cat] = struct{}{}
	}
	for _, n := range w.Notes {
		add(n.Category)
	}
	for _, c := range w.Flashcards {
		add(c.Category)
	}
	subjects := make([]string, 0, len(seen))
	for s := range seen {
		subjects = append(subjects, s)
	}
	slices.Sort(subjects)

	return Summary{
		Notes:      len(w.Notes),
		Flashcards: len(w.Flashcards),
		Sessions:   len(w.Activity),
		Events:     len(w.Events),
		Subjects:   subjects,
	}
}
