package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/studyaid/internal/flashcards"
	"github.com/abhisek/studyaid/internal/notes"
	"github.com/abhisek/studyaid/internal/progress"
	"github.com/abhisek/studyaid/internal/store"
)

var (
	// ErrCardNotFound is returned when no flashcard matches a reference.
	ErrCardNotFound = errors.New("flashcard not found")

	// ErrEventNotFound is returned when no event matches a name.
	ErrEventNotFound = errors.New("event not found")

	// ErrNoNotes is returned when no saved note matches a selection.
	ErrNoNotes = errors.New("no matching notes")
)

// AddNote validates n, saves it and logs a study activity for its
// category.
func (w *Workspace) AddNote(ctx context.Context, n notes.Note) error {
	n.Title = strings.TrimSpace(n.Title)
	if strings.TrimSpace(n.Category) == "" {
		n.Category = notes.DefaultCategory
	}
	if err := notes.Validate(n.Title, n.Content, n.Category); err != nil {
		return err
	}
	w.Notes = append(w.Notes, n)
	if err := w.Save(ctx); err != nil {
		w.Notes = w.Notes[:len(w.Notes)-1]
		return fmt.Errorf("save note: %w", err)
	}
	return w.AppendActivity(ctx, progress.Activity{
		Type:         store.ActivityStudy,
		Subject:      n.Category,
		NotesCreated: 1,
		Timestamp:    n.Created,
	}, nil)
}

// AddFlashcards appends cards to the library and saves it.
func (w *Workspace) AddFlashcards(ctx context.Context, cards ...flashcards.Card) error {
	if len(cards) == 0 {
		return nil
	}
	n := len(w.Flashcards)
	w.Flashcards = append(w.Flashcards, cards...)
	if err := w.Save(ctx); err != nil {
		w.Flashcards = w.Flashcards[:n]
		return fmt.Errorf("save flashcards: %w", err)
	}
	return nil
}

// DeleteFlashcard removes the card whose ID is ref, or whose ID starts with
// ref. The "card_" part of an ID may be left out of the prefix.
func (w *Workspace) DeleteFlashcard(ctx context.Context, ref string) (flashcards.Card, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return flashcards.Card{}, ErrCardNotFound
	}
	idx := slices.IndexFunc(w.Flashcards, func(c flashcards.Card) bool { return c.ID == ref })
	if idx < 0 {
		for i, c := range w.Flashcards {
			if !cardMatches(c.ID, ref) {
				continue
			}
			if idx >= 0 {
				return flashcards.Card{}, fmt.Errorf("flashcard prefix %q is ambiguous", ref)
			}
			idx = i
		}
	}
	if idx < 0 {
		return flashcards.Card{}, ErrCardNotFound
	}

	card := w.Flashcards[idx]
	kept := make([]flashcards.Card, 0, len(w.Flashcards)-1)
	kept = append(kept, w.Flashcards[:idx]...)
	kept = append(kept, w.Flashcards[idx+1:]...)
	prev := w.Flashcards
	w.Flashcards = kept
	if err := w.Save(ctx); err != nil {
		w.Flashcards = prev
		return flashcards.Card{}, fmt.Errorf("delete flashcard: %w", err)
	}
	return card, nil
}

func cardMatches(id, prefix string) bool {
	return strings.HasPrefix(id, prefix) || strings.HasPrefix(strings.TrimPrefix(id, "card_"), prefix)
}

// ClearFlashcards deletes every flashcard and reports how many there were.
// Notes, events and the activity log are kept.
func (w *Workspace) ClearFlashcards(ctx context.Context) (int, error) {
	prev := w.Flashcards
	w.Flashcards = nil
	if err := w.Save(ctx); err != nil {
		w.Flashcards = prev
		return 0, fmt.Errorf("clear flashcards: %w", err)
	}
	return len(prev), nil
}

// DeleteEvent removes the event called name, ignoring case. When several
// events share the name, date (YYYY-MM-DD) picks one; without it the call
// fails.
func (w *Workspace) DeleteEvent(ctx context.Context, name, date string) (Event, error) {
	name = strings.TrimSpace(name)
	var matches []int
	for i, e := range w.Events {
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		if date != "" && e.Date != date {
			continue
		}
		matches = append(matches, i)
	}
	switch len(matches) {
	case 0:
		return Event{}, ErrEventNotFound
	case 1:
	default:
		dates := make([]string, len(matches))
		for i, idx := range matches {
			dates[i] = w.Events[idx].Date
		}
		return Event{}, fmt.Errorf("%d events are called %q (%s); give a date", len(matches), name, strings.Join(dates, ", "))
	}

	idx := matches[0]
	ev := w.Events[idx]
	prev := w.Events
	w.Events = append(append([]Event{}, prev[:idx]...), prev[idx+1:]...)
	if err := w.Save(ctx); err != nil {
		w.Events = prev
		return Event{}, fmt.Errorf("delete event: %w", err)
	}
	return ev, nil
}

// NoteMaterial joins the content of the saved notes matching title and
// category, either of which may be empty to match all. It returns the text
// and the number of notes used.
func (w *Workspace) NoteMaterial(title, category string) (string, int, error) {
	var parts []string
	for _, n := range w.Notes {
		if title != "" && !strings.EqualFold(strings.TrimSpace(n.Title), strings.TrimSpace(title)) {
			continue
		}
		if category != "" && !strings.EqualFold(n.Category, category) {
			continue
		}
		if text := strings.TrimSpace(n.Content); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", 0, ErrNoNotes
	}
	return strings.Join(parts, "\n\n"), len(parts), nil
}
