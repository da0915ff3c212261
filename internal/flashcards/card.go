package flashcards

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studyaid/internal/store"
)

// DefaultCategory files cards created without one.
const DefaultCategory = "General"

// ErrMissingSide is returned for a card without a front or a back.
var ErrMissingSide = errors.New("flashcard needs both a front and a back")

// Card is one flashcard.
type Card struct {
	ID         string    `json:"id" yaml:"id"`
	Front      string    `json:"front" yaml:"front"`
	Back       string    `json:"back" yaml:"back"`
	Category   string    `json:"category" yaml:"category"`
	Difficulty string    `json:"difficulty" yaml:"difficulty"`
	Created    time.Time `json:"created" yaml:"created"`
}

// NewCard builds a card with a fresh ID. Both sides are required; an empty
// category becomes DefaultCategory.
func NewCard(front, back, category, difficulty string, now time.Time) (Card, error) {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return Card{}, ErrMissingSide
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return Card{
		ID:         newID(),
		Front:      front,
		Back:       back,
		Category:   category,
		Difficulty: strings.TrimSpace(difficulty),
		Created:    now,
	}, nil
}

func newID() string {
	return "card_" + uuid.NewString()
}

// Row converts c to its stored form.
func (c Card) Row() store.FlashcardRow {
	return store.FlashcardRow{
		CardID:     c.ID,
		Front:      c.Front,
		Back:       c.Back,
		Category:   c.Category,
		Difficulty: c.Difficulty,
		CreatedAt:  c.Created,
	}
}

// FromRow converts a stored flashcard.
func FromRow(r store.FlashcardRow) Card {
	return Card{
		ID:         r.CardID,
		Front:      r.Front,
		Back:       r.Back,
		Category:   r.Category,
		Difficulty: r.Difficulty,
		Created:    r.CreatedAt,
	}
}
