package flashcards

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
)

var t0 = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedGenerator(mock *llm.MockProvider) *Generator {
	g := NewGenerator(mock)
	g.now = func() time.Time { return t0 }
	return g
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"flashcards": [
		{"front": "Mitochondria", "back": "Powerhouse of the cell", "category": "Biology", "difficulty": "Easy"},
		{"front": "  ", "back": "no front", "category": "Biology", "difficulty": "Easy"},
		{"front": "Ribosome", "back": "", "category": "Biology", "difficulty": "Easy"},
		{"front": "Nucleus", "back": "Holds DNA", "category": "Biology", "difficulty": ""}
	]}`))

	cards, err := fixedGenerator(mock).Generate(context.Background(), "cell biology", 4, "Easy")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "Mitochondria", cards[0].Front)
	assert.Equal(t, "Powerhouse of the cell", cards[0].Back)
	assert.Equal(t, "Easy", cards[1].Difficulty, "missing difficulty takes the requested one")
	assert.Equal(t, t0, cards[0].Created)
	assert.True(t, strings.HasPrefix(cards[0].ID, "card_"))
	assert.NotEqual(t, cards[0].ID, cards[1].ID)

	req := mock.Calls[0]
	assert.Same(t, DeckSchema, req.Schema)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.7, *req.Temperature)
	assert.Contains(t, mock.LastPrompt(), "Create 4 high-quality flashcards")
	assert.Contains(t, mock.LastPrompt(), "Content:\ncell biology")
}

func TestGenerate_Defaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"flashcards": []}`))
	cards, err := fixedGenerator(mock).Generate(context.Background(), "x", 0, "")
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Contains(t, mock.LastPrompt(), "Create 10 high-quality flashcards")
	assert.Contains(t, mock.LastPrompt(), "Difficulty level: Medium")
}

func TestGenerate_Errors(t *testing.T) {
	_, err := fixedGenerator(llm.NewMockProvider()).Generate(context.Background(), " ", 5, "Hard")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = fixedGenerator(llm.NewMockProvider()).Generate(context.Background(), "x", 5, "Hard")
	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))

	_, err = fixedGenerator(llm.NewMockProvider(llm.MockText("not json"))).Generate(context.Background(), "x", 5, "Hard")
	assert.ErrorContains(t, err, "parse flashcard response")
}

func TestDeckRoundTrip(t *testing.T) {
	cards := []Card{{ID: "card_1", Front: "a", Back: "b", Category: "c", Difficulty: "Easy", Created: t0}}
	data, err := EncodeDeck(cards, t0)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.0"`)
	assert.Contains(t, string(data), `"total_cards": 1`)

	got, err := DecodeDeck(data)
	require.NoError(t, err)
	assert.Equal(t, cards, got)
}

func TestEncodeDeck_Empty(t *testing.T) {
	data, err := EncodeDeck(nil, t0)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flashcards": []`)
}

func TestDecodeDeck(t *testing.T) {
	got, err := DecodeDeck([]byte(`{"version": "1.0"}`))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = DecodeDeck([]byte("{"))
	assert.ErrorContains(t, err, "invalid flashcard file")
}

func TestRowConversion(t *testing.T) {
	c := Card{ID: "card_9", Front: "f", Back: "b", Category: "Math", Difficulty: "Hard", Created: t0}
	assert.Equal(t, c, FromRow(c.Row()))
}

func TestNewCard(t *testing.T) {
	c, err := NewCard("  What is ATP? ", " Energy currency ", "", "Easy", t0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ID, "card_"))
	assert.Equal(t, "What is ATP?", c.Front)
	assert.Equal(t, "Energy currency", c.Back)
	assert.Equal(t, DefaultCategory, c.Category)
	assert.Equal(t, t0, c.Created)

	other, err := NewCard("f", "b", "Math", "", t0)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, other.ID)
	assert.Equal(t, "Math", other.Category)

	_, err = NewCard("front", "  ", "Math", "", t0)
	assert.ErrorIs(t, err, ErrMissingSide)
	_, err = NewCard("", "back", "Math", "", t0)
	assert.ErrorIs(t, err, ErrMissingSide)
}
