package flashcards

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeckVersion is written into every encoded deck file.
const DeckVersion = "1.0"

// Deck is the on-disk flashcard file.
type Deck struct {
	Version    string    `json:"version"`
	Created    time.Time `json:"created"`
	Flashcards []Card    `json:"flashcards"`
	TotalCards int       `json:"total_cards"`
}

// EncodeDeck renders cards as an indented deck file.
func EncodeDeck(cards []Card, now time.Time) ([]byte, error) {
	if cards == nil {
		cards = []Card{}
	}
	return json.MarshalIndent(Deck{
		Version:    DeckVersion,
		Created:    now,
		Flashcards: cards,
		TotalCards: len(cards),
	}, "", "  ")
}

// DecodeDeck reads the cards from a deck file. A file without a
// flashcards list decodes to no cards.
func DecodeDeck(data []byte) ([]Card, error) {
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid flashcard file: %w", err)
	}
	return d.Flashcards, nil
}
