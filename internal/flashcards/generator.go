package flashcards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/llm"
)

// DefaultCount is the deck size used when none is given.
const DefaultCount = 10

const systemPrompt = "You are an expert educator creating effective study flashcards. Always return valid JSON."

// ErrEmptyContent is returned when there is nothing to make cards from.
var ErrEmptyContent = errors.New("no content to make flashcards from")

// Generator makes flashcard decks with a model.
type Generator struct {
	provider llm.Provider
	now      func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider, now: time.Now}
}

type deckOutput struct {
	Flashcards []cardOutput `json:"flashcards"`
}

type cardOutput struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Generate asks for count cards about content. Cards missing either side
// are dropped; the result may hold fewer than count cards.
func (g *Generator) Generate(ctx context.Context, content string, count int, difficulty string) ([]Card, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if count <= 0 {
		count = DefaultCount
	}
	if difficulty == "" {
		difficulty = "Medium"
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeFlashcards)

	req := llm.UserRequest(systemPrompt, buildPrompt(content, count, difficulty))
	req.Schema = DeckSchema
	req.Temperature = llm.Temp(0.7)
	req.MaxTokens = 2000

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}

	var out deckOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse flashcard response: %w", err)
	}

	created := g.now()
	cards := make([]Card, 0, len(out.Flashcards))
	for _, c := range out.Flashcards {
		front, back := strings.TrimSpace(c.Front), strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			continue
		}
		d := strings.TrimSpace(c.Difficulty)
		if d == "" {
			d = difficulty
		}
		cards = append(cards, Card{
			ID:         newID(),
			Front:      front,
			Back:       back,
			Category:   strings.TrimSpace(c.Category),
			Difficulty: d,
			Created:    created,
		})
	}
	if dropped := len(out.Flashcards) - len(cards); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("flashcards missing a side")
	}
	return cards, nil
}

func buildPrompt(content string, count int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d high-quality flashcards from the following content.\n", count)
	fmt.Fprintf(&b, "Difficulty level: %s\n\n", difficulty)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Set every card's difficulty to %q.\n\n", difficulty)
	b.WriteString("Make sure each flashcard:\n")
	b.WriteString("- Tests important concepts\n")
	b.WriteString("- Has clear, concise questions\n")
	b.WriteString("- Provides complete answers\n")
	b.WriteString("- Covers different aspects of the material")
	return b.String()
}
