package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studyaid/internal/llm"
)

// Generator writes study notes with a model.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate returns notes of noteType for input at the given detail level.
func (g *Generator) Generate(ctx context.Context, input, noteType, detail string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("nothing to write notes about")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeNotes)

	req := llm.UserRequest(systemPrompt, buildPrompt(input, noteType, detail))
	req.Temperature = llm.Temp(0.7)
	req.MaxTokens = 2000

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate notes: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate notes: %w", &llm.ErrInvalidResponse{Err: errors.New("empty response")})
	}
	return text, nil
}
