package flashcards

import "github.com/abhisek/studyaid/internal/llm"

// DeckSchema defines the JSON schema for flashcard generation.
var DeckSchema = &llm.Schema{
	Name:        "flashcard-deck",
	Description: "A set of study flashcards drawn from the given content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "Question or term",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "Answer or definition",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "Subject area",
						},
						"difficulty": map[string]any{
							"type": "string",
						},
					},
					"required":             []any{"front", "back", "category", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"flashcards"},
		"additionalProperties": false,
	},
}
