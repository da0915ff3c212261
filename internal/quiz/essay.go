package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/llm"
)

// MaxEssayChars caps the writing sent for grading.
const MaxEssayChars = 15000

// EssayParseFailure is the feedback text used when the model reply could
// not be read.
const EssayParseFailure = "Failed to parse model response."

// EssaySchema is the structured output for free-text grading.
var EssaySchema = &llm.Schema{
	Name:        "essay-feedback",
	Description: "Scored feedback on a piece of student writing",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     10,
				"description": "Overall score from 0 to 10",
			},
			"strengths":   stringArray("What the writing does well"),
			"weaknesses":  stringArray("Where the writing falls short"),
			"suggestions": stringArray("Concrete changes the student could make"),
			"detailed_feedback": map[string]any{
				"type":        "string",
				"description": "A paragraph of overall feedback",
			},
		},
		"required":             []any{"score", "strengths", "weaknesses", "suggestions", "detailed_feedback"},
		"additionalProperties": false,
	},
}

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// EssayFeedback is the graded result of a piece of writing.
type EssayFeedback struct {
	Score            float64  `json:"score"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Suggestions      []string `json:"suggestions"`
	DetailedFeedback string   `json:"detailed_feedback"`
}

// EssayGrader scores free-text writing such as essays and reports.
type EssayGrader struct {
	provider llm.Provider
}

// NewEssayGrader creates an EssayGrader.
func NewEssayGrader(provider llm.Provider) *EssayGrader {
	return &EssayGrader{provider: provider}
}

// Grade scores content as a textType ("essay", "report"...). notes are
// extra instructions from a teacher. A reply that cannot be read yields
// zero feedback carrying EssayParseFailure; only provider failures are
// returned as errors.
func (g *EssayGrader) Grade(ctx context.Context, content, textType, notes string) (*EssayFeedback, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEssay)

	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > MaxEssayChars {
		content = content[:MaxEssayChars]
		log.Warn().Int("max_chars", MaxEssayChars).Msg("essay truncated")
	}
	if textType == "" {
		textType = "essay"
	}

	req := llm.UserRequest(systemPrompt, essayPrompt(content, textType, notes))
	req.Schema = EssaySchema
	req.Temperature = llm.Temp(0.4)
	req.MaxTokens = 1000

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			log.Warn().Err(err).Msg("essay feedback unreadable")
			return unreadableFeedback(), nil
		}
		return nil, fmt.Errorf("grade %s: %w", textType, err)
	}

	var fb EssayFeedback
	if err := json.Unmarshal(resp.Content, &fb); err != nil {
		log.Warn().Err(err).Msg("essay feedback unreadable")
		return unreadableFeedback(), nil
	}
	fb.Score = math.Max(0, math.Min(10, fb.Score))
	return &fb, nil
}

func unreadableFeedback() *EssayFeedback {
	return &EssayFeedback{
		Strengths:        []string{},
		Weaknesses:       []string{},
		Suggestions:      []string{},
		DetailedFeedback: EssayParseFailure,
	}
}

func essayPrompt(content, textType, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert writing teacher and grader. Analyze the following %s.\n", textType)
	b.WriteString("Consider: clarity, structure, grammar, creativity, vocabulary, engagement, and overall impact.\n")
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "Teacher's extra notes: %s\n", notes)
	}
	b.WriteString("\nReturn ONLY JSON with score (0-10), strengths, weaknesses, suggestions and detailed_feedback.\n\n")
	fmt.Fprintf(&b, "Student %s:\n%s", textType, content)
	return b.String()
}
