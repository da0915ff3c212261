package quiz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
)

func TestEssayGrader_Grade(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{
		"score": 7.5,
		"strengths": ["Clear thesis"],
		"weaknesses": ["Thin evidence"],
		"suggestions": ["Cite two sources"],
		"detailed_feedback": "A solid draft."
	}`))

	fb, err := NewEssayGrader(mock).Grade(context.Background(), "My  essay\n about rivers.", "report", "focus on evidence")
	require.NoError(t, err)

	assert.Equal(t, 7.5, fb.Score)
	assert.Equal(t, []string{"Clear thesis"}, fb.Strengths)
	assert.Equal(t, []string{"Thin evidence"}, fb.Weaknesses)
	assert.Equal(t, []string{"Cite two sources"}, fb.Suggestions)
	assert.Equal(t, "A solid draft.", fb.DetailedFeedback)

	req := mock.Calls[0]
	assert.Equal(t, EssaySchema, req.Schema)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.4, *req.Temperature)
	assert.Equal(t, 1000, req.MaxTokens)
	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "Analyze the following report.")
	assert.Contains(t, prompt, "Teacher's extra notes: focus on evidence")
	assert.True(t, strings.HasSuffix(prompt, "Student report:\nMy essay about rivers."))
}

func TestEssayGrader_ClampsScore(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"score": 14, "strengths": [], "weaknesses": [], "suggestions": [], "detailed_feedback": ""}`))
	fb, err := NewEssayGrader(mock).Grade(context.Background(), "text", "", "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, fb.Score)
	assert.Contains(t, mock.LastPrompt(), "Analyze the following essay.")
	assert.NotContains(t, mock.LastPrompt(), "Teacher's extra notes")
}

func TestEssayGrader_UnreadableReply(t *testing.T) {
	for name, resp := range map[string]llm.MockResponse{
		"not json":       llm.MockText("Great essay!"),
		"schema failure": {Err: &llm.ErrInvalidResponse{}},
	} {
		t.Run(name, func(t *testing.T) {
			fb, err := NewEssayGrader(llm.NewMockProvider(resp)).Grade(context.Background(), "text", "essay", "")
			require.NoError(t, err)
			assert.Zero(t, fb.Score)
			assert.Empty(t, fb.Strengths)
			assert.Equal(t, EssayParseFailure, fb.DetailedFeedback)
		})
	}
}

func TestEssayGrader_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	_, err := NewEssayGrader(mock).Grade(context.Background(), "text", "essay", "")
	assert.Error(t, err)
}

func TestEssayGrader_Truncates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"score": 5}`))
	_, err := NewEssayGrader(mock).Grade(context.Background(), strings.Repeat("word ", 5000), "essay", "")
	require.NoError(t, err)
	assert.Less(t, len(mock.LastPrompt()), MaxEssayChars+500)
}

func TestEssayGrader_EmptyContent(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewEssayGrader(mock).Grade(context.Background(), "  \n", "essay", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, mock.CallCount())
}
