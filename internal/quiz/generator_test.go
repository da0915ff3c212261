package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
)

const cellText = "The mitochondria is the powerhouse of the cell. It produces ATP through respiration."

func sequencePicker(kinds ...Kind) KindPicker {
	i := 0
	return func() Kind {
		k := kinds[i%len(kinds)]
		i++
		return k
	}
}

func singleQuestion(n int) llm.MockResponse {
	return llm.MockText(fmt.Sprintf(`{"title":"draw","questions":[{"question":"Question %d?","type":"short_answer","options":["A) one","B) two"],"correct_answer":"true","explanation":"because"}]}`, n))
}

func TestGenerate_SingleKind(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("```json\n" + `{
		"title": "Cell Biology",
		"questions": [
			{"question": "What produces ATP?", "options": ["A) Nucleus","B) Mitochondria","C) Ribosome","D) Golgi"], "correct_answer": "B", "explanation": "Respiration happens there."},
			{"question": "Which organelle holds DNA?", "options": ["A) Nucleus","B) Vacuole","C) Ribosome","D) Golgi"], "correct_answer": "a) nucleus", "explanation": "DNA lives in the nucleus."}
		]
	}` + "\n```"))
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	p := NewPipeline(mock, WithClock(func() time.Time { return created }))

	qz, err := p.Generate(context.Background(), GenerateRequest{
		Content:    "  The mitochondria\n\nproduces ATP.  ",
		Kind:       KindMultipleChoice,
		Count:      2,
		Difficulty: "Medium",
	})
	require.NoError(t, err)

	assert.Equal(t, "Cell Biology", qz.Title)
	assert.Equal(t, KindMultipleChoice, qz.RequestedKind)
	assert.Equal(t, "Medium", qz.Difficulty)
	assert.Equal(t, "  The mitochondria\n\nproduces ATP.  ", qz.SourceContent)
	assert.Equal(t, created, qz.CreatedAt)
	require.Len(t, qz.Questions, 2)
	assert.Equal(t, "B", qz.Questions[0].CorrectAnswer)
	assert.Equal(t, "A) Nucleus", qz.Questions[1].CorrectAnswer)
	for i, q := range qz.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, KindMultipleChoice, q.Kind)
	}

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, systemPrompt, req.System)
	assert.True(t, req.JSONMode)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.5, *req.Temperature)
	assert.Equal(t, 2000, req.MaxTokens)
	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "Create 2 medium multiple choice questions")
	assert.True(t, strings.HasSuffix(prompt, "\nContent:\nThe mitochondria produces ATP."))
}

func TestGenerate_CapsAtRequestedCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`[{"question":"one"},{"question":"two"},{"question":"three"}]`))
	qz, err := NewPipeline(mock).Generate(context.Background(), GenerateRequest{
		Content: cellText, Kind: KindShortAnswer, Count: 2, Difficulty: "Easy",
	})
	require.NoError(t, err)
	assert.Len(t, qz.Questions, 2)
	assert.Equal(t, DefaultTitle, qz.Title)
}

func TestGenerate_MixedMakesOneCallPerDraw(t *testing.T) {
	draws := []Kind{KindMultipleChoice, KindTrueFalse, KindShortAnswer, KindMultipleChoice, KindTrueFalse}
	var responses []llm.MockResponse
	for i := range draws {
		responses = append(responses, singleQuestion(i+1))
	}
	mock := llm.NewMockProvider(responses...)
	p := NewPipeline(mock, WithPicker(sequencePicker(draws...)))

	qz, err := p.Generate(context.Background(), GenerateRequest{
		Content: cellText, Kind: KindMixed, Count: 5, Difficulty: "Hard",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, mock.CallCount())
	assert.Equal(t, MixedTitle, qz.Title)
	assert.Equal(t, KindMixed, qz.RequestedKind)
	require.Len(t, qz.Questions, 5)
	for i, q := range qz.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.True(t, q.Kind.Valid())
		assert.Equal(t, draws[i], q.Kind, "question %d takes the drawn kind", i+1)
	}
	assert.Equal(t, "True", qz.Questions[1].CorrectAnswer)
	assert.Empty(t, qz.Skipped)

	for _, call := range mock.Calls {
		assert.Contains(t, call.Messages[0].Content, "Create 1 hard")
	}
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "true/false")
}

func TestGenerate_MixedSkipsFailedDraws(t *testing.T) {
	mock := llm.NewMockProvider(
		singleQuestion(1),
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockText("Sorry, I can't do that."),
		singleQuestion(4),
	)
	p := NewPipeline(mock, WithPicker(sequencePicker(KindShortAnswer)))

	qz, err := p.Generate(context.Background(), GenerateRequest{
		Content: cellText, Kind: KindMixed, Count: 4, Difficulty: "Easy",
	})
	require.NoError(t, err)

	require.Len(t, qz.Questions, 2)
	assert.Equal(t, []int{1, 2}, []int{qz.Questions[0].ID, qz.Questions[1].ID})
	require.Len(t, qz.Skipped, 2)
	assert.Equal(t, 2, qz.Skipped[0].Draw)
	assert.Equal(t, 3, qz.Skipped[1].Draw)
}

func TestGenerate_NoQuestions(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		responses []llm.MockResponse
		check     func(t *testing.T, err error)
	}{
		{
			name:      "provider failure",
			kind:      KindTrueFalse,
			responses: []llm.MockResponse{{Err: &llm.ErrRateLimit{}}},
			check: func(t *testing.T, err error) {
				var gerr *GenerationError
				assert.True(t, errors.As(err, &gerr))
			},
		},
		{
			name:      "prose reply",
			kind:      KindShortAnswer,
			responses: []llm.MockResponse{llm.MockText("I could not find any facts.")},
			check: func(t *testing.T, err error) {
				var perr *ParseError
				assert.True(t, errors.As(err, &perr))
			},
		},
		{
			name:      "empty reply",
			kind:      KindShortAnswer,
			responses: []llm.MockResponse{llm.MockText("   ")},
			check: func(t *testing.T, err error) {
				var gerr *GenerationError
				assert.True(t, errors.As(err, &gerr))
			},
		},
		{
			name:      "no usable questions",
			kind:      KindShortAnswer,
			responses: []llm.MockResponse{llm.MockText(`{"questions":[{"question":""}]}`)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnusableOutput)
			},
		},
		{
			name: "mixed draws parse but normalize to nothing",
			kind: KindMixed,
			responses: []llm.MockResponse{
				llm.MockText(`{"questions":[{"question":""}]}`),
				llm.MockText(`{"questions":[]}`),
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnusableOutput)
			},
		},
		{
			name:      "every mixed draw fails",
			kind:      KindMixed,
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{}}, llm.MockText("nope")},
			check: func(t *testing.T, err error) {
				var perr *ParseError
				assert.True(t, errors.As(err, &perr), "last cause is kept")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.responses...)
			p := NewPipeline(mock, WithPicker(sequencePicker(KindTrueFalse)))
			qz, err := p.Generate(context.Background(), GenerateRequest{
				Content: cellText, Kind: tt.kind, Count: 2, Difficulty: "Easy",
			})
			assert.Nil(t, qz)
			require.ErrorIs(t, err, ErrNoQuestions)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	mock := llm.NewMockProvider()
	p := NewPipeline(mock)
	ctx := context.Background()

	_, err := p.Generate(ctx, GenerateRequest{Content: cellText, Kind: KindShortAnswer, Count: 0})
	assert.Error(t, err)

	_, err = p.Generate(ctx, GenerateRequest{Content: cellText, Kind: "essay", Count: 1})
	assert.Error(t, err)

	_, err = p.Generate(ctx, GenerateRequest{Content: " \n\t ", Kind: KindShortAnswer, Count: 1})
	assert.ErrorIs(t, err, ErrEmptyContent)

	assert.Zero(t, mock.CallCount())
}

func TestGenerate_MixedStopsOnCancel(t *testing.T) {
	mock := llm.NewMockProvider(singleQuestion(1), singleQuestion(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(mock).Generate(ctx, GenerateRequest{Content: cellText, Kind: KindMixed, Count: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mock.CallCount())
}

func TestWeightedPicker_Distribution(t *testing.T) {
	pick := WeightedPicker(rand.New(rand.NewPCG(7, 11)))
	const n = 20000
	counts := map[Kind]int{}
	for range n {
		counts[pick()]++
	}

	assert.InDelta(t, 0.5, float64(counts[KindMultipleChoice])/n, 0.02)
	assert.InDelta(t, 0.3, float64(counts[KindTrueFalse])/n, 0.02)
	assert.InDelta(t, 0.2, float64(counts[KindShortAnswer])/n, 0.02)
	assert.Len(t, counts, 3)
}
