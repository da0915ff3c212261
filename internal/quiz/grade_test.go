package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
)

type fakeJudge struct {
	verdict bool
	err     error
	calls   int
}

func (f *fakeJudge) Judge(context.Context, Question, string) (bool, error) {
	f.calls++
	return f.verdict, f.err
}

func TestGrade_MultipleChoiceLetter(t *testing.T) {
	q := Question{
		ID:            1,
		Text:          "Capital of France?",
		Kind:          KindMultipleChoice,
		Options:       []string{"Paris", "Rome", "Madrid", "Berlin"},
		CorrectAnswer: "A",
		Points:        1,
	}
	g := NewGrader(nil)

	tests := []struct {
		answer string
		want   bool
	}{
		{"A", true},
		{"a", true},
		{"Paris", true},
		{" paris ", true},
		{"A) Paris", true},
		{"B", false},
		{"Rome", false},
		{"E", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			res := g.Grade(context.Background(), q, tt.answer)
			assert.Equal(t, tt.want, res.IsCorrect)
		})
	}
}

func TestGrade_MultipleChoiceText(t *testing.T) {
	q := Question{
		Kind:          KindMultipleChoice,
		Options:       []string{"A) Paris", "B) Rome"},
		CorrectAnswer: "A) Paris",
	}
	g := NewGrader(nil)
	assert.True(t, g.Grade(context.Background(), q, "Paris").IsCorrect)
	assert.True(t, g.Grade(context.Background(), q, "A").IsCorrect)
	assert.True(t, g.Grade(context.Background(), q, "a) paris").IsCorrect)
	assert.False(t, g.Grade(context.Background(), q, "B").IsCorrect)
	assert.False(t, g.Grade(context.Background(), q, "Rome").IsCorrect)
}

func TestGrade_MultipleChoiceWithoutOptions(t *testing.T) {
	q := Question{Kind: KindMultipleChoice, Options: []string{}, CorrectAnswer: "Paris"}
	g := NewGrader(nil)
	assert.True(t, g.Grade(context.Background(), q, "paris").IsCorrect)
	assert.False(t, g.Grade(context.Background(), q, "A").IsCorrect)
}

func TestGrade_TrueFalse(t *testing.T) {
	q := Question{Kind: KindTrueFalse, CorrectAnswer: "True"}
	g := NewGrader(nil)

	for _, answer := range []string{"true", "True", "T", "yes", "y", "1"} {
		assert.True(t, g.Grade(context.Background(), q, answer).IsCorrect, answer)
	}
	for _, answer := range []string{"false", "F", "no", "0", "", "perhaps"} {
		assert.False(t, g.Grade(context.Background(), q, answer).IsCorrect, answer)
	}

	odd := Question{Kind: KindTrueFalse, CorrectAnswer: "Sometimes"}
	assert.True(t, g.Grade(context.Background(), odd, "sometimes").IsCorrect)
}

func TestGrade_ShortAnswer(t *testing.T) {
	q := Question{ID: 4, Kind: KindShortAnswer, CorrectAnswer: "Mitochondria", Points: 2}

	tests := []struct {
		name       string
		answer     string
		want       bool
		wantMethod Method
	}{
		{"exact ignoring case", "mitochondria", true, MethodExact},
		{"learner answer contains expected", "The mitochondria is the powerhouse", true, MethodContainment},
		{"expected contains learner answer", "Mitochondria.", true, MethodContainment},
		{"stray letter", "a", false, MethodNone},
		{"partial word", "mito", false, MethodNone},
		{"empty", "", false, MethodNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewGrader(nil).Grade(context.Background(), q, tt.answer)
			assert.Equal(t, tt.want, res.IsCorrect)
			assert.Equal(t, tt.wantMethod, res.Method)
		})
	}
}

func TestGrade_ShortAnswerMatchSkipsJudge(t *testing.T) {
	judge := &fakeJudge{verdict: false}
	g := NewGrader(judge)
	q := Question{Kind: KindShortAnswer, CorrectAnswer: "Mitochondria"}

	res := g.Grade(context.Background(), q, "mitochondria is the answer")
	assert.True(t, res.IsCorrect)
	assert.Zero(t, judge.calls)

	res = g.Grade(context.Background(), q, "")
	assert.False(t, res.IsCorrect)
	assert.Zero(t, judge.calls, "empty answers never reach the judge")

	empty := Question{Kind: KindShortAnswer, CorrectAnswer: ""}
	res = g.Grade(context.Background(), empty, "anything")
	assert.False(t, res.IsCorrect)
	assert.Equal(t, MethodNone, res.Method)
	assert.Zero(t, judge.calls, "empty canonical answers never reach the judge")
}

func TestGrade_ShortAnswerJudge(t *testing.T) {
	q := Question{Kind: KindShortAnswer, CorrectAnswer: "Photosynthesis", Points: 1}

	judge := &fakeJudge{verdict: true}
	res := NewGrader(judge).Grade(context.Background(), q, "plants turning light into sugar")
	assert.True(t, res.IsCorrect)
	assert.Equal(t, MethodJudge, res.Method)
	assert.Equal(t, 1, judge.calls)
	assert.Equal(t, 1, res.PointsAwarded)

	failing := &fakeJudge{verdict: true, err: errors.New("provider down")}
	res = NewGrader(failing).Grade(context.Background(), q, "plants turning light into sugar")
	assert.False(t, res.IsCorrect, "judge failure grades incorrect")
	assert.Equal(t, MethodJudge, res.Method)
	assert.Zero(t, res.PointsAwarded)
}

func TestGrade_ResultFields(t *testing.T) {
	q := Question{ID: 7, Text: "2+2?", Kind: KindShortAnswer, CorrectAnswer: "4", Explanation: "Basic sum", Points: 3}
	res := NewGrader(nil).Grade(context.Background(), q, " 4 ")

	assert.Equal(t, GradingResult{
		QuestionID:    7,
		Question:      "2+2?",
		Kind:          KindShortAnswer,
		UserAnswer:    "4",
		CorrectAnswer: "4",
		IsCorrect:     true,
		Explanation:   "Basic sum",
		PointsAwarded: 3,
		Method:        MethodExact,
	}, res)
}

func TestGradeSubmission(t *testing.T) {
	qz := &Quiz{Questions: []Question{
		{ID: 1, Kind: KindMultipleChoice, Options: []string{"Paris", "Rome"}, CorrectAnswer: "A", Points: 1},
		{ID: 2, Kind: KindTrueFalse, CorrectAnswer: "False", Points: 1},
		{ID: 3, Kind: KindShortAnswer, CorrectAnswer: "nucleus", Points: 1},
	}}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	sub := NewGrader(nil).GradeSubmission(context.Background(), qz, map[int]string{1: "Paris", 2: "no"}, now)

	assert.Equal(t, 2, sub.Score)
	assert.Equal(t, 3, sub.Total)
	assert.InDelta(t, 66.666, sub.Percent, 0.01)
	assert.Equal(t, now, sub.GradedAt)
	require.Len(t, sub.Details, 3)
	assert.Equal(t, "", sub.Details[2].UserAnswer)
	assert.False(t, sub.Details[2].IsCorrect)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 100.0, Percent(3, 3))
}

func TestLLMJudge(t *testing.T) {
	q := Question{Text: "What organelle makes ATP?", CorrectAnswer: "Mitochondria"}

	tests := []struct {
		reply string
		want  bool
	}{
		{"true", true},
		{"True", true},
		{`"true"`, true},
		{"t", true},
		{"false", false},
		{"False.", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockText(tt.reply))
			ok, err := NewLLMJudge(mock).Judge(context.Background(), q, "the powerhouse")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			require.Len(t, mock.Calls, 1)
			req := mock.Calls[0]
			assert.Equal(t, judgeSystemPrompt, req.System)
			assert.Equal(t, 3, req.MaxTokens)
			require.NotNil(t, req.Temperature)
			assert.Zero(t, *req.Temperature)
			assert.Contains(t, mock.LastPrompt(), "Correct Answer: Mitochondria")
			assert.Contains(t, mock.LastPrompt(), "Student's Answer: the powerhouse")
		})
	}
}

func TestLLMJudge_SendsZeroTemperature(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-judge",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "true"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 1, "total_tokens": 31},
		})
	}))
	t.Cleanup(server.Close)

	provider, err := llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	q := Question{Text: "What organelle makes ATP?", CorrectAnswer: "Mitochondria"}
	ok, err := NewLLMJudge(provider).Judge(context.Background(), q, "the powerhouse")
	require.NoError(t, err)
	assert.True(t, ok)

	temp, present := body["temperature"]
	require.True(t, present, "judge request must carry a temperature")
	assert.InDelta(t, 0, temp.(float64), 1e-6)
	assert.EqualValues(t, 3, body["max_completion_tokens"])
}

func TestLLMJudge_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	_, err := NewLLMJudge(mock).Judge(context.Background(), Question{}, "x")
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}
