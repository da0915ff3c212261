package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/quiz"
)

var t0 = time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

func testQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		Title:         "Geography",
		Difficulty:    "Easy",
		RequestedKind: quiz.KindMixed,
		SourceContent: "Paris is the capital of France.",
		CreatedAt:     t0.Add(-time.Hour),
		Questions: []quiz.Question{
			{ID: 1, Text: "Capital of France?", Kind: quiz.KindMultipleChoice, Options: []string{"Paris", "Rome"}, CorrectAnswer: "A", Points: 1},
			{ID: 2, Text: "Paris is in Spain.", Kind: quiz.KindTrueFalse, Options: []string{}, CorrectAnswer: "False", Points: 1},
			{ID: 3, Text: "Name the river in Paris.", Kind: quiz.KindShortAnswer, Options: []string{}, CorrectAnswer: "Seine", Points: 1},
		},
	}
}

func TestStart(t *testing.T) {
	qz := testQuiz()
	a, err := Start(qz, t0)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, PhaseActive, a.Phase)
	assert.Equal(t, t0, a.StartedAt)
	assert.Equal(t, 1, a.Current().ID)
	assert.Equal(t, Progress{Index: 0, Total: 3, Answered: 0}, a.Progress())
	assert.Equal(t, qz.CreatedAt, a.Quiz.CreatedAt)
	require.Len(t, a.Quiz.Questions, 3)
	assert.Equal(t, []string{"Paris", "Rome"}, a.Quiz.Questions[0].Options)
	assert.Equal(t, "Seine", a.Quiz.Questions[2].CorrectAnswer)

	qz.Questions[0].Options[0] = "Lyon"
	qz.Questions[1].Text = "changed"
	assert.Equal(t, "Paris", a.Quiz.Questions[0].Options[0], "attempt holds its own copy")
	assert.Equal(t, "Paris is in Spain.", a.Quiz.Questions[1].Text)
}

func TestStart_NoQuestions(t *testing.T) {
	_, err := Start(&quiz.Quiz{}, t0)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)

	_, err = Start(nil, t0)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}

func TestNavigation(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)

	assert.False(t, a.Prev())
	assert.True(t, a.Next())
	assert.True(t, a.Next())
	assert.True(t, a.IsLast())
	assert.False(t, a.Next())
	assert.Equal(t, 3, a.Current().ID)
	assert.True(t, a.Prev())
	assert.Equal(t, 1, a.Index())
}

func TestAnswer(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)

	require.NoError(t, a.Answer(1, " Paris "))
	assert.True(t, a.Answered(1))
	assert.Equal(t, "Paris", a.AnswerFor(1))

	require.NoError(t, a.Answer(1, "B"))
	assert.Equal(t, "B", a.AnswerFor(1), "later answers replace earlier ones")

	require.NoError(t, a.Answer(1, "  "))
	assert.False(t, a.Answered(1), "blank clears the answer")

	assert.ErrorIs(t, a.Answer(99, "x"), ErrUnknownQuestion)
}

func TestCanFinish(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)

	require.NoError(t, a.Answer(1, "A"))
	assert.False(t, a.CanFinish(), "not on the last question")

	a.Next()
	a.Next()
	assert.False(t, a.CanFinish(), "last question unanswered")

	require.NoError(t, a.Answer(3, "Seine"))
	assert.True(t, a.CanFinish())
}

func TestFinish(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)
	require.NoError(t, a.Answer(1, "Paris"))
	require.NoError(t, a.Answer(2, "true"))
	require.NoError(t, a.Answer(3, "the seine"))

	rec, err := a.Finish(context.Background(), quiz.NewGrader(nil), t0.Add(95*time.Second))
	require.NoError(t, err)

	assert.Equal(t, a.ID, rec.ID)
	assert.Equal(t, PhaseCompleted, a.Phase)
	assert.Same(t, rec, a.Record)
	assert.Equal(t, 2, rec.CorrectAnswers)
	assert.Equal(t, 3, rec.TotalQuestions)
	assert.Equal(t, 66.7, rec.Score)
	assert.Equal(t, 95*time.Second, rec.TimeTaken)
	assert.Equal(t, quiz.KindMixed, rec.QuestionType)
	assert.Equal(t, "Paris is the capital of France.", rec.OriginalContent)

	assert.ErrorIs(t, a.Answer(1, "B"), ErrAttemptClosed)
	_, err = a.Finish(context.Background(), quiz.NewGrader(nil), t0)
	assert.ErrorIs(t, err, ErrAttemptClosed)
	assert.False(t, a.Next())
}

func TestFinish_UnansweredGradesEmpty(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)

	rec, err := a.Finish(context.Background(), quiz.NewGrader(nil), t0)
	require.NoError(t, err)
	assert.Zero(t, rec.CorrectAnswers)
	assert.Equal(t, 0.0, rec.Score)
	for _, d := range rec.Details {
		assert.Equal(t, "", d.UserAnswer)
	}
}

func TestAbandon(t *testing.T) {
	a, err := Start(testQuiz(), t0)
	require.NoError(t, err)

	a.Abandon()
	assert.Equal(t, PhaseAbandoned, a.Phase)
	assert.Equal(t, "abandoned", a.Phase.String())
	assert.ErrorIs(t, a.Answer(1, "A"), ErrAttemptClosed)
	_, err = a.Finish(context.Background(), quiz.NewGrader(nil), t0)
	assert.ErrorIs(t, err, ErrAttemptClosed)
	assert.Nil(t, a.Record)
}
