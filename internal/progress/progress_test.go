package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/store"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) // a Monday

func score(v float64) *float64 { return &v }

func quizAt(subject string, s float64, daysAgo int) Activity {
	return Activity{
		Type:              store.ActivityQuiz,
		Subject:           subject,
		Score:             score(s),
		QuestionsAnswered: 10,
		CorrectAnswers:    int(s / 10),
		DurationMinutes:   10,
		Timestamp:         now.AddDate(0, 0, -daysAgo),
	}
}

func TestSubjectStats_NoData(t *testing.T) {
	st := SubjectStats(nil, "")
	assert.Equal(t, Stats{Trend: TrendNoData}, st)

	st = SubjectStats([]Activity{quizAt("Math", 80, 1)}, "History")
	assert.Equal(t, TrendNoData, st.Trend)
}

func TestSubjectStats(t *testing.T) {
	acts := []Activity{
		quizAt("Math", 70, 3),
		quizAt("Math", 90, 1),
		{Type: store.ActivityStudy, Subject: "Math", DurationMinutes: 30, NotesCreated: 2, Timestamp: now},
		{Type: store.ActivityQuiz, Subject: "Math", Timestamp: now},
		quizAt("Biology", 50, 2),
	}

	st := SubjectStats(acts, "Math")
	assert.Equal(t, 4, st.TotalSessions)
	assert.Equal(t, 50, st.TotalStudyMinutes)
	assert.Equal(t, 2, st.QuizSessions, "unscored quizzes are not counted")
	assert.Equal(t, 80.0, st.AverageScore)
	assert.Equal(t, 20, st.TotalQuestions)
	assert.Equal(t, 80.0, st.Accuracy)
	assert.Equal(t, 2, st.NotesCreated)
	assert.Equal(t, TrendImproving, st.Trend)

	all := SubjectStats(acts, "")
	assert.Equal(t, 5, all.TotalSessions)
	assert.Equal(t, 70.0, all.AverageScore)
}

func TestSubjectStats_DefaultSubject(t *testing.T) {
	st := SubjectStats([]Activity{quizAt("", 60, 0)}, DefaultSubject)
	assert.Equal(t, 1, st.TotalSessions)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Trend
	}{
		{"single", []float64{80}, TrendInsufficient},
		{"improving", []float64{60, 70, 80}, TrendImproving},
		{"declining", []float64{90, 80}, TrendDeclining},
		{"stable within threshold", []float64{80, 84}, TrendStable},
		{"only last five", []float64{10, 10, 80, 80, 80, 80, 80}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acts []Activity
			for i, s := range tt.scores {
				acts = append(acts, quizAt("Math", s, len(tt.scores)-i))
			}
			// input order does not matter
			acts[0], acts[len(acts)-1] = acts[len(acts)-1], acts[0]
			assert.Equal(t, tt.want, trend(acts))
		})
	}
}

func TestWeeklySummary(t *testing.T) {
	acts := []Activity{
		quizAt("Math", 80, 1),
		quizAt("Math", 60, 6),
		quizAt("Biology", 90, 3),
		quizAt("Math", 100, 8),
	}
	w := WeeklySummary(acts, now)
	assert.Equal(t, "Past 7 days", w.Period)
	assert.Equal(t, 3, w.TotalSessions)
	assert.Equal(t, 30, w.TotalStudyMinutes)
	require.Contains(t, w.Subjects, "Math")
	assert.Equal(t, 70.0, w.Subjects["Math"].AverageScore)
	assert.Equal(t, 1, w.Subjects["Biology"].TotalSessions)
}

func TestStrengthsAndWeaknesses(t *testing.T) {
	acts := []Activity{
		quizAt("Physics", 90, 1), quizAt("Physics", 88, 2),
		quizAt("History", 60, 1), quizAt("History", 65, 2),
		quizAt("Math", 75, 1), quizAt("Math", 78, 2),
		quizAt("Art", 20, 1),
	}
	an := StrengthsAndWeaknesses(acts)
	assert.Equal(t, []string{"Physics (avg: 89.0%)"}, an.Strengths)
	assert.Equal(t, []string{"History (avg: 62.5%)"}, an.NeedsImprovement)
	assert.Len(t, an.Recommendations, 4)
	assert.Equal(t, "Continue regular practice in your strong subjects", an.Recommendations[3])

	empty := StrengthsAndWeaknesses(nil)
	assert.Empty(t, empty.Strengths)
	assert.Empty(t, empty.Recommendations)
}

func TestRecommendations(t *testing.T) {
	assert.Equal(t,
		[]string{"Start by creating some notes and taking quizzes to get personalized recommendations!"},
		Recommendations(nil, now))

	tips := Recommendations([]Activity{quizAt("Math", 50, 1)}, now)
	assert.Equal(t, []string{
		"Try to study more consistently - aim for at least 3 sessions per week",
		"Consider reviewing your notes before taking quizzes",
		"Try creating flashcards to reinforce key concepts",
		"Consider increasing your study time - even 15 minutes daily helps!",
		"Try studying multiple subjects to keep learning diverse and engaging",
	}, tips)

	var good []Activity
	for i, s := range []string{"Math", "Biology", "History"} {
		a := quizAt(s, 90, i)
		a.DurationMinutes = 30
		good = append(good, a)
	}
	assert.Equal(t, []string{"Great job! You're maintaining good study habits. Keep it up!"}, Recommendations(good, now))
}

func TestSeries(t *testing.T) {
	acts := []Activity{quizAt("Math", 70, 1), quizAt("Math", 60, 3), quizAt("Bio", 80, 2)}
	pts := ScoreSeries(acts, 2)
	require.Len(t, pts, 2)
	assert.Equal(t, 80.0, pts[0].Score)
	assert.Equal(t, 70.0, pts[1].Score)

	assert.Equal(t, map[string]int{"Math": 20, "Bio": 10}, StudyTimeBySubject(acts))

	days := SessionsByWeekday([]Activity{{Timestamp: now}, {Timestamp: now.AddDate(0, 0, -1)}})
	assert.Equal(t, 1, days[0], "Monday")
	assert.Equal(t, 1, days[6], "Sunday")
}

func TestRowConversion(t *testing.T) {
	a := quizAt("Math", 80, 0)
	a.RecordID = "rec-1"
	row := a.Row("ada")
	assert.Equal(t, "ada", row.Username)
	assert.Equal(t, a, FromRow(row))
}
