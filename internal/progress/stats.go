package progress

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Trend describes the direction of recent quiz scores.
type Trend string

const (
	TrendImproving    Trend = "Improving"
	TrendDeclining    Trend = "Declining"
	TrendStable       Trend = "Stable"
	TrendInsufficient Trend = "Insufficient data"
	TrendNoData       Trend = "No data"
)

// trendWindow is how many of the latest quiz scores feed the trend.
const trendWindow = 5

// trendThreshold is the half-to-half change, in score points, that counts
// as movement.
const trendThreshold = 5.0

// Stats summarizes a set of activities.
type Stats struct {
	TotalSessions     int     `json:"total_sessions"`
	TotalStudyMinutes int     `json:"total_study_time"`
	AverageScore      float64 `json:"average_score"`
	TotalQuestions    int     `json:"total_questions"`
	Accuracy          float64 `json:"accuracy"`
	Trend             Trend   `json:"improvement_trend"`
	QuizSessions      int     `json:"quiz_sessions"`
	NotesCreated      int     `json:"notes_created"`
	FlashcardsStudied int     `json:"flashcards_studied"`
}

// SubjectStats summarizes the activities for subject, or all of them when
// subject is empty.
func SubjectStats(acts []Activity, subject string) Stats {
	var filtered []Activity
	for _, a := range acts {
		if subject == "" || a.subject() == subject {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == 0 {
		return Stats{Trend: TrendNoData}
	}

	var st Stats
	var quizzes []Activity
	var correct int
	var scoreSum float64
	for _, a := range filtered {
		st.TotalStudyMinutes += a.DurationMinutes
		st.TotalQuestions += a.QuestionsAnswered
		st.NotesCreated += a.NotesCreated
		st.FlashcardsStudied += a.FlashcardsStudied
		correct += a.CorrectAnswers
		if a.scoredQuiz() {
			quizzes = append(quizzes, a)
			scoreSum += *a.Score
		}
	}
	st.TotalSessions = len(filtered)
	st.QuizSessions = len(quizzes)
	if len(quizzes) > 0 {
		st.AverageScore = round1(scoreSum / float64(len(quizzes)))
	}
	if st.TotalQuestions > 0 {
		st.Accuracy = round1(float64(correct) / float64(st.TotalQuestions) * 100)
	}
	st.Trend = trend(quizzes)
	return st
}

// trend compares the older and newer halves of the latest quiz scores.
func trend(quizzes []Activity) Trend {
	if len(quizzes) < 2 {
		return TrendInsufficient
	}
	sorted := slices.Clone(quizzes)
	slices.SortStableFunc(sorted, func(a, b Activity) int { return a.Timestamp.Compare(b.Timestamp) })
	if len(sorted) > trendWindow {
		sorted = sorted[len(sorted)-trendWindow:]
	}

	mid := len(sorted) / 2
	diff := meanScore(sorted[mid:]) - meanScore(sorted[:mid])
	switch {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(acts []Activity) float64 {
	var sum float64
	for _, a := range acts {
		sum += *a.Score
	}
	return sum / float64(len(acts))
}

// Weekly is the activity summary for the seven days before a point in time.
type Weekly struct {
	Period            string           `json:"period"`
	TotalSessions     int              `json:"total_sessions"`
	Subjects          map[string]Stats `json:"subjects"`
	TotalStudyMinutes int              `json:"total_study_time"`
}

// WeeklySummary summarizes activities newer than a week before now.
func WeeklySummary(acts []Activity, now time.Time) Weekly {
	recent := since(acts, now.AddDate(0, 0, -7))
	w := Weekly{
		Period:        "Past 7 days",
		TotalSessions: len(recent),
		Subjects:      make(map[string]Stats),
	}
	for _, a := range recent {
		w.TotalStudyMinutes += a.DurationMinutes
		if _, ok := w.Subjects[a.subject()]; !ok {
			w.Subjects[a.subject()] = SubjectStats(recent, a.subject())
		}
	}
	return w
}

func since(acts []Activity, cutoff time.Time) []Activity {
	var out []Activity
	for _, a := range acts {
		if a.Timestamp.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// Analysis lists strong and weak subjects by average quiz score.
type Analysis struct {
	Strengths        []string `json:"strengths"`
	NeedsImprovement []string `json:"needs_improvement"`
	Recommendations  []string `json:"recommendations"`
}

// Score bands used by StrengthsAndWeaknesses.
const (
	StrengthScore = 85.0
	WeakScore     = 70.0
)

// StrengthsAndWeaknesses classifies subjects with at least two scored
// quizzes. Subjects are reported in name order.
func StrengthsAndWeaknesses(acts []Activity) Analysis {
	scores := make(map[string][]float64)
	for _, a := range acts {
		if a.scoredQuiz() {
			scores[a.subject()] = append(scores[a.subject()], *a.Score)
		}
	}
	subjects := make([]string, 0, len(scores))
	for s := range scores {
		subjects = append(subjects, s)
	}
	slices.Sort(subjects)

	an := Analysis{Strengths: []string{}, NeedsImprovement: []string{}, Recommendations: []string{}}
	for _, s := range subjects {
		list := scores[s]
		if len(list) < 2 {
			continue
		}
		var sum float64
		for _, v := range list {
			sum += v
		}
		avg := sum / float64(len(list))
		switch {
		case avg >= StrengthScore:
			an.Strengths = append(an.Strengths, fmt.Sprintf("%s (avg: %.1f%%)", s, avg))
		case avg < WeakScore:
			an.NeedsImprovement = append(an.NeedsImprovement, fmt.Sprintf("%s (avg: %.1f%%)", s, avg))
		}
	}

	if len(an.NeedsImprovement) > 0 {
		an.Recommendations = append(an.Recommendations,
			"Create more flashcards for subjects needing improvement",
			"Schedule regular review sessions for weak subjects",
			"Try different question types to reinforce learning",
		)
	}
	if len(an.Strengths) > 0 {
		an.Recommendations = append(an.Recommendations, "Continue regular practice in your strong subjects")
	}
	return an
}

// Recommendations gives study habit tips based on the past week.
func Recommendations(acts []Activity, now time.Time) []string {
	if len(acts) == 0 {
		return []string{"Start by creating some notes and taking quizzes to get personalized recommendations!"}
	}

	recent := since(acts, now.AddDate(0, 0, -7))
	var tips []string
	if len(recent) < 3 {
		tips = append(tips, "Try to study more consistently - aim for at least 3 sessions per week")
	}

	var quizzes []Activity
	minutes := 0
	subjects := make(map[string]struct{})
	for _, a := range recent {
		if a.scoredQuiz() {
			quizzes = append(quizzes, a)
		}
		minutes += a.DurationMinutes
		subjects[a.subject()] = struct{}{}
	}
	if len(quizzes) > 0 && meanScore(quizzes) < 75 {
		tips = append(tips,
			"Consider reviewing your notes before taking quizzes",
			"Try creating flashcards to reinforce key concepts",
		)
	}
	if minutes < 60 {
		tips = append(tips, "Consider increasing your study time - even 15 minutes daily helps!")
	}
	if len(subjects) == 1 {
		tips = append(tips, "Try studying multiple subjects to keep learning diverse and engaging")
	}

	if len(tips) == 0 {
		tips = append(tips, "Great job! You're maintaining good study habits. Keep it up!")
	}
	return tips
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
