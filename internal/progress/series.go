package progress

import (
	"slices"
	"time"
)

// ScorePoint is one quiz score on the timeline.
type ScorePoint struct {
	At    time.Time
	Score float64
}

// ScoreSeries returns the latest n scored quizzes oldest first.
func ScoreSeries(acts []Activity, n int) []ScorePoint {
	var pts []ScorePoint
	for _, a := range acts {
		if a.scoredQuiz() {
			pts = append(pts, ScorePoint{At: a.Timestamp, Score: *a.Score})
		}
	}
	slices.SortStableFunc(pts, func(a, b ScorePoint) int { return a.At.Compare(b.At) })
	if n > 0 && len(pts) > n {
		pts = pts[len(pts)-n:]
	}
	return pts
}

// StudyTimeBySubject totals minutes per subject.
func StudyTimeBySubject(acts []Activity) map[string]int {
	out := make(map[string]int)
	for _, a := range acts {
		out[a.subject()] += a.DurationMinutes
	}
	return out
}

// SessionsByWeekday counts activities per weekday, Monday first.
func SessionsByWeekday(acts []Activity) [7]int {
	var counts [7]int
	for _, a := range acts {
		counts[(int(a.Timestamp.Weekday())+6)%7]++
	}
	return counts
}
