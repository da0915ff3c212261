package quiz

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KindStats is the per-kind breakdown of a graded quiz.
type KindStats struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// QuizSessionRecord is the stored outcome of one quiz attempt.
type QuizSessionRecord struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Title           string             `json:"title"`
	Score           float64            `json:"score"`
	CorrectAnswers  int                `json:"correct_answers"`
	TotalQuestions  int                `json:"total_questions"`
	Difficulty      string             `json:"difficulty"`
	QuestionType    Kind               `json:"question_type"`
	ByKind          map[Kind]KindStats `json:"by_kind"`
	OriginalContent string             `json:"original_content"`
	Details         []GradingResult    `json:"detailed_results"`
	TimeTaken       time.Duration      `json:"time_taken"`
}

// Breakdown folds results into per-kind stats.
func Breakdown(results []GradingResult) map[Kind]KindStats {
	out := make(map[Kind]KindStats)
	for _, r := range results {
		s := out[r.Kind]
		s.Total++
		if r.IsCorrect {
			s.Correct++
		}
		out[r.Kind] = s
	}
	for k, s := range out {
		s.Accuracy = round1(Percent(s.Correct, s.Total))
		out[k] = s
	}
	return out
}

// NewRecord builds the session record for a graded submission.
func NewRecord(qz *Quiz, sub *Submission, timeTaken time.Duration) *QuizSessionRecord {
	details := slices.Clone(sub.Details)
	return &QuizSessionRecord{
		ID:              uuid.NewString(),
		Timestamp:       sub.GradedAt,
		Title:           qz.Title,
		Score:           round1(sub.Percent),
		CorrectAnswers:  sub.Score,
		TotalQuestions:  sub.Total,
		Difficulty:      qz.Difficulty,
		QuestionType:    qz.RequestedKind,
		ByKind:          Breakdown(details),
		OriginalContent: qz.SourceContent,
		Details:         details,
		TimeTaken:       timeTaken,
	}
}

// TimeTakenLabel renders the duration as "3m 07s".
func (r *QuizSessionRecord) TimeTakenLabel() string {
	secs := int(r.TimeTaken.Seconds())
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

// Missed returns the results answered incorrectly.
func (r *QuizSessionRecord) Missed() []GradingResult {
	var out []GradingResult
	for _, d := range r.Details {
		if !d.IsCorrect {
			out = append(out, d)
		}
	}
	return out
}

// RetakeRequest rebuilds the request that produced r.
func RetakeRequest(r *QuizSessionRecord) GenerateRequest {
	kind := r.QuestionType
	if kind == "" {
		kind = KindMixed
	}
	return GenerateRequest{
		Content:    r.OriginalContent,
		Kind:       kind,
		Count:      max(r.TotalQuestions, 1),
		Difficulty: r.Difficulty,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Band is a performance level.
type Band string

const (
	BandOutstanding Band = "outstanding"
	BandStrong      Band = "strong"
	BandGood        Band = "good"
	BandImprove     Band = "needs_improvement"
)

// FeedbackNote is the performance summary shown after a quiz.
type FeedbackNote struct {
	Band    Band
	Message string
	Tips    []string
}

// Feedback classifies a percentage score.
func Feedback(percent float64) FeedbackNote {
	switch {
	case percent >= 90:
		return FeedbackNote{
			Band:    BandOutstanding,
			Message: "Outstanding performance! You've mastered this material.",
			Tips: []string{
				"Challenge yourself with more advanced material",
				"Help others learn these concepts",
			},
		}
	case percent >= 80:
		return FeedbackNote{
			Band:    BandStrong,
			Message: "Strong performance! You understand most concepts well.",
			Tips:    reviewTips(),
		}
	case percent >= 70:
		return FeedbackNote{
			Band:    BandGood,
			Message: "Good effort. Review these areas to improve.",
			Tips:    reviewTips(),
		}
	default:
		return FeedbackNote{
			Band:    BandImprove,
			Message: "Needs improvement. Focus on the fundamentals.",
			Tips: []string{
				"Review the foundational concepts",
				"Practice with similar quizzes",
				"Study in shorter, more frequent sessions",
			},
		}
	}
}

func reviewTips() []string {
	return []string{"Review your incorrect answers", "Create flashcards for key concepts"}
}

// HistoryFilter selects and orders stored records.
type HistoryFilter struct {
	// Difficulty and Kind match case-insensitively; empty matches all.
	Difficulty string
	Kind       Kind

	// Sort is one of "newest" (default), "oldest", "highest", "lowest".
	Sort string
}

// FilterHistory returns the records matching f in f's order. The input
// slice is not modified.
func FilterHistory(records []QuizSessionRecord, f HistoryFilter) []QuizSessionRecord {
	out := make([]QuizSessionRecord, 0, len(records))
	for _, r := range records {
		if f.Difficulty != "" && !strings.EqualFold(r.Difficulty, f.Difficulty) {
			continue
		}
		if f.Kind != "" && r.QuestionType != f.Kind {
			continue
		}
		out = append(out, r)
	}

	var cmp func(a, b QuizSessionRecord) int
	switch f.Sort {
	case "oldest":
		cmp = func(a, b QuizSessionRecord) int { return a.Timestamp.Compare(b.Timestamp) }
	case "highest":
		cmp = func(a, b QuizSessionRecord) int { return compareFloat(b.Score, a.Score) }
	case "lowest":
		cmp = func(a, b QuizSessionRecord) int { return compareFloat(a.Score, b.Score) }
	default:
		cmp = func(a, b QuizSessionRecord) int { return b.Timestamp.Compare(a.Timestamp) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
