package quiz

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
)

// Method names how a grading decision was reached.
type Method string

const (
	MethodExact       Method = "exact"
	MethodContainment Method = "containment"
	MethodJudge       Method = "ai_judge"
	MethodNone        Method = "none"
)

// Judge decides whether a free-text answer is equivalent to the expected
// one. Errors count as incorrect.
type Judge interface {
	Judge(ctx context.Context, q Question, answer string) (bool, error)
}

// GradingResult is the verdict on one answer.
type GradingResult struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	Kind          Kind   `json:"question_type"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
	PointsAwarded int    `json:"points_awarded"`
	Method        Method `json:"method"`
}

// Submission is a graded quiz.
type Submission struct {
	Score    int             `json:"score"`
	Total    int             `json:"total"`
	Percent  float64         `json:"percent"`
	Details  []GradingResult `json:"details"`
	GradedAt time.Time       `json:"graded_at"`
}

// Grader scores answers. Short answers that neither match nor contain the
// expected answer go to the judge; a nil judge marks them incorrect.
type Grader struct {
	judge Judge
}

// NewGrader returns a Grader using judge for short answers. judge may be nil.
func NewGrader(judge Judge) *Grader {
	return &Grader{judge: judge}
}

// Grade scores one answer.
func (g *Grader) Grade(ctx context.Context, q Question, answer string) GradingResult {
	answer = strings.TrimSpace(answer)
	res := GradingResult{
		QuestionID:    q.ID,
		Question:      q.Text,
		Kind:          q.Kind,
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Method:        MethodExact,
	}

	switch q.Kind {
	case KindMultipleChoice:
		res.IsCorrect = gradeChoice(q, answer)
	case KindTrueFalse:
		res.IsCorrect = gradeTruth(q.CorrectAnswer, answer)
	default:
		res.IsCorrect, res.Method = g.gradeShort(ctx, q, answer)
	}
	if res.IsCorrect {
		res.PointsAwarded = max(q.Points, 1)
	}
	return res
}

// GradeSubmission grades every question of qz. Missing answers grade as
// empty.
func (g *Grader) GradeSubmission(ctx context.Context, qz *Quiz, answers map[int]string, now time.Time) *Submission {
	sub := &Submission{
		Total:    len(qz.Questions),
		Details:  make([]GradingResult, 0, len(qz.Questions)),
		GradedAt: now,
	}
	for _, q := range qz.Questions {
		res := g.Grade(ctx, q, answers[q.ID])
		if res.IsCorrect {
			sub.Score++
		}
		sub.Details = append(sub.Details, res)
	}
	sub.Percent = Percent(sub.Score, sub.Total)
	return sub
}

// Percent is correct/total*100, or 0 for an empty quiz.
func Percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func gradeChoice(q Question, answer string) bool {
	if answer == "" {
		return false
	}
	want := q.CorrectAnswer
	if len(q.Options) == 0 {
		return strings.EqualFold(answer, want)
	}

	wantIdx := -1
	if len(want) == 1 && isLetter(want[0]) {
		if i := letterIndex(want[0]); i < len(q.Options) {
			wantIdx = i
		}
	} else {
		wantIdx = optionIndex(want, q.Options)
	}
	if wantIdx < 0 {
		return strings.EqualFold(answer, want)
	}
	return choiceIndex(answer, q.Options) == wantIdx
}

// choiceIndex maps a learner answer to an option: by option text first,
// then by letter, including "B) Rome" style answers.
func choiceIndex(answer string, options []string) int {
	if i := optionIndex(answer, options); i >= 0 {
		return i
	}
	letter := ""
	if len(answer) == 1 && isLetter(answer[0]) {
		letter = answer
	} else if m := letterPrefix.FindStringSubmatch(answer); m != nil {
		letter = m[1]
	}
	if letter == "" {
		return -1
	}
	if i := letterIndex(letter[0]); i < len(options) {
		return i
	}
	return -1
}

func letterIndex(c byte) int {
	return int(unicode.ToUpper(rune(c)) - 'A')
}

func gradeTruth(want, answer string) bool {
	w, wok := coerceTruth(want)
	a, aok := coerceTruth(answer)
	if wok && aok {
		return w == a
	}
	return answer != "" && strings.EqualFold(want, answer)
}

func coerceTruth(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "a) true":
		return true, true
	case "false", "f", "no", "n", "0", "b) false":
		return false, true
	}
	return false, false
}

func (g *Grader) gradeShort(ctx context.Context, q Question, answer string) (bool, Method) {
	want := strings.TrimSpace(q.CorrectAnswer)
	if want == "" || answer == "" {
		return false, MethodNone
	}
	if strings.EqualFold(want, answer) {
		return true, MethodExact
	}
	wt, at := words(want), words(answer)
	if containsRun(at, wt) || containsRun(wt, at) {
		return true, MethodContainment
	}
	if g.judge == nil {
		return false, MethodNone
	}

	ok, err := g.judge.Judge(ctx, q, answer)
	if err != nil {
		log.Warn().Err(err).Int("question_id", q.ID).Msg("short answer judge failed")
		return false, MethodJudge
	}
	return ok, MethodJudge
}

// words lowercases s and splits it on anything that is not a letter or
// digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether needle occurs as a contiguous run of whole
// words in hay.
func containsRun(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, w := range needle {
			if hay[i+j] != w {
				continue outer
			}
		}
		return true
	}
	return false
}
