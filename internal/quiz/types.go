package quiz

import (
	"strings"
	"time"
)

// Kind is the answer format of a question.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindShortAnswer    Kind = "short_answer"

	// KindMixed selects a per-question draw. It is never the kind of a
	// generated question.
	KindMixed Kind = "mixed"
)

// Kinds lists the concrete question kinds in display order.
var Kinds = []Kind{KindMultipleChoice, KindTrueFalse, KindShortAnswer}

// Valid reports whether k is a concrete question kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindShortAnswer:
		return true
	}
	return false
}

// Label returns the human-readable name of k.
func (k Kind) Label() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple Choice"
	case KindTrueFalse:
		return "True/False"
	case KindShortAnswer:
		return "Short Answer"
	case KindMixed:
		return "Mixed"
	}
	return string(k)
}

// ParseKind turns a stored kind, a request label such as "True/False Only"
// or a loose model spelling such as "multiple-choice" into a Kind. ok is
// false when nothing matches.
func ParseKind(s string) (k Kind, ok bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, " only")
	norm = strings.TrimSuffix(norm, " questions")
	norm = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(norm)

	switch norm {
	case "multiple_choice", "mc", "mcq", "multiplechoice":
		return KindMultipleChoice, true
	case "true_false", "tf", "truefalse", "true_or_false", "boolean":
		return KindTrueFalse, true
	case "short_answer", "sa", "shortanswer", "open", "open_ended":
		return KindShortAnswer, true
	case "mixed":
		return KindMixed, true
	}
	return "", false
}

// Question is one normalized quiz question.
type Question struct {
	// ID is the 1-based position within the quiz.
	ID int `json:"id"`

	Text string `json:"question"`
	Kind Kind   `json:"type"`

	// Options holds the choices for multiple choice questions, in the
	// order the letters A, B, C... refer to.
	Options []string `json:"options"`

	// CorrectAnswer is a letter or option text for multiple choice,
	// "True"/"False" for true/false, free text for short answer. Empty
	// when nothing could be recovered.
	CorrectAnswer string `json:"correct_answer"`

	Explanation string `json:"explanation"`
	Points      int    `json:"points"`
}

// Quiz is an immutable generated quiz.
type Quiz struct {
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`

	// RequestedKind is the filter the quiz was generated with; may be
	// KindMixed.
	RequestedKind Kind `json:"question_type"`

	// SourceContent is the learner's text before preprocessing.
	SourceContent string `json:"original_content"`

	Questions []Question    `json:"questions"`
	CreatedAt time.Time     `json:"created_at"`
	Skipped   []DrawFailure `json:"skipped,omitempty"`
}

// DrawFailure records a mixed-quiz draw that produced no question.
type DrawFailure struct {
	Draw   int    `json:"draw"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// GenerateRequest asks the pipeline for a quiz.
type GenerateRequest struct {
	Content    string
	Kind       Kind
	Count      int
	Difficulty string
}
