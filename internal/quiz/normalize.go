package quiz

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// answerFields are read in order until one yields a non-empty answer.
var answerFields = []string{"correct_answer", "sample_answer", "expected_answer", "answer", "key_points"}

var (
	optionMarker = regexp.MustCompile(`(?:^|\s)([A-D])\)\s*`)
	letterPrefix = regexp.MustCompile(`^([A-Za-z])[).]`)
	optionLabel  = regexp.MustCompile(`^[A-Za-z][).]\s*`)
	truthToken   = regexp.MustCompile(`(?i)\b(true|false)\b`)
)

// Normalize projects raw candidates into questions. requested is the kind
// the quiz was asked for and fills in for candidates without a usable type;
// pass KindMixed to infer kinds from the candidates themselves. Candidates
// without question text are dropped, later questions repeating an earlier
// text are dropped, and IDs are renumbered from 1.
func Normalize(raw []Value, requested Kind) []Question {
	out := make([]Question, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, v := range raw {
		q, ok := normalizeOne(v, requested)
		if !ok || seen[q.Text] {
			continue
		}
		seen[q.Text] = true
		q.ID = len(out) + 1
		out = append(out, q)
	}
	return out
}

func normalizeOne(v Value, requested Kind) (Question, bool) {
	text := fieldText(v, "question", "question_text", "text")
	if text == "" {
		return Question{}, false
	}

	var rawOptions, options []string
	if f, ok := v.Field("options", "choices"); ok {
		rawOptions = f.Texts()
		options = f.TextList()
	}
	answer := ""
	for _, name := range answerFields {
		if answer = fieldText(v, name); answer != "" {
			break
		}
	}

	q := Question{
		Text:        text,
		Kind:        resolveKind(v, requested, options, answer),
		Options:     options,
		Explanation: fieldText(v, "explanation"),
		Points:      1,
	}
	if f, ok := v.Field("points"); ok {
		if n, ok := f.Int(); ok && n > 0 {
			q.Points = n
		}
	}

	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) == 0 {
			q.Text, q.Options = scrapeOptions(q.Text)
		}
		q.CorrectAnswer = remapLetter(canonicalChoice(answer, q.Options), rawOptions)
	case KindTrueFalse:
		if answer == "" {
			answer = truthFromExplanation(q.Explanation)
		}
		q.CorrectAnswer = canonicalTruth(answer)
	default:
		q.CorrectAnswer = answer
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return q, true
}

// resolveKind prefers the candidate's own type. Missing or "mixed" types
// take the requested kind, or are inferred when that is mixed too; any
// other unrecognized type is short answer.
func resolveKind(v Value, requested Kind, options []string, answer string) Kind {
	if f, ok := v.Field("type", "question_type"); ok {
		if t := f.Text(); t != "" {
			k, ok := ParseKind(t)
			switch {
			case !ok:
				return KindShortAnswer
			case k != KindMixed:
				return k
			}
		}
	}
	if requested.Valid() {
		return requested
	}
	return inferKind(options, answer)
}

func inferKind(options []string, answer string) Kind {
	if len(options) > 0 {
		return KindMultipleChoice
	}
	switch strings.ToLower(answer) {
	case "true", "false":
		return KindTrueFalse
	}
	return KindShortAnswer
}

func canonicalTruth(answer string) string {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "a) true", "true", "t", "yes", "1":
		return "True"
	case "b) false", "false", "f", "no", "0":
		return "False"
	}
	return answer
}

func canonicalChoice(answer string, options []string) string {
	answer = strings.TrimSpace(answer)
	if len(answer) == 1 && isLetter(answer[0]) {
		return strings.ToUpper(answer)
	}
	if i := optionIndex(answer, options); i >= 0 {
		return options[i]
	}
	if m := letterPrefix.FindStringSubmatch(answer); m != nil {
		return strings.ToUpper(m[1])
	}
	return answer
}

// remapLetter moves a letter answer from its position in raw, which may
// hold empty options, to the same option's position once empties are
// dropped. Letters that point past raw or at an empty option are kept.
func remapLetter(answer string, raw []string) string {
	if len(answer) != 1 || !isLetter(answer[0]) {
		return answer
	}
	idx := int(answer[0] - 'A')
	if idx >= len(raw) || raw[idx] == "" {
		return answer
	}
	kept := 0
	for _, opt := range raw[:idx] {
		if opt != "" {
			kept++
		}
	}
	return string(rune('A' + kept))
}

// optionIndex finds the option whose text, with or without its "A) "
// label, equals s ignoring case.
func optionIndex(s string, options []string) int {
	if s == "" {
		return -1
	}
	for i, opt := range options {
		if strings.EqualFold(s, opt) {
			return i
		}
	}
	for i, opt := range options {
		if strings.EqualFold(s, optionBody(opt)) {
			return i
		}
	}
	return -1
}

// optionBody strips a leading "A) " or "A. " label.
func optionBody(opt string) string {
	return strings.TrimSpace(optionLabel.ReplaceAllString(opt, ""))
}

// scrapeOptions pulls "A) ... B) ..." choices out of a question text. The
// labels must run A, B, C... in order; at least two are needed. The stem
// before the first label becomes the question text when non-empty.
func scrapeOptions(text string) (string, []string) {
	locs := optionMarker.FindAllStringSubmatchIndex(text, -1)
	run := 0
	for run < len(locs) && text[locs[run][2]] == byte('A'+run) {
		run++
	}
	if run < 2 {
		return text, []string{}
	}
	locs = locs[:run]

	options := make([]string, 0, run)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		opt := text[loc[1]:end]
		if cut := strings.IndexAny(opt, "\n|;"); cut >= 0 {
			opt = opt[:cut]
		}
		if opt = strings.Trim(opt, " ,\t"); opt != "" {
			options = append(options, opt)
		}
	}

	if stem := strings.TrimSpace(text[:locs[0][0]]); stem != "" {
		text = stem
	}
	return text, options
}

func truthFromExplanation(explanation string) string {
	m := truthToken.FindStringSubmatch(explanation)
	if m == nil {
		return ""
	}
	if strings.EqualFold(m[1], "true") {
		return "True"
	}
	return "False"
}

func fieldText(v Value, names ...string) string {
	f, ok := v.Field(names...)
	if !ok {
		return ""
	}
	return f.Text()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ToValue renders q in the model's field layout so it can go through
// Normalize again.
func (q Question) ToValue() Value {
	return Value{Kind: ValueObject, Object: map[string]Value{
		"question":       String(q.Text),
		"type":           String(string(q.Kind)),
		"options":        Strings(q.Options),
		"correct_answer": String(q.CorrectAnswer),
		"explanation":    String(q.Explanation),
		"points":         {Kind: ValueNumber, Num: json.Number(strconv.Itoa(q.Points))},
	}}
}
