package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultTitle names quizzes whose model output carried no title.
const DefaultTitle = "Study Quiz"

// maxSpanCandidates bounds how many opening brackets the extractor tries.
const maxSpanCandidates = 32

// ParseError reports model output with no recoverable JSON.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse quiz output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parsed is model output reduced to a title and raw question candidates.
// Every candidate is an object node.
type Parsed struct {
	Title     string
	Questions []Value
}

var (
	fenceOpen  = regexp.MustCompile("^```[A-Za-z0-9_-]*\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	qKey       = regexp.MustCompile(`^[Qq](\d+)$`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
	)
)

// Parse recovers a quiz from arbitrary model text. It tries the text as is,
// then a repaired copy, then the first bracketed span that decodes. A bare
// list becomes the question list of a quiz titled DefaultTitle; an object
// with Q1, Q2... keys has those values collected in numeric order.
func Parse(text string) (*Parsed, error) {
	root, err := decodeLoose(text)
	if err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	return shape(root), nil
}

func decodeLoose(text string) (Value, error) {
	body := stripFences(text)
	if body == "" {
		return Value{}, errors.New("empty model output")
	}
	if v, err := decodeContainer(body); err == nil {
		return v, nil
	}
	if v, err := decodeContainer(repairJSON(body)); err == nil {
		return v, nil
	}

	spans := candidateSpans(body)
	if len(spans) == 0 {
		return Value{}, errors.New("no JSON object or array in model output")
	}
	var lastErr error
	for _, span := range spans {
		v, err := decodeContainer(span)
		if err != nil {
			v, err = decodeContainer(repairJSON(span))
		}
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return Value{}, fmt.Errorf("decode extracted JSON: %w", lastErr)
}

// decodeContainer accepts only objects and arrays at the top level.
func decodeContainer(s string) (Value, error) {
	var v Value
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return Value{}, err
	}
	if v.Kind != ValueObject && v.Kind != ValueArray {
		return Value{}, errors.New("model output is not a JSON object or array")
	}
	return v, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// repairJSON fixes the damage models commonly do to JSON: typographic
// quotes, raw control characters and unknown escapes inside strings, and
// trailing commas.
func repairJSON(s string) string {
	s = smartQuotes.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case c == '\\':
				if i+1 < len(s) && strings.IndexByte(`"\/bfnrtu`, s[i+1]) >= 0 {
					b.WriteByte(c)
					b.WriteByte(s[i+1])
					i++
				} else {
					b.WriteString(`\\`)
				}
			case c == '"':
				inString = false
				b.WriteByte(c)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				b.WriteByte(' ')
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == ',' && closesNext(s[i+1:]):
		case c < 0x20 && c != '\n' && c != '\t' && c != '\r':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func closesNext(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '}' || rest[0] == ']')
}

// candidateSpans returns bracketed spans in the order their opening bracket
// appears. A balanced span ends at its matching bracket; an unterminated one
// runs to the last closing bracket of the same type.
func candidateSpans(s string) []string {
	var spans []string
	for start := 0; start < len(s) && len(spans) < maxSpanCandidates; start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		if span, ok := balancedSpan(s, start); ok {
			spans = append(spans, span)
			continue
		}
		closer := byte('}')
		if s[start] == '[' {
			closer = ']'
		}
		if end := strings.LastIndexByte(s, closer); end > start {
			spans = append(spans, s[start:end+1])
		}
	}
	return spans
}

func balancedSpan(s string, start int) (string, bool) {
	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func shape(root Value) *Parsed {
	p := &Parsed{Title: DefaultTitle}
	if root.Kind == ValueArray {
		p.Questions = expandItems(root.Array)
		return p
	}

	if t, ok := root.Field("title"); ok && t.Text() != "" {
		p.Title = t.Text()
	}
	if qs, ok := root.Field("questions"); ok {
		switch {
		case qs.Kind == ValueArray:
			p.Questions = expandItems(qs.Array)
		case looksLikeQuestion(qs):
			p.Questions = []Value{qs}
		default:
			p.Questions = expandItems(questionKeys(qs))
		}
		return p
	}
	if keyed := questionKeys(root); len(keyed) > 0 {
		p.Questions = expandItems(keyed)
		return p
	}
	if looksLikeQuestion(root) {
		p.Questions = []Value{root}
	}
	return p
}

// questionKeys collects the values of Q<n> keys in ascending n.
func questionKeys(obj Value) []Value {
	if obj.Kind != ValueObject {
		return nil
	}
	type keyed struct {
		n int
		v Value
	}
	var found []keyed
	for k, v := range obj.Object {
		m := qKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, keyed{n, v})
	}
	slices.SortFunc(found, func(a, b keyed) int { return a.n - b.n })

	out := make([]Value, len(found))
	for i, f := range found {
		out[i] = f.v
	}
	return out
}

// expandItems keeps object items and re-parses string items that hold a
// JSON object or list of objects.
func expandItems(items []Value) []Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case ValueObject:
			out = append(out, item)
		case ValueString:
			inner, err := decodeLoose(item.Str)
			if err != nil {
				continue
			}
			if inner.Kind == ValueObject {
				out = append(out, inner)
				continue
			}
			for _, el := range inner.Array {
				if el.Kind == ValueObject {
					out = append(out, el)
				}
			}
		}
	}
	return out
}

func looksLikeQuestion(v Value) bool {
	_, ok := v.Field("question")
	return ok && v.Kind == ValueObject
}
