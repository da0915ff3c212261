package quiz

import (
	"strings"
	"unicode"
)

// MaxContentChars is the default cap on preprocessed content.
const MaxContentChars = 20000

// Preprocess makes learner text safe to embed in a prompt: whitespace runs
// collapse to one space, non-ASCII runes are dropped and the result is cut
// to maxChars runes (MaxContentChars when maxChars <= 0). truncated reports
// whether the cut removed anything.
func Preprocess(content string, maxChars int) (out string, truncated bool) {
	if maxChars <= 0 {
		maxChars = MaxContentChars
	}

	var b strings.Builder
	b.Grow(len(content))
	pendingSpace := false
	for _, r := range content {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	out = b.String()
	if len(out) > maxChars {
		// ASCII only, so bytes are runes.
		return strings.TrimSpace(out[:maxChars]), true
	}
	return out, false
}
