package notes

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits enforced by Validate.
const (
	MaxTitleChars   = 200
	MaxContentChars = 50000
)

// DefaultCategory files notes saved without one.
const DefaultCategory = "General"

// UntitledNote titles notes saved without a title.
const UntitledNote = "Untitled Note"

// TypeSummary is the note type used when none is chosen.
const TypeSummary = "Summary"

// Note is a saved study note.
type Note struct {
	Title    string    `json:"title" yaml:"title"`
	Content  string    `json:"content" yaml:"content"`
	Category string    `json:"category" yaml:"category"`
	NoteType string    `json:"note_type,omitempty" yaml:"note_type,omitempty"`
	Created  time.Time `json:"timestamp" yaml:"timestamp"`
}

// ValidationError lists every problem with a note.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid note: " + strings.Join(e.Problems, "; ")
}

// Validate checks the fields a note needs before it is saved.
func Validate(title, content, category string) error {
	var problems []string

	title = strings.TrimSpace(title)
	switch {
	case title == "":
		problems = append(problems, "Note title is required")
	case utf8.RuneCountInString(title) > MaxTitleChars:
		problems = append(problems, fmt.Sprintf("Note title is too long (maximum %d characters)", MaxTitleChars))
	}

	content = strings.TrimSpace(content)
	switch {
	case content == "":
		problems = append(problems, "Note content is required")
	case utf8.RuneCountInString(content) > MaxContentChars:
		problems = append(problems, "Note content is too long (maximum 50,000 characters)")
	}

	if strings.TrimSpace(category) == "" {
		problems = append(problems, "Note category is required")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Preview shortens content to at most maxLen bytes, cutting at the last
// space and appending "...".
func Preview(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	cut := content[:maxLen]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

var unsafeFilename = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename turns a note title into a safe file name.
func SanitizeFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	if name == "" {
		return "note"
	}
	if len(name) > 100 {
		name = name[:100]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}
	return name
}

// ExportText renders notes as a plain-text document grouped by category.
func ExportText(notes []Note, now time.Time) string {
	if len(notes) == 0 {
		return "No notes to export."
	}

	byCategory := make(map[string][]Note)
	for _, n := range notes {
		cat := n.Category
		if cat == "" {
			cat = DefaultCategory
		}
		byCategory[cat] = append(byCategory[cat], n)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	slices.Sort(categories)

	rule := strings.Repeat("=", 50)
	var b strings.Builder
	b.WriteString("Study Notes Export\n")
	fmt.Fprintf(&b, "Exported on: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n\n")

	for _, cat := range categories {
		fmt.Fprintf(&b, "CATEGORY: %s\n", strings.ToUpper(cat))
		b.WriteString(strings.Repeat("-", 30) + "\n\n")
		for _, n := range byCategory[cat] {
			fmt.Fprintf(&b, "Title: %s\n", n.Title)
			fmt.Fprintf(&b, "Created: %s\n", n.Created.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(&b, "Category: %s\n", cat)
			b.WriteString(strings.Repeat("-", 20) + "\n")
			b.WriteString(n.Content + "\n")
			b.WriteString("\n" + rule + "\n\n")
		}
	}
	return b.String()
}
