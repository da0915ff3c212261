package notes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
)

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("  # Photosynthesis\n- Light becomes sugar\n"))
	out, err := NewGenerator(mock).Generate(context.Background(), "photosynthesis", "Study Guide", DetailBasic)
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis\n- Light becomes sugar", out)

	req := mock.Calls[0]
	assert.Equal(t, systemPrompt, req.System)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.7, *req.Temperature)
	assert.Equal(t, 2000, req.MaxTokens)
	prompt := mock.LastPrompt()
	assert.True(t, strings.HasPrefix(prompt, detailInstructions[DetailBasic]))
	assert.Contains(t, prompt, "comprehensive study guide for the following topic:\nphotosynthesis")
	assert.Contains(t, prompt, "- Learning objectives")
}

func TestGenerate_Errors(t *testing.T) {
	_, err := NewGenerator(llm.NewMockProvider()).Generate(context.Background(), "  ", "Summary", "")
	assert.Error(t, err)

	_, err = NewGenerator(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})).
		Generate(context.Background(), "cells", "Summary", "")
	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))

	_, err = NewGenerator(llm.NewMockProvider(llm.MockText(""))).Generate(context.Background(), "cells", "Summary", "")
	var invalid *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid))
}

func TestBuildPrompt(t *testing.T) {
	for _, nt := range NoteTypes {
		t.Run(nt, func(t *testing.T) {
			p := buildPrompt("mitosis", nt, DetailAdvanced)
			assert.Contains(t, p, styles[nt].lead+"\nmitosis")
			assert.Contains(t, p, "Format your response with:\n- ")
		})
	}

	p := buildPrompt("mitosis", "Create Study Questions", DetailAdvanced)
	assert.NotContains(t, p, detailInstructions[DetailAdvanced])

	p = buildPrompt("mitosis", "Haiku", "Expert")
	assert.True(t, strings.HasPrefix(p, detailInstructions[DetailIntermediate]))
	assert.Contains(t, p, "Please create comprehensive study notes about:\nmitosis")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("Cells", "Cells divide.", "Biology"))

	err := Validate(" ", "", "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Note title is required", "Note content is required", "Note category is required"}, verr.Problems)

	err = Validate(strings.Repeat("t", MaxTitleChars+1), strings.Repeat("c", MaxContentChars+1), "x")
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)
	assert.Contains(t, verr.Problems[0], "too long")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 100))
	assert.Equal(t, "the quick...", Preview("the quick brown fox", 12))
	assert.Equal(t, "abcdef...", Preview("abcdefghij", 6))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("  \n "))
	assert.Equal(t, 4, WordCount("one two\nthree\tfour"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Cell: Basics?", "Cell_ Basics_"},
		{"  ..notes.. ", "notes"},
		{`a/b\c|d*e"f<g>`, "a_b_c_d_e_f_g_"},
		{"...", "note"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestExportText(t *testing.T) {
	assert.Equal(t, "No notes to export.", ExportText(nil, time.Now()))

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := ExportText([]Note{
		{Title: "Mitosis", Content: "Cells split.", Category: "Biology", Created: created},
		{Title: "Newton", Content: "F = ma", Category: "Algebra", Created: created},
		{Title: "Loose", Content: "No category", Created: created},
	}, created)

	assert.True(t, strings.HasPrefix(out, "Study Notes Export\nExported on: 2026-01-02 03:04:05\n"))
	alg := strings.Index(out, "CATEGORY: ALGEBRA")
	bio := strings.Index(out, "CATEGORY: BIOLOGY")
	gen := strings.Index(out, "CATEGORY: GENERAL")
	assert.True(t, alg > 0 && alg < bio && bio < gen, "categories sorted")
	assert.Contains(t, out, "Title: Mitosis\nCreated: 2026-01-02 03:04:05\nCategory: Biology\n")
	assert.Contains(t, out, "Category: General\n")
}
