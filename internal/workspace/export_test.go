package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/flashcards"
	"github.com/abhisek/studyaid/internal/notes"
	"github.com/abhisek/studyaid/internal/progress"
	"github.com/abhisek/studyaid/internal/store"
)

func TestExportImport(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			s := openTestStore(t)
			ctx := context.Background()

			src := newWorkspace(t, s, "ada")
			src.Notes = []notes.Note{{Title: "Mitosis", Content: "Cells split", Category: "Biology", Created: t0}}
			src.Flashcards = []flashcards.Card{{ID: "card_1", Front: "ATP", Back: "Energy", Category: "Biology", Created: t0}}
			src.Events = []Event{{Name: "Exam", Date: "2026-04-20", Color: DefaultEventColor, Created: t0}}
			require.NoError(t, src.Save(ctx))
			require.NoError(t, src.RecordQuiz(ctx, testRecord("rec-1"), "Biology"))
			require.NoError(t, src.AppendActivity(ctx, progress.Activity{Type: store.ActivityStudy, Subject: "Math", DurationMinutes: 15, Timestamp: t0}, nil))

			doc, err := src.Export(ctx, t0)
			require.NoError(t, err)
			assert.Equal(t, DocumentVersion, doc.Version)
			require.Len(t, doc.QuizRecords, 1)

			data, err := Encode(doc, format)
			require.NoError(t, err)

			decoded, err := Decode(data, format)
			require.NoError(t, err)

			dst := newWorkspace(t, s, "bob")
			dst.Notes = []notes.Note{{Title: "old", Content: "x", Category: "y", Created: t0}}
			require.NoError(t, dst.Save(ctx))
			require.NoError(t, dst.Import(ctx, decoded))

			got := newWorkspace(t, s, "bob")
			require.Len(t, got.Notes, 1, "import replaces existing data")
			assert.Equal(t, "Mitosis", got.Notes[0].Title)
			require.Len(t, got.Flashcards, 1)
			assert.Equal(t, "ATP", got.Flashcards[0].Front)
			require.Len(t, got.Events, 1)
			require.Len(t, got.Activity, 2)
			require.NotNil(t, got.Activity[0].Score)
			assert.Equal(t, 66.7, *got.Activity[0].Score)

			rec, err := got.QuizRecord(ctx, "rec-1")
			require.NoError(t, err)
			assert.Equal(t, 3, rec.TotalQuestions)
		})
	}
}

func TestDecode_Versions(t *testing.T) {
	doc, err := Decode([]byte(`{"notes": []}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)

	_, err = Decode([]byte(`{"version": "2.5"}`), FormatJSON)
	assert.NoError(t, err)

	_, err = Decode([]byte(`{"version": "3.0"}`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode([]byte(`{"version": "banana"}`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode([]byte("version: [\n"), FormatYAML)
	assert.ErrorContains(t, err, "invalid export file")
}

func TestEncode_EmptyWorkspace(t *testing.T) {
	s := openTestStore(t)
	doc, err := newWorkspace(t, s, "ada").Export(context.Background(), t0)
	require.NoError(t, err)
	data, err := Encode(doc, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notes": []`)

	_, err = Encode(doc, "xml")
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("backup.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("b.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("b.json"))
	assert.Equal(t, FormatJSON, FormatForPath("b"))
	assert.Equal(t, "study_platform_backup_20260410.yaml", BackupFilename(t0, FormatYAML))
}
