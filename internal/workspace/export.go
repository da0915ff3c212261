package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyaid/internal/flashcards"
	"github.com/abhisek/studyaid/internal/notes"
	"github.com/abhisek/studyaid/internal/progress"
	"github.com/abhisek/studyaid/internal/quiz"
)

// DocumentVersion is the export format written by Export.
const DocumentVersion = "2.0"

// legacyVersion is assumed for documents that carry no version.
const legacyVersion = "1.0"

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ErrUnsupportedVersion is returned for documents from a newer major
// version of the export format.
var ErrUnsupportedVersion = errors.New("unsupported export version")

// Document is a full backup of one user's data.
type Document struct {
	Version       string                   `json:"version" yaml:"version"`
	ExportDate    time.Time                `json:"export_date" yaml:"export_date"`
	Username      string                   `json:"username,omitempty" yaml:"username,omitempty"`
	Notes         []notes.Note             `json:"notes" yaml:"notes"`
	Flashcards    []flashcards.Card        `json:"flashcards" yaml:"flashcards"`
	StudySessions []progress.Activity      `json:"study_sessions" yaml:"study_sessions"`
	Events        []Event                  `json:"events" yaml:"events"`
	QuizRecords   []quiz.QuizSessionRecord `json:"quiz_records,omitempty" yaml:"quiz_records,omitempty"`
}

// Export builds the backup document for the workspace, including the
// stored quiz records.
func (w *Workspace) Export(ctx context.Context, now time.Time) (*Document, error) {
	records, err := w.QuizHistory(ctx)
	if err != nil {
		return nil, err
	}
	return &Document{
		Version:       DocumentVersion,
		ExportDate:    now,
		Username:      w.Username,
		Notes:         orEmpty(w.Notes),
		Flashcards:    orEmpty(w.Flashcards),
		StudySessions: orEmpty(w.Activity),
		Events:        orEmpty(w.Events),
		QuizRecords:   records,
	}, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Encode renders doc in format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON, "":
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Decode reads a document in format and checks that its version can be
// imported.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON, "":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}
	if doc.Version == "" {
		doc.Version = legacyVersion
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(version string) error {
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	if semver.Compare(semver.Major(v), semver.Major("v"+DocumentVersion)) > 0 {
		return fmt.Errorf("%w: %s is newer than %s", ErrUnsupportedVersion, version, DocumentVersion)
	}
	return nil
}

// Import replaces everything stored for the user with doc. Quiz records are
// reattached to the study sessions that reference them.
func (w *Workspace) Import(ctx context.Context, doc *Document) error {
	if err := w.Clear(ctx); err != nil {
		return err
	}

	w.Notes = doc.Notes
	w.Flashcards = doc.Flashcards
	w.Events = doc.Events
	if err := w.Save(ctx); err != nil {
		return err
	}

	records := make(map[string]*quiz.QuizSessionRecord, len(doc.QuizRecords))
	for i := range doc.QuizRecords {
		records[doc.QuizRecords[i].ID] = &doc.QuizRecords[i]
	}
	for _, a := range doc.StudySessions {
		var rec any
		if r, ok := records[a.RecordID]; ok && a.RecordID != "" {
			rec = r
		}
		if err := w.AppendActivity(ctx, a, rec); err != nil {
			return fmt.Errorf("import activity: %w", err)
		}
	}
	return nil
}

// BackupFilename is the default file name for an export taken at now.
func BackupFilename(now time.Time, format Format) string {
	ext := "json"
	if format == FormatYAML {
		ext = "yaml"
	}
	return fmt.Sprintf("study_platform_backup_%s.%s", now.Format("20060102"), ext)
}
