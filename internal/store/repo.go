package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures one model request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored model request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates requests by purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates requests by model for cost estimates.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and reports model requests.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// User is a stored account.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo stores accounts keyed by normalized username.
type UserRepo interface {
	CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (*User, error)
	// GetUser returns ErrNotFound for unknown usernames.
	GetUser(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// NoteRow is a stored study note.
type NoteRow struct {
	Title     string
	Content   string
	Category  string
	NoteType  string
	CreatedAt time.Time
}

// FlashcardRow is a stored flashcard.
type FlashcardRow struct {
	CardID     string
	Front      string
	Back       string
	Category   string
	Difficulty string
	CreatedAt  time.Time
}

// CalendarRow is a stored calendar event. Date is YYYY-MM-DD.
type CalendarRow struct {
	Name      string
	Date      string
	Notes     string
	Color     string
	CreatedAt time.Time
}

// UserLibrary is the replaceable part of a user's data.
type UserLibrary struct {
	Notes      []NoteRow
	Flashcards []FlashcardRow
	Events     []CalendarRow
}

// LibraryRepo persists notes, flashcards and calendar events. Saves replace
// everything the user has in one transaction.
type LibraryRepo interface {
	LoadLibrary(ctx context.Context, username string) (*UserLibrary, error)
	ReplaceLibrary(ctx context.Context, username string, lib UserLibrary) error
	DeleteLibrary(ctx context.Context, username string) error
}

// Activity types.
const (
	ActivityStudy      = "study"
	ActivityQuiz       = "quiz"
	ActivityFlashcards = "flashcards"
)

// ActivityRow is one entry in a user's append-only activity log. Record
// holds the full quiz session record for quiz activities.
type ActivityRow struct {
	ID                int
	Sequence          int64
	Timestamp         time.Time
	Username          string
	Type              string
	Subject           string
	DurationMinutes   int
	Score             *float64
	QuestionsAnswered int
	CorrectAnswers    int
	NotesCreated      int
	FlashcardsStudied int
	RecordID          string
	Record            json.RawMessage
}

// ActivityRepo appends to and reads the activity log.
type ActivityRepo interface {
	AppendActivity(ctx context.Context, row ActivityRow) (int64, error)
	// ListActivities returns the user's log in sequence order.
	ListActivities(ctx context.Context, username string, opts QueryOpts) ([]ActivityRow, error)
	// GetByRecordID returns ErrNotFound when no activity carries recordID.
	GetByRecordID(ctx context.Context, username, recordID string) (*ActivityRow, error)
	DeleteActivities(ctx context.Context, username string) error
}
