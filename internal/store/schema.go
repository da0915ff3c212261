package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions handed to ent's migrator. Every event-like table
// carries the shared sequence and timestamp columns.

func idColumn() *schema.Column {
	return &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
}

func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
}

func textColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 2147483647, Default: ""}
}

var (
	usersColumns = []*schema.Column{
		idColumn(),
		{Name: "username", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       "users",
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	notesColumns = []*schema.Column{
		idColumn(),
		{Name: "username", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		textColumn("content"),
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "note_type", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	notesTable = &schema.Table{
		Name:       "notes",
		Columns:    notesColumns,
		PrimaryKey: []*schema.Column{notesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "notes_username", Columns: []*schema.Column{notesColumns[1]}},
		},
	}

	flashcardsColumns = []*schema.Column{
		idColumn(),
		{Name: "username", Type: field.TypeString},
		{Name: "card_id", Type: field.TypeString},
		textColumn("front"),
		textColumn("back"),
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	flashcardsTable = &schema.Table{
		Name:       "flashcards",
		Columns:    flashcardsColumns,
		PrimaryKey: []*schema.Column{flashcardsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "flashcards_username", Columns: []*schema.Column{flashcardsColumns[1]}},
		},
	}

	calendarColumns = []*schema.Column{
		idColumn(),
		{Name: "username", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "date", Type: field.TypeString},
		textColumn("notes"),
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	calendarTable = &schema.Table{
		Name:       "calendar_events",
		Columns:    calendarColumns,
		PrimaryKey: []*schema.Column{calendarColumns[0]},
		Indexes: []*schema.Index{
			{Name: "calendar_events_username", Columns: []*schema.Column{calendarColumns[1]}},
		},
	}

	activitiesColumns = append(append([]*schema.Column{idColumn()}, eventColumns()...),
		&schema.Column{Name: "username", Type: field.TypeString},
		&schema.Column{Name: "activity_type", Type: field.TypeString},
		&schema.Column{Name: "subject", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "duration_minutes", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "score", Type: field.TypeFloat64, Nullable: true},
		&schema.Column{Name: "questions_answered", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "notes_created", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "flashcards_studied", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "record_id", Type: field.TypeString, Default: ""},
		textColumn("record"),
	)
	activitiesTable = &schema.Table{
		Name:       "activities",
		Columns:    activitiesColumns,
		PrimaryKey: []*schema.Column{activitiesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "activities_username", Columns: []*schema.Column{activitiesColumns[3]}},
			{Name: "activities_record_id", Columns: []*schema.Column{activitiesColumns[12]}},
		},
	}

	llmEventsColumns = append(append([]*schema.Column{idColumn()}, eventColumns()...),
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		textColumn("request_body"),
		textColumn("response_body"),
	)
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	tables = []*schema.Table{
		usersTable,
		notesTable,
		flashcardsTable,
		calendarTable,
		activitiesTable,
		llmEventsTable,
	}
)
