package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type activityRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var activityColumns = []string{
	"id", "sequence", "timestamp", "username", "activity_type", "subject",
	"duration_minutes", "score", "questions_answered", "correct_answers",
	"notes_created", "flashcards_studied", "record_id", "record",
}

// AppendActivity stores row and returns its sequence number. A zero
// Timestamp is stamped with the current time.
func (r *activityRepo) AppendActivity(ctx context.Context, row ActivityRow) (int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, err
	}
	ts := row.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var score any
	if row.Score != nil {
		score = *row.Score
	}

	ins := builder.Insert(activitiesTable.Name).
		Columns(activityColumns[1:]...).
		Values(seqNum, ts.UTC(), row.Username, row.Type, row.Subject,
			row.DurationMinutes, score, row.QuestionsAnswered, row.CorrectAnswers,
			row.NotesCreated, row.FlashcardsStudied, row.RecordID, string(row.Record))
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return 0, fmt.Errorf("append activity: %w", err)
	}
	return seqNum, nil
}

func (r *activityRepo) ListActivities(ctx context.Context, username string, opts QueryOpts) ([]ActivityRow, error) {
	sel := builder.Select(activityColumns...).
		From(builder.Table(activitiesTable.Name)).
		Where(entsql.EQ("username", username)).
		OrderBy("sequence")
	query, args := applyRange(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []ActivityRow
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *activityRepo) GetByRecordID(ctx context.Context, username, recordID string) (*ActivityRow, error) {
	query, args := builder.Select(activityColumns...).
		From(builder.Table(activitiesTable.Name)).
		Where(entsql.And(
			entsql.EQ("username", username),
			entsql.EQ("record_id", recordID),
		)).
		Query()

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *activityRepo) DeleteActivities(ctx context.Context, username string) error {
	del := builder.Delete(activitiesTable.Name).Where(entsql.EQ("username", username))
	if _, err := execQuery(ctx, r.db, del); err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	return nil
}

func scanActivity(s rowScanner) (*ActivityRow, error) {
	var a ActivityRow
	var score sql.NullFloat64
	var record string
	err := s.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.Username, &a.Type, &a.Subject,
		&a.DurationMinutes, &score, &a.QuestionsAnswered, &a.CorrectAnswers,
		&a.NotesCreated, &a.FlashcardsStudied, &a.RecordID, &record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan activity: %w", err)
	}
	if score.Valid {
		v := score.Float64
		a.Score = &v
	}
	if record != "" {
		a.Record = []byte(record)
	}
	return &a, nil
}
