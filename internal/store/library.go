package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type libraryRepo struct {
	db *sql.DB
}

func (r *libraryRepo) LoadLibrary(ctx context.Context, username string) (*UserLibrary, error) {
	lib := &UserLibrary{}

	err := r.selectRows(ctx, notesTable.Name, username,
		[]string{"title", "content", "category", "note_type", "created_at"},
		func(rows *sql.Rows) error {
			var n NoteRow
			if err := rows.Scan(&n.Title, &n.Content, &n.Category, &n.NoteType, &n.CreatedAt); err != nil {
				return err
			}
			lib.Notes = append(lib.Notes, n)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	err = r.selectRows(ctx, flashcardsTable.Name, username,
		[]string{"card_id", "front", "back", "category", "difficulty", "created_at"},
		func(rows *sql.Rows) error {
			var c FlashcardRow
			if err := rows.Scan(&c.CardID, &c.Front, &c.Back, &c.Category, &c.Difficulty, &c.CreatedAt); err != nil {
				return err
			}
			lib.Flashcards = append(lib.Flashcards, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load flashcards: %w", err)
	}

	err = r.selectRows(ctx, calendarTable.Name, username,
		[]string{"name", "date", "notes", "color", "created_at"},
		func(rows *sql.Rows) error {
			var e CalendarRow
			if err := rows.Scan(&e.Name, &e.Date, &e.Notes, &e.Color, &e.CreatedAt); err != nil {
				return err
			}
			lib.Events = append(lib.Events, e)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load calendar events: %w", err)
	}

	return lib, nil
}

func (r *libraryRepo) selectRows(ctx context.Context, table, username string, cols []string, scan func(*sql.Rows) error) error {
	query, args := builder.Select(cols...).
		From(builder.Table(table)).
		Where(entsql.EQ("username", username)).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ReplaceLibrary deletes every note, flashcard and calendar event of the
// user and inserts lib in their place, atomically.
func (r *libraryRepo) ReplaceLibrary(ctx context.Context, username string, lib UserLibrary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteLibrary(ctx, tx, username); err != nil {
		return err
	}

	for _, n := range lib.Notes {
		ins := builder.Insert(notesTable.Name).
			Columns("username", "title", "content", "category", "note_type", "created_at").
			Values(username, n.Title, n.Content, n.Category, n.NoteType, n.CreatedAt.UTC())
		if _, err := execQuery(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
	}
	for _, c := range lib.Flashcards {
		ins := builder.Insert(flashcardsTable.Name).
			Columns("username", "card_id", "front", "back", "category", "difficulty", "created_at").
			Values(username, c.CardID, c.Front, c.Back, c.Category, c.Difficulty, c.CreatedAt.UTC())
		if _, err := execQuery(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert flashcard: %w", err)
		}
	}
	for _, e := range lib.Events {
		ins := builder.Insert(calendarTable.Name).
			Columns("username", "name", "date", "notes", "color", "created_at").
			Values(username, e.Name, e.Date, e.Notes, e.Color, e.CreatedAt.UTC())
		if _, err := execQuery(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert calendar event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *libraryRepo) DeleteLibrary(ctx context.Context, username string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteLibrary(ctx, tx, username); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteLibrary(ctx context.Context, tx *sql.Tx, username string) error {
	for _, table := range []string{notesTable.Name, flashcardsTable.Name, calendarTable.Name} {
		del := builder.Delete(table).Where(entsql.EQ("username", username))
		if _, err := execQuery(ctx, tx, del); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
