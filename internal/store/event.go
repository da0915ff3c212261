package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonic sequence shared by activity
// entries and model requests.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// applyRange adds QueryOpts sequence and time bounds to a selector.
func applyRange(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}
