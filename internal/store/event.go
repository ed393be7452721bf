package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter numbers events across all tables so a session's answers,
// tutor calls and end marker can be replayed in the order they happened.
// The single-row table is created by the migrations.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the next sequence number. Numbers survive Reset.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var n int64
	row := sc.db.QueryRowContext(ctx, `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
