// Package queue is the local durable fallback for decisions that could
// not reach the primary store. Entries live in a single SQLite file,
// ordered FIFO by auto-increment key, and are deleted only after the
// reconciler confirms the primary write. A decision in this queue has
// been persisted: losing the primary never loses the decision.
package queue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_decisions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    decision_id TEXT NOT NULL,
    payload BLOB NOT NULL,
    enqueued_at INTEGER NOT NULL
);
`

// Entry is one queued decision. Seq orders the queue; Payload is the
// encoded decision.
type Entry struct {
	Seq        int64
	DecisionID string
	Payload    []byte
}

// Queue is a durable FIFO over one SQLite file. SQLite serializes
// writers; every operation here is a single statement, so concurrent
// appends from request goroutines and deletes from the reconciler are
// safe.
type Queue struct {
	db *sql.DB
}

// Open opens (creating if needed) the queue file and ensures its schema.
func Open(path string) (*Queue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("queue path is required")
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between the request path
	// and the reconciler.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping queue db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure queue schema: %w", err)
	}
	return &Queue{db: db}, nil
}

// Close closes the underlying file.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue appends one encoded decision to the tail.
func (q *Queue) Enqueue(ctx context.Context, decisionID string, payload []byte, enqueuedAtUnixMs int64) error {
	query := `INSERT INTO pending_decisions (decision_id, payload, enqueued_at) VALUES (?, ?, ?)`
	if _, err := q.db.ExecContext(ctx, query, decisionID, payload, enqueuedAtUnixMs); err != nil {
		return fmt.Errorf("enqueue decision: %w", err)
	}
	return nil
}

// PeekBatch returns up to limit entries from the head without removing
// them. Entries come back in FIFO order.
func (q *Queue) PeekBatch(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT seq, decision_id, payload
		FROM pending_decisions
		ORDER BY seq
		LIMIT ?
	`
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("peek queue: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.DecisionID, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue: %w", err)
	}
	return entries, nil
}

// Delete removes one confirmed entry.
func (q *Queue) Delete(ctx context.Context, seq int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM pending_decisions WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	return nil
}

// Depth returns the number of pending entries.
func (q *Queue) Depth(ctx context.Context) (int, error) {
	var depth int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_decisions`).Scan(&depth)
	if err != nil {
		return 0, fmt.Errorf("count queue: %w", err)
	}
	return depth, nil
}
