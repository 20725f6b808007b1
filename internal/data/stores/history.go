package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/clarity/internal/data/db"
)

// HistoryEntry is one previously opened document.
type HistoryEntry struct {
	Source   string
	Title    string
	OpenedAt time.Time
}

// HistoryStore records the documents opened in the reader so the prompt can
// offer them again.
type HistoryStore struct {
	db *db.DB
}

func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// MaxHistory is the number of entries kept after each Record.
const MaxHistory = 50

// Record upserts source, moving it to the front of Recent. Entries beyond
// MaxHistory are dropped.
func (s *HistoryStore) Record(ctx context.Context, source, title string) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reading_history (source, title, opened_at) VALUES (?, ?, ?)
			 ON CONFLICT(source) DO UPDATE SET title = excluded.title, opened_at = excluded.opened_at`,
			source, title, time.Now().UnixNano(),
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM reading_history WHERE source NOT IN (
			   SELECT source FROM reading_history ORDER BY opened_at DESC LIMIT ?
			 )`, MaxHistory,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("record history %q: %w", source, err)
	}
	return nil
}

// Recent returns up to limit entries, most recently opened first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT source, title, opened_at FROM reading_history ORDER BY opened_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e        HistoryEntry
			openedAt int64
		)
		if err := rows.Scan(&e.Source, &e.Title, &openedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.OpenedAt = time.Unix(0, openedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
