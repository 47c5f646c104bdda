package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pairtrack/internal/board"
)

// HistoryEntry records one audited stage transition.
type HistoryEntry struct {
	ID        int64
	PairID    int64
	OldStage  board.Stage
	NewStage  board.Stage
	ChangedBy string
	ChangedAt time.Time
}

// History returns the stage transitions for a pair, oldest first.
func (s *Store) History(ctx context.Context, pairID int64) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, pair_id, old_stage, new_stage, changed_by, changed_at
         FROM pair_history WHERE pair_id = ? ORDER BY id`,
		pairID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry      HistoryEntry
			oldStage   sql.NullString
			changedBy  sql.NullString
			changedRaw sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.PairID, &oldStage, &entry.NewStage, &changedBy, &changedRaw); err != nil {
			return nil, err
		}
		entry.OldStage = board.Stage(oldStage.String)
		entry.ChangedBy = changedBy.String
		if changed, err := parseTimeString(changedRaw.String); err == nil {
			entry.ChangedAt = changed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
