package store

import (
	"context"
	"fmt"
)

// LogEntry is one append-only audit record of a lifecycle mutation.
//
// Seq is a logical clock value assigned by the service layer, unique
// across the whole log, so history order is deterministic and testable.
type LogEntry struct {
	Seq     int64  `json:"seq"`
	EventID string `json:"event_id"`
	Action  string `json:"action"`
	Detail  string `json:"detail,omitempty"`
}

// History returns the audit entries for one event in seq order.
//
// Entries survive event deletion. Returns an empty slice (not nil) when
// no history exists.
func (s *Store) History(ctx context.Context, eventID string) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, event_id, action, detail
		FROM event_log
		WHERE event_id = ?
		ORDER BY seq ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.Seq, &e.EventID, &e.Action, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event log: %w", err)
	}

	if entries == nil {
		entries = []LogEntry{}
	}

	return entries, nil
}

// MaxLogSeq returns the highest seq in the log, 0 when empty. The
// service layer resumes its logical clock from this value on startup.
func (s *Store) MaxLogSeq(ctx context.Context) (int64, error) {
	var max int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM event_log
	`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query max log seq: %w", err)
	}
	return max, nil
}

// appendLog is the shared insert used by Store and Snapshot.
func appendLog(ctx context.Context, q dbtx, entry LogEntry) error {
	if entry.Seq < 1 {
		return fmt.Errorf("log entry seq must be >= 1, got %d", entry.Seq)
	}
	if entry.EventID == "" || entry.Action == "" {
		return fmt.Errorf("log entry requires event id and action")
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO event_log (seq, event_id, action, detail)
		VALUES (?, ?, ?, ?)
	`, entry.Seq, entry.EventID, entry.Action, entry.Detail)
	if err != nil {
		return fmt.Errorf("insert log entry %d: %w", entry.Seq, err)
	}
	return nil
}
