package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/search"
)

// CreateEvent inserts an event with its current span and status.
func (s *Store) CreateEvent(ctx context.Context, evt booking.Event) error {
	return insertEvent(ctx, s.db, evt)
}

// Event returns an event by id, or an error wrapping ErrNotFound.
func (s *Store) Event(ctx context.Context, id string) (booking.Event, error) {
	return getEvent(ctx, s.db, id)
}

// ListEvents returns events matching the filter, ordered by start time
// with the event id as tiebreaker.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListEvents(ctx context.Context, filter search.Filter) ([]booking.Event, error) {
	query, params, err := search.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []booking.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if events == nil {
		events = []booking.Event{}
	}

	return events, nil
}

// Assignments returns an event's assignments ordered by resource id.
//
// Returns an empty slice (not nil) when the event holds none.
func (s *Store) Assignments(ctx context.Context, eventID string) ([]booking.Assignment, error) {
	return listAssignments(ctx, s.db, eventID)
}

// ReplaceAssignments rewrites the full assignment set of an event
// outside a snapshot. Admissions go through the service layer, which
// validates first; this direct form exists for seeding.
func (s *Store) ReplaceAssignments(ctx context.Context, eventID string, lines []booking.Line) error {
	return replaceAssignments(ctx, s.db, eventID, lines)
}

// insertEvent is the shared insert used by Store and Snapshot.
func insertEvent(ctx context.Context, q dbtx, evt booking.Event) error {
	if evt.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if err := checkStatus(evt.Status); err != nil {
		return fmt.Errorf("event %s: %w", evt.ID, err)
	}
	if !evt.Span.Valid() {
		return fmt.Errorf("event %s: invalid span %s", evt.ID, evt.Span)
	}

	startNs, endNs := marshalSpan(evt.Span)
	_, err := q.ExecContext(ctx, `
		INSERT INTO events (id, title, starts_at, ends_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, evt.ID, evt.Title, startNs, endNs, string(evt.Status))
	if err != nil {
		return fmt.Errorf("insert event %s: %w", evt.ID, err)
	}
	return nil
}

// updateEventSpan rewrites an event's title and span (reschedule).
func updateEventSpan(ctx context.Context, q dbtx, id, title string, span booking.TimeSpan) error {
	if !span.Valid() {
		return fmt.Errorf("event %s: invalid span %s", id, span)
	}

	startNs, endNs := marshalSpan(span)
	result, err := q.ExecContext(ctx, `
		UPDATE events SET title = ?, starts_at = ?, ends_at = ? WHERE id = ?
	`, title, startNs, endNs, id)
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	return requireRow(result, "event", id)
}

// setEventStatus rewrites an event's lifecycle status. Transition
// legality is the service layer's concern; the store only rejects
// values outside the enum.
func setEventStatus(ctx context.Context, q dbtx, id string, status booking.EventStatus) error {
	if err := checkStatus(status); err != nil {
		return fmt.Errorf("event %s: %w", id, err)
	}

	result, err := q.ExecContext(ctx, `
		UPDATE events SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("update event status %s: %w", id, err)
	}
	return requireRow(result, "event", id)
}

// deleteEvent removes an event; assignments cascade, the log stays.
func deleteEvent(ctx context.Context, q dbtx, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return requireRow(result, "event", id)
}

// replaceAssignments rewrites the full assignment set of an event.
// One row per (event, resource); the primary key enforces it.
func replaceAssignments(ctx context.Context, q dbtx, eventID string, lines []booking.Line) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM assignments WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("clear assignments for %s: %w", eventID, err)
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("assignment %s/%s: quantity must be >= 1, got %d",
				eventID, line.ResourceID, line.Quantity)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO assignments (event_id, resource_id, quantity)
			VALUES (?, ?, ?)
		`, eventID, line.ResourceID, line.Quantity); err != nil {
			return fmt.Errorf("insert assignment %s/%s: %w", eventID, line.ResourceID, err)
		}
	}
	return nil
}

// listAssignments is the shared read used by Store and Snapshot.
func listAssignments(ctx context.Context, q dbtx, eventID string) ([]booking.Assignment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT event_id, resource_id, quantity
		FROM assignments
		WHERE event_id = ?
		ORDER BY resource_id COLLATE BINARY ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []booking.Assignment
	for rows.Next() {
		var a booking.Assignment
		if err := rows.Scan(&a.EventID, &a.ResourceID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	if assignments == nil {
		assignments = []booking.Assignment{}
	}

	return assignments, nil
}

// getEvent is the shared lookup used by Store and Snapshot.
func getEvent(ctx context.Context, q dbtx, id string) (booking.Event, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, title, starts_at, ends_at, status
		FROM events
		WHERE id = ?
	`, id)

	var (
		evt            booking.Event
		startNs, endNs int64
		status         string
	)
	if err := row.Scan(&evt.ID, &evt.Title, &startNs, &endNs, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return booking.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Span = unmarshalSpan(startNs, endNs)
	evt.Status = booking.EventStatus(status)
	return evt, nil
}

func scanEvent(rows *sql.Rows) (booking.Event, error) {
	var (
		evt            booking.Event
		startNs, endNs int64
		status         string
	)
	if err := rows.Scan(&evt.ID, &evt.Title, &startNs, &endNs, &status); err != nil {
		return booking.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Span = unmarshalSpan(startNs, endNs)
	evt.Status = booking.EventStatus(status)
	return evt, nil
}
