package store

import (
	"context"
	"fmt"

	"github.com/roach88/veto/internal/booking"
)

// CommittedQuantity sums assignment quantities on a resource across all
// scheduled events whose span overlaps the query span.
//
// This is the Resource Ledger: a pure read over assignments and events,
// never separately maintained state. Only status = 'scheduled' events
// count; cancelled and completed events hold nothing. The overlap test
// is half-open, so an event ending exactly when the span starts does
// not contribute.
//
// excludingEventID, when non-empty, drops one event's own assignments
// from the sum - used when re-validating an edit so the event does not
// conflict with itself.
func (s *Store) CommittedQuantity(ctx context.Context, resourceID string, span booking.TimeSpan, excludingEventID string) (int64, error) {
	return committedQuantity(ctx, s.db, resourceID, span, excludingEventID)
}

// Availability returns capacity minus committed quantity over the span,
// clamped at zero.
func (s *Store) Availability(ctx context.Context, resourceID string, span booking.TimeSpan) (int64, error) {
	res, err := s.Resource(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	committed, err := s.CommittedQuantity(ctx, resourceID, span, "")
	if err != nil {
		return 0, err
	}

	free := res.Capacity - committed
	if free < 0 {
		free = 0
	}
	return free, nil
}

// CommittedWindows returns each scheduled claim on a resource that
// overlaps the window: one entry per assignment with the owning event's
// span and the assigned quantity. This is the read behind free-slot
// search; booking.FreeSlots sweeps these windows to find the gaps.
//
// Ordered by event start with the event id as tiebreaker. Returns an
// empty slice (not nil) when nothing overlaps.
func (s *Store) CommittedWindows(ctx context.Context, resourceID string, window booking.TimeSpan) ([]booking.Commitment, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("committed windows: invalid span %s", window)
	}

	startNs, endNs := marshalSpan(window)
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.starts_at, e.ends_at, a.quantity
		FROM assignments a
		JOIN events e ON e.id = a.event_id
		WHERE a.resource_id = ?
		  AND e.status = 'scheduled'
		  AND e.starts_at < ?
		  AND e.ends_at > ?
		ORDER BY e.starts_at ASC, e.id COLLATE BINARY ASC
	`, resourceID, endNs, startNs)
	if err != nil {
		return nil, fmt.Errorf("query committed windows: %w", err)
	}
	defer rows.Close()

	var claims []booking.Commitment
	for rows.Next() {
		var evtStartNs, evtEndNs, qty int64
		if err := rows.Scan(&evtStartNs, &evtEndNs, &qty); err != nil {
			return nil, fmt.Errorf("scan committed window: %w", err)
		}
		claims = append(claims, booking.Commitment{
			Span:     unmarshalSpan(evtStartNs, evtEndNs),
			Quantity: qty,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate committed windows: %w", err)
	}

	if claims == nil {
		claims = []booking.Commitment{}
	}
	return claims, nil
}

// committedQuantity is the shared ledger read used by Store and Snapshot.
func committedQuantity(ctx context.Context, q dbtx, resourceID string, span booking.TimeSpan, excludingEventID string) (int64, error) {
	if !span.Valid() {
		return 0, fmt.Errorf("committed quantity: invalid span %s", span)
	}

	startNs, endNs := marshalSpan(span)

	// Half-open overlap: event.starts_at < span.end AND span.start < event.ends_at.
	var total int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(a.quantity), 0)
		FROM assignments a
		JOIN events e ON e.id = a.event_id
		WHERE a.resource_id = ?
		  AND e.status = 'scheduled'
		  AND e.starts_at < ?
		  AND e.ends_at > ?
		  AND (? = '' OR e.id != ?)
	`, resourceID, endNs, startNs, excludingEventID, excludingEventID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query committed quantity: %w", err)
	}

	return total, nil
}
