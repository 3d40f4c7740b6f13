package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/veto/internal/booking"
)

// Filter is a typed event query. Zero-value fields are unconstrained.
type Filter struct {
	// Status restricts to one lifecycle state.
	Status booking.EventStatus

	// ResourceID restricts to events holding an assignment to this
	// resource.
	ResourceID string

	// From/To restrict to events whose span overlaps [From, To),
	// half-open like every other span comparison. Both must be set
	// together.
	From time.Time
	To   time.Time
}

// windowed reports whether the filter carries a time window.
func (f Filter) windowed() bool {
	return !f.From.IsZero() || !f.To.IsZero()
}

// Compile translates the filter into a SELECT over the events table.
//
// Returns (sql, params, error). The column list and ordering are fixed:
// id, title, starts_at, ends_at, status, ordered by starts_at with the
// event id as unique tiebreaker.
func Compile(f Filter) (string, []any, error) {
	if f.Status != "" && !booking.ValidEventStatuses[f.Status] {
		return "", nil, fmt.Errorf("invalid status filter %q", f.Status)
	}
	if f.windowed() {
		if f.From.IsZero() || f.To.IsZero() {
			return "", nil, fmt.Errorf("time window requires both from and to")
		}
		if !f.To.After(f.From) {
			return "", nil, fmt.Errorf("time window end must be after start")
		}
	}

	var (
		conds  []string
		params []any
	)

	if f.Status != "" {
		conds = append(conds, "e.status = ?")
		params = append(params, string(f.Status))
	}
	if f.ResourceID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM assignments a WHERE a.event_id = e.id AND a.resource_id = ?)")
		params = append(params, f.ResourceID)
	}
	if f.windowed() {
		// Half-open overlap: e.starts_at < to AND from < e.ends_at.
		conds = append(conds, "e.starts_at < ?", "e.ends_at > ?")
		params = append(params, f.To.UTC().UnixNano(), f.From.UTC().UnixNano())
	}

	var where string
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// MANDATORY: deterministic ordering with a unique tiebreaker.
	query := "SELECT e.id, e.title, e.starts_at, e.ends_at, e.status FROM events e" +
		where +
		" ORDER BY e.starts_at ASC, e.id COLLATE BINARY ASC"

	return query, params, nil
}
