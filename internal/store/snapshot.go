package store

import (
	"context"
	"fmt"

	"github.com/roach88/veto/internal/booking"
)

// Snapshot is a single-transaction view of the store.
//
// It satisfies the engine's ResourceReader, LedgerReader, and
// RuleProvider interfaces, so one Snapshot passed as all three gives a
// validation call the read-snapshot consistency the engine requires:
// phase 2 and phase 3 can never disagree about resource state.
//
// The same transaction carries the commit writes, making
// validate-then-commit atomic with respect to other admissions - the
// transactional boundary that upholds the no-joint-overshoot invariant
// the pure validator cannot enforce alone.
type Snapshot struct {
	tx   txLike
	done bool
}

// txLike is the subset of *sql.Tx the snapshot uses, kept narrow for
// the same reason dbtx exists.
type txLike interface {
	dbtx
	Commit() error
	Rollback() error
}

// Commit makes the snapshot's writes durable.
func (sn *Snapshot) Commit() error {
	if sn.done {
		return fmt.Errorf("snapshot already finished")
	}
	sn.done = true
	if err := sn.tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Rollback discards the snapshot. Safe to defer: a no-op after Commit.
func (sn *Snapshot) Rollback() error {
	if sn.done {
		return nil
	}
	sn.done = true
	return sn.tx.Rollback()
}

// Resource implements engine.ResourceReader over the transaction.
func (sn *Snapshot) Resource(ctx context.Context, id string) (booking.Resource, error) {
	return getResource(ctx, sn.tx, id)
}

// CommittedQuantity implements engine.LedgerReader over the transaction.
func (sn *Snapshot) CommittedQuantity(ctx context.Context, resourceID string, span booking.TimeSpan, excludingEventID string) (int64, error) {
	return committedQuantity(ctx, sn.tx, resourceID, span, excludingEventID)
}

// RulesFor implements engine.RuleProvider over the transaction.
func (sn *Snapshot) RulesFor(ctx context.Context, resourceID string) ([]booking.Rule, error) {
	return rulesFor(ctx, sn.tx, resourceID)
}

// Event reads an event inside the transaction.
func (sn *Snapshot) Event(ctx context.Context, id string) (booking.Event, error) {
	return getEvent(ctx, sn.tx, id)
}

// Assignments reads an event's assignments inside the transaction.
func (sn *Snapshot) Assignments(ctx context.Context, eventID string) ([]booking.Assignment, error) {
	return listAssignments(ctx, sn.tx, eventID)
}

// CreateEvent writes an event inside the transaction.
func (sn *Snapshot) CreateEvent(ctx context.Context, evt booking.Event) error {
	return insertEvent(ctx, sn.tx, evt)
}

// UpdateEventSpan rewrites title and span inside the transaction.
func (sn *Snapshot) UpdateEventSpan(ctx context.Context, id, title string, span booking.TimeSpan) error {
	return updateEventSpan(ctx, sn.tx, id, title, span)
}

// SetEventStatus rewrites lifecycle status inside the transaction.
func (sn *Snapshot) SetEventStatus(ctx context.Context, id string, status booking.EventStatus) error {
	return setEventStatus(ctx, sn.tx, id, status)
}

// DeleteEvent removes an event inside the transaction; assignments
// cascade.
func (sn *Snapshot) DeleteEvent(ctx context.Context, id string) error {
	return deleteEvent(ctx, sn.tx, id)
}

// ReplaceAssignments rewrites an event's assignment set inside the
// transaction.
func (sn *Snapshot) ReplaceAssignments(ctx context.Context, eventID string, lines []booking.Line) error {
	return replaceAssignments(ctx, sn.tx, eventID, lines)
}

// AppendLog writes an audit entry inside the transaction, so history
// and state change together or not at all.
func (sn *Snapshot) AppendLog(ctx context.Context, entry LogEntry) error {
	return appendLog(ctx, sn.tx, entry)
}

// CreateResource writes a resource inside the transaction (catalog
// seeding).
func (sn *Snapshot) CreateResource(ctx context.Context, res booking.Resource) error {
	return createResource(ctx, sn.tx, res)
}

// CreateConstraint writes a constraint inside the transaction (catalog
// seeding).
func (sn *Snapshot) CreateConstraint(ctx context.Context, c booking.Constraint) error {
	return createConstraint(ctx, sn.tx, c)
}

// CreateRule writes a rule inside the transaction (catalog seeding).
func (sn *Snapshot) CreateRule(ctx context.Context, rule booking.Rule) error {
	return createRule(ctx, sn.tx, rule)
}
