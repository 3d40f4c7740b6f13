package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/engine"
)

// Interface conformance: a Snapshot serves the validator as all three
// collaborators, and the Store serves read-only validation directly.
var (
	_ engine.ResourceReader = (*Snapshot)(nil)
	_ engine.LedgerReader   = (*Snapshot)(nil)
	_ engine.RuleProvider   = (*Snapshot)(nil)
	_ engine.ResourceReader = (*Store)(nil)
	_ engine.LedgerReader   = (*Store)(nil)
	_ engine.RuleProvider   = (*Store)(nil)
)

// TestSnapshot_CommitPersists tests that writes inside a snapshot land
// together on commit.
func TestSnapshot_CommitPersists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)

	sn, err := s.Begin(ctx)
	require.NoError(t, err)
	defer sn.Rollback()

	require.NoError(t, sn.CreateEvent(ctx, booking.Event{
		ID: "evt-1", Title: "standup",
		Span: testSpan(t, "10:00", "11:00"), Status: booking.StatusScheduled,
	}))
	require.NoError(t, sn.ReplaceAssignments(ctx, "evt-1", []booking.Line{
		{ResourceID: "projector", Quantity: 1},
	}))
	require.NoError(t, sn.AppendLog(ctx, LogEntry{Seq: 1, EventID: "evt-1", Action: "scheduled"}))
	require.NoError(t, sn.Commit())

	evt, err := s.Event(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "standup", evt.Title)

	committed, err := s.CommittedQuantity(ctx, "projector", testSpan(t, "10:00", "11:00"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), committed)

	history, err := s.History(ctx, "evt-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// TestSnapshot_RollbackDiscards tests that nothing leaks from a rolled
// back snapshot.
func TestSnapshot_RollbackDiscards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)

	sn, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, sn.CreateEvent(ctx, booking.Event{
		ID: "evt-1", Title: "standup",
		Span: testSpan(t, "10:00", "11:00"), Status: booking.StatusScheduled,
	}))
	require.NoError(t, sn.Rollback())

	_, err = s.Event(ctx, "evt-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestSnapshot_RollbackAfterCommit tests the deferred-rollback pattern.
func TestSnapshot_RollbackAfterCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, sn.Commit())

	assert.NoError(t, sn.Rollback())
	assert.Error(t, sn.Commit(), "second commit must fail")
}

// TestSnapshot_ValidatorReadsThroughTransaction tests the engine
// running entirely over one snapshot.
func TestSnapshot_ValidatorReadsThroughTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)
	addEvent(t, s, "evt-1", testSpan(t, "10:00", "11:00"), booking.StatusScheduled,
		booking.Line{ResourceID: "projector", Quantity: 2})

	sn, err := s.Begin(ctx)
	require.NoError(t, err)
	defer sn.Rollback()

	v := engine.New(sn, sn, sn)
	report, err := v.Validate(ctx, booking.Request{
		Span:      testSpan(t, "10:30", "10:45"),
		Resources: []booking.Line{{ResourceID: "projector", Quantity: 1}},
	})
	require.NoError(t, err)
	require.False(t, report.Accepted)
	assert.Equal(t, engine.KindCapacityExceeded, report.Violations[0].Kind)
}

// TestLog_SeqOrderAndMax tests history ordering and clock resumption.
func TestLog_SeqOrderAndMax(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "projector", 2)
	addEvent(t, s, "evt-1", testSpan(t, "10:00", "11:00"), booking.StatusScheduled)

	max, err := s.MaxLogSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	sn, err := s.Begin(ctx)
	require.NoError(t, err)
	defer sn.Rollback()
	require.NoError(t, sn.AppendLog(ctx, LogEntry{Seq: 1, EventID: "evt-1", Action: "scheduled"}))
	require.NoError(t, sn.AppendLog(ctx, LogEntry{Seq: 2, EventID: "evt-1", Action: "cancelled", Detail: "by organizer"}))
	require.NoError(t, sn.Commit())

	history, err := s.History(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].Seq)
	assert.Equal(t, "scheduled", history[0].Action)
	assert.Equal(t, "by organizer", history[1].Detail)

	max, err = s.MaxLogSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), max)

	// Duplicate seq is rejected by the primary key.
	sn2, err := s.Begin(ctx)
	require.NoError(t, err)
	defer sn2.Rollback()
	assert.Error(t, sn2.AppendLog(ctx, LogEntry{Seq: 2, EventID: "evt-1", Action: "completed"}))
}
