package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veto/internal/booking"
)

// newTestStore opens a fresh in-memory store for one test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testSpan builds a span on a fixed day from clock strings.
func testSpan(t *testing.T, start, end string) booking.TimeSpan {
	t.Helper()
	s, err := booking.ParseTime("2026-03-01 " + start)
	require.NoError(t, err)
	e, err := booking.ParseTime("2026-03-01 " + end)
	require.NoError(t, err)
	return booking.NewSpan(s, e)
}

// addResource seeds an active resource.
func addResource(t *testing.T, s *Store, id string, capacity int64) {
	t.Helper()
	require.NoError(t, s.CreateResource(context.Background(), booking.Resource{
		ID: id, Name: id, Type: booking.ResourceEquipment,
		Capacity: capacity, Active: true,
	}))
}

// addEvent seeds an event with assignments in one shot.
func addEvent(t *testing.T, s *Store, id string, span booking.TimeSpan, status booking.EventStatus, lines ...booking.Line) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateEvent(ctx, booking.Event{
		ID: id, Title: id, Span: span, Status: status,
	}))
	if len(lines) > 0 {
		sn, err := s.Begin(ctx)
		require.NoError(t, err)
		defer sn.Rollback()
		require.NoError(t, sn.ReplaceAssignments(ctx, id, lines))
		require.NoError(t, sn.Commit())
	}
}

// TestOpen_Pragmas tests that required pragmas are applied.
func TestOpen_Pragmas(t *testing.T) {
	// File-backed database: in-memory SQLite reports journal_mode=memory.
	path := filepath.Join(t.TempDir(), "veto.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

// TestOpen_Idempotent tests reopening the same database.
func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veto.db")

	s1, err := Open(path)
	require.NoError(t, err)
	addResource(t, s1, "projector", 2)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	res, err := s2.Resource(context.Background(), "projector")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Capacity)
}

// TestOpen_SchemaVersion tests that migrations stamp user_version.
func TestOpen_SchemaVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}
