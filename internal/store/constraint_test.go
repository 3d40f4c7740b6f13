package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veto/internal/booking"
)

// addConstraint seeds an active constraint group.
func addConstraint(t *testing.T, s *Store, id string, kind booking.ConstraintKind) {
	t.Helper()
	require.NoError(t, s.CreateConstraint(context.Background(), booking.Constraint{
		ID: id, Name: id, Kind: kind, Active: true,
	}))
}

// TestRulesFor_ActiveOnly tests that rules of inactive constraints are
// invisible.
func TestRulesFor_ActiveOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "screen", 1)
	addResource(t, s, "projector", 2)
	addConstraint(t, s, "av-pairing", booking.ConstraintCoRequirement)

	require.NoError(t, s.CreateRule(ctx, booking.Rule{
		ID: "rule-1", ConstraintID: "av-pairing", Kind: booking.RuleRequires,
		Subject: "screen", Related: "projector", Position: 1,
	}))

	rules, err := s.RulesFor(ctx, "screen")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, booking.RuleRequires, rules[0].Kind)

	require.NoError(t, s.SetConstraintActive(ctx, "av-pairing", false))

	rules, err = s.RulesFor(ctx, "screen")
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
}

// TestRulesFor_Order tests deterministic (position, id) ordering.
func TestRulesFor_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "microphone", 10)
	addConstraint(t, s, "audio-limits", booking.ConstraintCapacity)

	// Inserted out of order on purpose.
	require.NoError(t, s.CreateRule(ctx, booking.Rule{
		ID: "rule-b", ConstraintID: "audio-limits", Kind: booking.RuleMaxCapacity,
		Subject: "microphone", Value: 4, Position: 2,
	}))
	require.NoError(t, s.CreateRule(ctx, booking.Rule{
		ID: "rule-c", ConstraintID: "audio-limits", Kind: booking.RuleMinQuantity,
		Subject: "microphone", Value: 1, Position: 1,
	}))
	require.NoError(t, s.CreateRule(ctx, booking.Rule{
		ID: "rule-a", ConstraintID: "audio-limits", Kind: booking.RuleMinQuantity,
		Subject: "microphone", Value: 2, Position: 2,
	}))

	rules, err := s.RulesFor(ctx, "microphone")
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "rule-c", rules[0].ID) // position 1
	assert.Equal(t, "rule-a", rules[1].ID) // position 2, id tiebreak
	assert.Equal(t, "rule-b", rules[2].ID)
}

// TestRulesFor_BothDirections tests that a rule is visible from its
// related resource as well, for the symmetric-exclusion option.
func TestRulesFor_BothDirections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "room-a", 1)
	addResource(t, s, "room-b", 1)
	addConstraint(t, s, "room-conflict", booking.ConstraintMutualExclusion)

	require.NoError(t, s.CreateRule(ctx, booking.Rule{
		ID: "rule-1", ConstraintID: "room-conflict", Kind: booking.RuleExcludes,
		Subject: "room-a", Related: "room-b", Position: 1,
	}))

	forSubject, err := s.RulesFor(ctx, "room-a")
	require.NoError(t, err)
	require.Len(t, forSubject, 1)

	forRelated, err := s.RulesFor(ctx, "room-b")
	require.NoError(t, err)
	require.Len(t, forRelated, 1)
	assert.Equal(t, "room-a", forRelated[0].Subject)
}

// TestCreateRule_InvalidShape tests shape enforcement at the storage
// boundary.
func TestCreateRule_InvalidShape(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addResource(t, s, "screen", 1)
	addConstraint(t, s, "av-pairing", booking.ConstraintCoRequirement)

	err := s.CreateRule(ctx, booking.Rule{
		ID: "rule-1", ConstraintID: "av-pairing", Kind: booking.RuleRequires,
		Subject: "screen", // missing related
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a related resource")

	err = s.CreateRule(ctx, booking.Rule{
		ID: "rule-2", ConstraintID: "av-pairing", Kind: booking.RuleKind("forbids"),
		Subject: "screen",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule kind")
}

// TestCreateConstraint_Validation tests kind checking and name
// collisions.
func TestCreateConstraint_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateConstraint(ctx, booking.Constraint{
		ID: "c1", Name: "x", Kind: booking.ConstraintKind("vibes"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid kind")

	addConstraint(t, s, "av-pairing", booking.ConstraintCoRequirement)
	err = s.CreateConstraint(ctx, booking.Constraint{
		ID: "c2", Name: "av-pairing", Kind: booking.ConstraintCapacity, Active: true,
	})
	assert.ErrorIs(t, err, ErrNameTaken)
}

// TestListConstraints tests ordering and the empty-slice convention.
func TestListConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.ListConstraints(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	addConstraint(t, s, "zone-rules", booking.ConstraintMutualExclusion)
	addConstraint(t, s, "av-pairing", booking.ConstraintCoRequirement)

	constraints, err := s.ListConstraints(ctx)
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, "av-pairing", constraints[0].Name)
	assert.Equal(t, "zone-rules", constraints[1].Name)
}
