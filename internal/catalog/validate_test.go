package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veto/internal/booking"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateCleanCatalog(t *testing.T) {
	cat := &Catalog{
		Resources: []booking.Resource{
			{Name: "room", Type: booking.ResourceRoom, Capacity: 1, Active: true},
			{Name: "projector", Type: booking.ResourceEquipment, Capacity: 2, Active: true},
		},
		Constraints: []ConstraintSet{{
			Constraint: booking.Constraint{Name: "pairing", Kind: booking.ConstraintCoRequirement, Active: true},
			Rules: []booking.Rule{
				{Kind: booking.RuleRequires, Subject: "projector", Related: "room", Position: 1},
			},
		}},
	}

	assert.Empty(t, Validate(cat, nil))
}

// TestValidateCollectsAll tests that every problem is reported, not
// just the first.
func TestValidateCollectsAll(t *testing.T) {
	cat := &Catalog{
		Resources: []booking.Resource{
			{Name: "room", Type: "warehouse", Capacity: 0, Active: true},
			{Name: "room", Type: booking.ResourceRoom, Capacity: 1, Active: true},
		},
		Constraints: []ConstraintSet{{
			Constraint: booking.Constraint{Name: "broken", Kind: "weird", Active: true},
			Rules: []booking.Rule{
				// missing related, then an unknown subject
				{Kind: booking.RuleRequires, Subject: "room", Position: 1},
				{Kind: booking.RuleMaxCapacity, Subject: "ghost", Value: 1, Position: 2},
			},
		}},
	}

	errs := Validate(cat, nil)
	assert.ElementsMatch(t, []string{
		ErrResourceInvalidType,
		ErrResourceCapacity,
		ErrDuplicateResource,
		ErrConstraintInvalidKind,
		ErrRuleInvalidShape,
		ErrRuleUnknownResource,
	}, codes(errs))
}

func TestValidateEmptyRuleList(t *testing.T) {
	cat := &Catalog{
		Constraints: []ConstraintSet{{
			Constraint: booking.Constraint{Name: "hollow", Kind: booking.ConstraintCapacity, Active: true},
		}},
	}

	errs := Validate(cat, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrConstraintNoRules, errs[0].Code)
}

// TestValidateKnownNames tests that rules may reference resources that
// already exist outside the catalog.
func TestValidateKnownNames(t *testing.T) {
	cat := &Catalog{
		Resources: []booking.Resource{
			{Name: "projector", Type: booking.ResourceEquipment, Capacity: 2, Active: true},
		},
		Constraints: []ConstraintSet{{
			Constraint: booking.Constraint{Name: "pairing", Kind: booking.ConstraintCoRequirement, Active: true},
			Rules: []booking.Rule{
				{Kind: booking.RuleRequires, Subject: "projector", Related: "av-cart", Position: 1},
			},
		}},
	}

	errs := Validate(cat, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRuleUnknownResource, errs[0].Code)

	assert.Empty(t, Validate(cat, map[string]bool{"av-cart": true}))
}

// TestValidateReloadIsClean tests that a catalog whose names all exist
// in the store still validates; Seed skips them on reload.
func TestValidateReloadIsClean(t *testing.T) {
	cat := &Catalog{
		Resources: []booking.Resource{
			{Name: "projector", Type: booking.ResourceEquipment, Capacity: 2, Active: true},
		},
	}

	assert.Empty(t, Validate(cat, map[string]bool{"projector": true}))
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "resource.room.capacity", Message: "capacity must be >= 1, got 0", Code: ErrResourceCapacity}
	assert.Equal(t, "[E102] resource.room.capacity: capacity must be >= 1, got 0", err.Error())
}
