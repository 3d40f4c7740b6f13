package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/store"
)

// IDGenerator mints ids for seeded rows. Satisfied by
// service.UUIDv7Generator and testutil.SequenceIDGenerator.
type IDGenerator interface {
	NewID() string
}

// SeedResult reports what a seed run actually wrote.
type SeedResult struct {
	ResourcesCreated   int `json:"resources_created"`
	ResourcesSkipped   int `json:"resources_skipped"`
	ConstraintsCreated int `json:"constraints_created"`
	ConstraintsSkipped int `json:"constraints_skipped"`
	RulesCreated       int `json:"rules_created"`
}

// Seed writes a validated catalog into the store.
//
// Seeding is idempotent over names: a resource or constraint whose
// name already exists is skipped, not overwritten, so reloading a
// catalog never clobbers capacity edits or active toggles made since.
// Rules of a skipped constraint are skipped with it.
//
// Rule subjects are authored as resource names; Seed resolves them to
// ids against the store, which by validation time holds every name the
// catalog references.
func Seed(ctx context.Context, st *store.Store, cat *Catalog, ids IDGenerator) (SeedResult, error) {
	var result SeedResult

	for _, res := range cat.Resources {
		_, err := st.ResourceByName(ctx, res.Name)
		switch {
		case err == nil:
			result.ResourcesSkipped++
			continue
		case !errors.Is(err, store.ErrNotFound):
			return result, fmt.Errorf("seed resource %q: %w", res.Name, err)
		}

		res.ID = ids.NewID()
		if err := st.CreateResource(ctx, res); err != nil {
			return result, fmt.Errorf("seed resource %q: %w", res.Name, err)
		}
		result.ResourcesCreated++
	}

	existing, err := st.ListConstraints(ctx)
	if err != nil {
		return result, fmt.Errorf("seed constraints: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.Name] = true
	}

	for _, set := range cat.Constraints {
		if taken[set.Constraint.Name] {
			result.ConstraintsSkipped++
			continue
		}

		c := set.Constraint
		c.ID = ids.NewID()
		if err := st.CreateConstraint(ctx, c); err != nil {
			return result, fmt.Errorf("seed constraint %q: %w", c.Name, err)
		}
		result.ConstraintsCreated++

		for _, rule := range set.Rules {
			resolved, err := resolveRule(ctx, st, rule)
			if err != nil {
				return result, fmt.Errorf("seed constraint %q: %w", c.Name, err)
			}
			resolved.ID = ids.NewID()
			resolved.ConstraintID = c.ID
			if err := st.CreateRule(ctx, resolved); err != nil {
				return result, fmt.Errorf("seed constraint %q: %w", c.Name, err)
			}
			result.RulesCreated++
		}
	}

	return result, nil
}

// resolveRule swaps the authored resource names for store ids.
func resolveRule(ctx context.Context, st *store.Store, rule booking.Rule) (booking.Rule, error) {
	subject, err := st.ResourceByName(ctx, rule.Subject)
	if err != nil {
		return rule, fmt.Errorf("resolve subject %q: %w", rule.Subject, err)
	}
	rule.Subject = subject.ID

	if rule.Related != "" {
		related, err := st.ResourceByName(ctx, rule.Related)
		if err != nil {
			return rule, fmt.Errorf("resolve related %q: %w", rule.Related, err)
		}
		rule.Related = related.ID
	}

	return rule, nil
}
