package store

import (
	"context"
	"fmt"

	"github.com/roach88/veto/internal/booking"
)

// CreateConstraint inserts a named constraint group. The name is
// NFC-normalized; a collision returns ErrNameTaken.
func (s *Store) CreateConstraint(ctx context.Context, c booking.Constraint) error {
	return createConstraint(ctx, s.db, c)
}

// CreateRule inserts one rule under an existing constraint. The rule's
// shape invariants are enforced before the row is written.
func (s *Store) CreateRule(ctx context.Context, rule booking.Rule) error {
	return createRule(ctx, s.db, rule)
}

// ListConstraints returns all constraints ordered by name.
//
// Returns an empty slice (not nil) when none exist.
func (s *Store) ListConstraints(ctx context.Context) ([]booking.Constraint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, active
		FROM constraints
		ORDER BY name COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	var constraints []booking.Constraint
	for rows.Next() {
		var (
			c      booking.Constraint
			kind   string
			active int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &kind, &active); err != nil {
			return nil, fmt.Errorf("scan constraint: %w", err)
		}
		c.Kind = booking.ConstraintKind(kind)
		c.Active = active != 0
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraints: %w", err)
	}

	if constraints == nil {
		constraints = []booking.Constraint{}
	}

	return constraints, nil
}

// SetConstraintActive toggles a constraint group. Rules of an inactive
// constraint are invisible to RulesFor.
func (s *Store) SetConstraintActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE constraints SET active = ? WHERE id = ?
	`, marshalBool(active), id)
	if err != nil {
		return fmt.Errorf("update constraint active: %w", err)
	}
	return requireRow(result, "constraint", id)
}

// RulesOf returns every rule under one constraint in (position, id)
// order, regardless of the constraint's active flag.
//
// Returns an empty slice (not nil) when the constraint has no rules.
func (s *Store) RulesOf(ctx context.Context, constraintID string) ([]booking.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, constraint_id, kind, subject_id, COALESCE(related_id, ''), value, position
		FROM constraint_rules
		WHERE constraint_id = ?
		ORDER BY position ASC, id COLLATE BINARY ASC
	`, constraintID)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []booking.Rule
	for rows.Next() {
		var (
			rule booking.Rule
			kind string
		)
		if err := rows.Scan(&rule.ID, &rule.ConstraintID, &kind, &rule.Subject,
			&rule.Related, &rule.Value, &rule.Position); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.Kind = booking.RuleKind(kind)
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	if rules == nil {
		rules = []booking.Rule{}
	}

	return rules, nil
}

// RulesFor returns all rules of active constraints that mention the
// resource as subject or related, in (position, id) order.
//
// Returns an empty slice (not nil) when no rules apply.
func (s *Store) RulesFor(ctx context.Context, resourceID string) ([]booking.Rule, error) {
	return rulesFor(ctx, s.db, resourceID)
}

// createConstraint is the shared insert used by Store and Snapshot.
func createConstraint(ctx context.Context, q dbtx, c booking.Constraint) error {
	if c.ID == "" {
		return fmt.Errorf("constraint id is required")
	}
	if !booking.ValidConstraintKinds[c.Kind] {
		return fmt.Errorf("constraint %s: invalid kind %q", c.ID, c.Kind)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO constraints (id, name, kind, active)
		VALUES (?, ?, ?, ?)
	`, c.ID, booking.NormalizeName(c.Name), string(c.Kind), marshalBool(c.Active))
	if err != nil {
		return fmt.Errorf("insert constraint %s: %w", c.ID, mapUniqueError(err))
	}
	return nil
}

// createRule is the shared insert used by Store and Snapshot.
func createRule(ctx context.Context, q dbtx, rule booking.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if rule.ConstraintID == "" {
		return fmt.Errorf("rule %s: constraint id is required", rule.ID)
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	var related any
	if rule.Related != "" {
		related = rule.Related
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO constraint_rules (id, constraint_id, kind, subject_id, related_id, value, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rule.ID, rule.ConstraintID, string(rule.Kind), rule.Subject, related, rule.Value, rule.Position)
	if err != nil {
		return fmt.Errorf("insert rule %s: %w", rule.ID, err)
	}
	return nil
}

// rulesFor is the shared read used by Store and Snapshot.
//
// Rules are fetched for both directions (subject or related) so the
// engine's symmetric-exclusion option sees the reverse side; direct
// evaluation still fires only on the subject.
func rulesFor(ctx context.Context, q dbtx, resourceID string) ([]booking.Rule, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT r.id, r.constraint_id, r.kind, r.subject_id, COALESCE(r.related_id, ''), r.value, r.position
		FROM constraint_rules r
		JOIN constraints c ON c.id = r.constraint_id
		WHERE c.active = 1 AND (r.subject_id = ? OR r.related_id = ?)
		ORDER BY r.position ASC, r.id COLLATE BINARY ASC
	`, resourceID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []booking.Rule
	for rows.Next() {
		var (
			rule booking.Rule
			kind string
		)
		if err := rows.Scan(&rule.ID, &rule.ConstraintID, &kind, &rule.Subject,
			&rule.Related, &rule.Value, &rule.Position); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.Kind = booking.RuleKind(kind)
		if err := checkRuleKind(rule.Kind); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	if rules == nil {
		rules = []booking.Rule{}
	}

	return rules, nil
}
