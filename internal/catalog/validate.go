package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/veto/internal/booking"
)

// Validation error codes (E100-E199)
const (
	// Resource errors (E101-E109)
	ErrResourceInvalidType = "E101" // unknown resource type
	ErrResourceCapacity    = "E102" // capacity must be >= 1
	ErrDuplicateResource   = "E103" // duplicate resource name
	ErrResourceEmptyName   = "E104" // empty resource name

	// Constraint errors (E110-E119)
	ErrConstraintInvalidKind = "E110" // unknown constraint kind
	ErrConstraintNoRules     = "E111" // constraint declares no rules
	ErrDuplicateConstraint   = "E112" // duplicate constraint name
	ErrRuleInvalidShape      = "E113" // rule shape invariant broken
	ErrRuleUnknownResource   = "E114" // rule references a resource not in the catalog
)

// ValidationError represents a semantic catalog error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate runs semantic checks over a compiled catalog.
// Returns all errors found (does not fail-fast).
//
// Rule references are resolved against the catalog's own resources
// plus the extra names passed in (typically the names already in the
// store), so a catalog may layer rules onto pre-existing resources.
// Known names do not count as duplicates; Seed skips them, which is
// what makes reloading an already loaded catalog a no-op.
func Validate(cat *Catalog, knownNames map[string]bool) []ValidationError {
	var errs []ValidationError

	// resourceNames is the resolution set for rule references; seen
	// tracks only the catalog's own declarations for duplicate checks.
	resourceNames := make(map[string]bool, len(cat.Resources))
	for name := range knownNames {
		resourceNames[booking.NormalizeName(name)] = true
	}
	seen := make(map[string]bool, len(cat.Resources))

	for i, res := range cat.Resources {
		if strings.TrimSpace(res.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("resource[%d].name", i),
				Message: "resource name must be non-empty",
				Code:    ErrResourceEmptyName,
			})
			continue
		}

		// E103: duplicate resource name (after NFC normalization)
		if seen[res.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("resource[%d].name", i),
				Message: fmt.Sprintf("duplicate resource name: %q", res.Name),
				Code:    ErrDuplicateResource,
			})
		}
		seen[res.Name] = true
		resourceNames[res.Name] = true

		// E101: type must come from the closed set
		if !booking.ValidResourceTypes[res.Type] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("resource.%s.type", res.Name),
				Message: fmt.Sprintf("invalid resource type %q", res.Type),
				Code:    ErrResourceInvalidType,
			})
		}

		// E102: capacity floor
		if res.Capacity < 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("resource.%s.capacity", res.Name),
				Message: fmt.Sprintf("capacity must be >= 1, got %d", res.Capacity),
				Code:    ErrResourceCapacity,
			})
		}
	}

	constraintNames := make(map[string]bool, len(cat.Constraints))
	for _, set := range cat.Constraints {
		name := set.Constraint.Name

		// E112: duplicate constraint name
		if constraintNames[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraint.%s", name),
				Message: fmt.Sprintf("duplicate constraint name: %q", name),
				Code:    ErrDuplicateConstraint,
			})
		}
		constraintNames[name] = true

		// E110: kind must come from the closed set
		if !booking.ValidConstraintKinds[set.Constraint.Kind] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraint.%s.kind", name),
				Message: fmt.Sprintf("invalid constraint kind %q", set.Constraint.Kind),
				Code:    ErrConstraintInvalidKind,
			})
		}

		// E111: an empty rule list is always an authoring mistake
		if len(set.Rules) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("constraint.%s.rules", name),
				Message: "constraint must declare at least one rule",
				Code:    ErrConstraintNoRules,
			})
		}

		for i, rule := range set.Rules {
			// Shape invariants are the same ones the store enforces on
			// insert; surfacing them here gives file/position context
			// instead of a failed half-seeded load. Validate needs a
			// placeholder id to pass the id check.
			trial := rule
			trial.ID = "pending"
			trial.ConstraintID = "pending"
			if err := trial.Validate(); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("constraint.%s.rules[%d]", name, i),
					Message: strings.TrimPrefix(err.Error(), "rule pending: "),
					Code:    ErrRuleInvalidShape,
				})
				continue
			}

			// E114: subject and related must resolve
			if !resourceNames[rule.Subject] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("constraint.%s.rules[%d].subject", name, i),
					Message: fmt.Sprintf("unknown resource %q", rule.Subject),
					Code:    ErrRuleUnknownResource,
				})
			}
			if rule.Related != "" && !resourceNames[rule.Related] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("constraint.%s.rules[%d].related", name, i),
					Message: fmt.Sprintf("unknown resource %q", rule.Related),
					Code:    ErrRuleUnknownResource,
				})
			}
		}
	}

	return errs
}
