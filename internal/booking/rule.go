package booking

import "fmt"

// ConstraintKind categorizes a named constraint group.
type ConstraintKind string

const (
	ConstraintCoRequirement   ConstraintKind = "co_requirement"
	ConstraintMutualExclusion ConstraintKind = "mutual_exclusion"
	ConstraintCapacity        ConstraintKind = "capacity"
)

// ValidConstraintKinds defines the allowed constraint kinds.
var ValidConstraintKinds = map[ConstraintKind]bool{
	ConstraintCoRequirement:   true,
	ConstraintMutualExclusion: true,
	ConstraintCapacity:        true,
}

// Constraint is a named, toggleable group of rules. Rules of an inactive
// constraint are invisible to the validator.
type Constraint struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"` // unique, NFC-normalized
	Kind   ConstraintKind `json:"kind"`
	Active bool           `json:"active"`
}

// RuleKind is the closed set of concrete rule conditions.
//
// The set is fixed by design: every consumer switches exhaustively and
// treats an unknown kind as an error.
type RuleKind string

const (
	// RuleRequires demands the related resource also appear in the request.
	RuleRequires RuleKind = "requires"

	// RuleExcludes forbids the related resource from appearing alongside
	// the subject. Exclusion is directional as authored; see
	// engine.WithSymmetricExclusion for the reverse check.
	RuleExcludes RuleKind = "excludes"

	// RuleMaxCapacity caps the requested quantity of the subject.
	RuleMaxCapacity RuleKind = "max_capacity"

	// RuleMinQuantity sets a floor on the requested quantity of the subject.
	RuleMinQuantity RuleKind = "min_quantity"
)

// ValidRuleKinds defines the allowed rule kinds.
var ValidRuleKinds = map[RuleKind]bool{
	RuleRequires:    true,
	RuleExcludes:    true,
	RuleMaxCapacity: true,
	RuleMinQuantity: true,
}

// Rule is one concrete condition under a constraint, bound to a subject
// resource and (for requires/excludes) one related resource.
//
// Position orders rules within a constraint for deterministic evaluation.
type Rule struct {
	ID           string   `json:"id"`
	ConstraintID string   `json:"constraint_id"`
	Kind         RuleKind `json:"kind"`
	Subject      string   `json:"subject"`           // resource id
	Related      string   `json:"related,omitempty"` // resource id, requires/excludes only
	Value        int64    `json:"value,omitempty"`   // max_capacity/min_quantity only
	Position     int64    `json:"position"`
}

// Validate checks the shape invariants of a rule:
//
//   - requires/excludes need Related, Subject != Related, and no Value
//   - max_capacity/min_quantity need Value >= 1 and no Related
//
// Returns nil when the rule is well-formed.
func (r Rule) Validate() error {
	if r.Subject == "" {
		return fmt.Errorf("rule %s: subject resource is required", r.ID)
	}

	switch r.Kind {
	case RuleRequires, RuleExcludes:
		if r.Related == "" {
			return fmt.Errorf("rule %s: %s requires a related resource", r.ID, r.Kind)
		}
		if r.Related == r.Subject {
			return fmt.Errorf("rule %s: subject and related resource must differ", r.ID)
		}
		if r.Value != 0 {
			return fmt.Errorf("rule %s: %s does not take a value", r.ID, r.Kind)
		}
	case RuleMaxCapacity, RuleMinQuantity:
		if r.Value < 1 {
			return fmt.Errorf("rule %s: %s requires a value >= 1, got %d", r.ID, r.Kind, r.Value)
		}
		if r.Related != "" {
			return fmt.Errorf("rule %s: %s does not take a related resource", r.ID, r.Kind)
		}
	default:
		return fmt.Errorf("rule %s: unknown rule kind %q", r.ID, r.Kind)
	}

	return nil
}
