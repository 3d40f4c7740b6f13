package engine

import "fmt"

// ViolationKind categorizes a single admission violation.
type ViolationKind string

const (
	// KindInvalidSpan indicates the candidate span has end <= start.
	KindInvalidSpan ViolationKind = "invalid_span"

	// KindResourceNotFound indicates a requested resource does not exist.
	KindResourceNotFound ViolationKind = "resource_not_found"

	// KindResourceInactive indicates a requested resource is deactivated.
	KindResourceInactive ViolationKind = "resource_inactive"

	// KindInvalidQuantity indicates a requested quantity outside
	// [1, resource capacity].
	KindInvalidQuantity ViolationKind = "invalid_quantity"

	// KindCapacityExceeded indicates committed + requested > capacity
	// for some overlapping instant.
	KindCapacityExceeded ViolationKind = "capacity_exceeded"

	// KindMissingRequiredResource indicates a requires rule whose related
	// resource is absent from the request.
	KindMissingRequiredResource ViolationKind = "missing_required_resource"

	// KindMutualExclusion indicates an excludes rule whose related
	// resource appears alongside the subject.
	KindMutualExclusion ViolationKind = "mutual_exclusion"

	// KindRuleCapacityExceeded indicates a max_capacity rule breached.
	KindRuleCapacityExceeded ViolationKind = "rule_capacity_exceeded"

	// KindBelowMinimumQuantity indicates a min_quantity rule breached.
	KindBelowMinimumQuantity ViolationKind = "below_minimum_quantity"
)

// Violation is one reason a request is inadmissible.
//
// Only the fields meaningful for the Kind are populated; the zero values
// of the rest are omitted from JSON so encoded reports stay minimal and
// byte-stable.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Resource string        `json:"resource,omitempty"` // subject resource id
	Related  string        `json:"related,omitempty"`  // requires/excludes counterpart

	Requested int64 `json:"requested,omitempty"` // quantity asked for
	Committed int64 `json:"committed,omitempty"` // already committed over the span
	Capacity  int64 `json:"capacity,omitempty"`  // resource total capacity
	Value     int64 `json:"value,omitempty"`     // rule threshold
}

// Message renders a human-readable description of the violation.
func (v Violation) Message() string {
	switch v.Kind {
	case KindInvalidSpan:
		return "event span is invalid: end must be after start"
	case KindResourceNotFound:
		return fmt.Sprintf("resource %s does not exist", v.Resource)
	case KindResourceInactive:
		return fmt.Sprintf("resource %s is inactive and cannot be assigned", v.Resource)
	case KindInvalidQuantity:
		return fmt.Sprintf("resource %s: quantity %d outside valid range [1, %d]",
			v.Resource, v.Requested, v.Capacity)
	case KindCapacityExceeded:
		return fmt.Sprintf("resource %s: requested %d but only %d of %d available during the span",
			v.Resource, v.Requested, v.Capacity-v.Committed, v.Capacity)
	case KindMissingRequiredResource:
		return fmt.Sprintf("resource %s requires %s, which is not in the request",
			v.Resource, v.Related)
	case KindMutualExclusion:
		return fmt.Sprintf("resource %s cannot be used together with %s",
			v.Resource, v.Related)
	case KindRuleCapacityExceeded:
		return fmt.Sprintf("resource %s: requested %d exceeds rule maximum %d",
			v.Resource, v.Requested, v.Value)
	case KindBelowMinimumQuantity:
		return fmt.Sprintf("resource %s: requested %d below rule minimum %d",
			v.Resource, v.Requested, v.Value)
	default:
		return fmt.Sprintf("unknown violation %s on resource %s", v.Kind, v.Resource)
	}
}

// Report is the immutable outcome of one validation call.
//
// Accepted is true iff Violations is empty. Violations is always non-nil
// and ordered deterministically: structural violations in request order
// (invalid span first), then capacity violations in request order, then
// rule violations in request order with rules in provider order.
type Report struct {
	Accepted   bool        `json:"accepted"`
	Violations []Violation `json:"violations"`
}

// newReport seals a violation list into a Report.
func newReport(violations []Violation) *Report {
	if violations == nil {
		violations = []Violation{}
	}
	return &Report{
		Accepted:   len(violations) == 0,
		Violations: violations,
	}
}

// Messages returns the human rendering of every violation, in report order.
func (r *Report) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message()
	}
	return msgs
}
