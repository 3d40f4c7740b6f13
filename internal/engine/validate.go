package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/veto/internal/booking"
)

// candidate is one requested line that survived the structural phase,
// carrying its resolved resource for the later phases.
type candidate struct {
	line     booking.Line
	resource booking.Resource
}

// Validate decides whether the candidate assignment is admissible.
//
// All four phases run and every violation is collected; the call never
// short-circuits on the first failure. A resource that fails the
// structural phase is excluded from the capacity and rule phases -
// capacity and rules cannot be evaluated meaningfully against a
// nonexistent or inactive resource - but the call still returns a full
// report covering everything else.
//
// Returns a *RequestError for malformed calls (duplicate resource ids)
// and a *DependencyError when a collaborator read fails; in both cases
// the report is nil.
func (v *Validator) Validate(ctx context.Context, req booking.Request) (*Report, error) {
	if dup := req.DuplicateResource(); dup != "" {
		return nil, NewDuplicateResourceError(dup)
	}

	var violations []Violation

	// Phase 1: structural checks.
	spanValid := req.Span.Valid()
	if !spanValid {
		violations = append(violations, Violation{Kind: KindInvalidSpan})
	}

	candidates := make([]candidate, 0, len(req.Resources))
	for _, line := range req.Resources {
		res, err := v.resources.Resource(ctx, line.ResourceID)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				violations = append(violations, Violation{
					Kind:     KindResourceNotFound,
					Resource: line.ResourceID,
				})
				continue
			}
			return nil, &DependencyError{Op: "resource", ResourceID: line.ResourceID, Err: err}
		}
		if !res.Active {
			violations = append(violations, Violation{
				Kind:     KindResourceInactive,
				Resource: line.ResourceID,
			})
			continue
		}
		if line.Quantity < 1 || line.Quantity > res.Capacity {
			violations = append(violations, Violation{
				Kind:      KindInvalidQuantity,
				Resource:  line.ResourceID,
				Requested: line.Quantity,
				Capacity:  res.Capacity,
			})
			continue
		}
		candidates = append(candidates, candidate{line: line, resource: res})
	}

	// Phase 2: capacity over overlapping commitments. Skipped entirely
	// when the span is invalid - overlap arithmetic is undefined.
	if spanValid {
		for _, c := range candidates {
			committed, err := v.ledger.CommittedQuantity(ctx, c.line.ResourceID, req.Span, req.EventID)
			if err != nil {
				return nil, &DependencyError{Op: "committed_quantity", ResourceID: c.line.ResourceID, Err: err}
			}
			if committed+c.line.Quantity > c.resource.Capacity {
				violations = append(violations, Violation{
					Kind:      KindCapacityExceeded,
					Resource:  c.line.ResourceID,
					Requested: c.line.Quantity,
					Committed: committed,
					Capacity:  c.resource.Capacity,
				})
			}
		}
	}

	// Phase 3: rule evaluation, request order x provider order.
	for _, c := range candidates {
		rules, err := v.rules.RulesFor(ctx, c.line.ResourceID)
		if err != nil {
			return nil, &DependencyError{Op: "rules_for", ResourceID: c.line.ResourceID, Err: err}
		}
		for _, rule := range rules {
			vio, err := v.evaluateRule(rule, c.line, req)
			if err != nil {
				return nil, err
			}
			if vio != nil {
				violations = append(violations, *vio)
			}
		}
	}

	report := newReport(violations)
	v.logger.Info("validation complete",
		"span", req.Span.String(),
		"resources", len(req.Resources),
		"accepted", report.Accepted,
		"violations", len(report.Violations))

	// Phase 4: aggregation.
	return report, nil
}

// evaluateRule applies one rule to one requested line.
//
// A rule fires directly when its subject is the resource under
// evaluation. With symmetric exclusion enabled, an excludes rule also
// fires from the related side; no other reverse rule is ever inferred.
// Returns nil when the rule is satisfied or does not apply.
func (v *Validator) evaluateRule(rule booking.Rule, line booking.Line, req booking.Request) (*Violation, error) {
	if rule.Subject != line.ResourceID {
		if v.symmetricExclusion && rule.Kind == booking.RuleExcludes && rule.Related == line.ResourceID {
			if req.Has(rule.Subject) {
				return &Violation{
					Kind:     KindMutualExclusion,
					Resource: line.ResourceID,
					Related:  rule.Subject,
				}, nil
			}
		}
		return nil, nil
	}

	switch rule.Kind {
	case booking.RuleRequires:
		if !req.Contains(rule.Related) {
			return &Violation{
				Kind:     KindMissingRequiredResource,
				Resource: rule.Subject,
				Related:  rule.Related,
			}, nil
		}
	case booking.RuleExcludes:
		if req.Has(rule.Related) {
			return &Violation{
				Kind:     KindMutualExclusion,
				Resource: rule.Subject,
				Related:  rule.Related,
			}, nil
		}
	case booking.RuleMaxCapacity:
		if line.Quantity > rule.Value {
			return &Violation{
				Kind:      KindRuleCapacityExceeded,
				Resource:  rule.Subject,
				Requested: line.Quantity,
				Value:     rule.Value,
			}, nil
		}
	case booking.RuleMinQuantity:
		if line.Quantity < rule.Value {
			return &Violation{
				Kind:      KindBelowMinimumQuantity,
				Resource:  rule.Subject,
				Requested: line.Quantity,
				Value:     rule.Value,
			}, nil
		}
	default:
		return nil, fmt.Errorf("rule %s: unknown rule kind %q", rule.ID, rule.Kind)
	}

	return nil, nil
}
