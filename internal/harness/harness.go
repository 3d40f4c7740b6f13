package harness

import (
	"context"
	"fmt"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/engine"
	"github.com/roach88/veto/internal/store"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Scenario *Scenario
	Report   *engine.Report
}

// Run executes a scenario against a fresh in-memory store.
//
// Seeding is deterministic: resource and constraint ids equal their
// names, rule ids are <constraint>-<position>, event ids are evt-1,
// evt-2, ... in authored order. The candidate request is validated,
// never committed.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	defer st.Close()

	if err := seed(ctx, st, scenario); err != nil {
		return nil, err
	}

	var opts []engine.Option
	if scenario.Options.SymmetricExclusion {
		opts = append(opts, engine.WithSymmetricExclusion())
	}

	req, err := buildRequest(scenario.Request)
	if err != nil {
		return nil, err
	}

	v := engine.New(st, st, st, opts...)
	report, err := v.Validate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("validate candidate: %w", err)
	}

	return &Result{Scenario: scenario, Report: report}, nil
}

// CheckExpectations compares a report against the scenario's expect
// clause. Each expected violation must match the actual violation at
// the same index on its set fields; the counts must agree exactly.
func CheckExpectations(result *Result) error {
	expect := result.Scenario.Expect
	report := result.Report

	if report.Accepted != expect.Accepted {
		return fmt.Errorf("expected accepted=%v, got accepted=%v (violations: %v)",
			expect.Accepted, report.Accepted, report.Messages())
	}

	if len(expect.Violations) > 0 || !expect.Accepted {
		if len(report.Violations) != len(expect.Violations) {
			return fmt.Errorf("expected %d violations, got %d (%v)",
				len(expect.Violations), len(report.Violations), report.Messages())
		}
		for i, want := range expect.Violations {
			got := report.Violations[i]
			if string(got.Kind) != want.Kind {
				return fmt.Errorf("violations[%d]: expected kind %s, got %s", i, want.Kind, got.Kind)
			}
			if want.Resource != "" && got.Resource != want.Resource {
				return fmt.Errorf("violations[%d]: expected resource %s, got %s", i, want.Resource, got.Resource)
			}
			if want.Related != "" && got.Related != want.Related {
				return fmt.Errorf("violations[%d]: expected related %s, got %s", i, want.Related, got.Related)
			}
		}
	}

	return nil
}

// seed writes the scenario's world into the store.
func seed(ctx context.Context, st *store.Store, scenario *Scenario) error {
	for _, res := range scenario.Resources {
		if err := st.CreateResource(ctx, booking.Resource{
			ID:       res.Name,
			Name:     res.Name,
			Type:     booking.ResourceType(res.Type),
			Capacity: res.Capacity,
			Active:   !res.Inactive,
		}); err != nil {
			return fmt.Errorf("seed resource %s: %w", res.Name, err)
		}
	}

	for _, c := range scenario.Constraints {
		if err := st.CreateConstraint(ctx, booking.Constraint{
			ID:     c.Name,
			Name:   c.Name,
			Kind:   booking.ConstraintKind(c.Kind),
			Active: !c.Inactive,
		}); err != nil {
			return fmt.Errorf("seed constraint %s: %w", c.Name, err)
		}
		for i, rule := range c.Rules {
			if err := st.CreateRule(ctx, booking.Rule{
				ID:           fmt.Sprintf("%s-%d", c.Name, i+1),
				ConstraintID: c.Name,
				Kind:         booking.RuleKind(rule.Kind),
				Subject:      rule.Subject,
				Related:      rule.Related,
				Value:        rule.Value,
				Position:     int64(i + 1),
			}); err != nil {
				return fmt.Errorf("seed constraint %s rule %d: %w", c.Name, i+1, err)
			}
		}
	}

	for i, evt := range scenario.Events {
		span, err := parseSpan(evt.Start, evt.End)
		if err != nil {
			return fmt.Errorf("seed event %q: %w", evt.Title, err)
		}
		status := booking.StatusScheduled
		if evt.Status != "" {
			status = booking.EventStatus(evt.Status)
		}
		id := fmt.Sprintf("evt-%d", i+1)
		if err := st.CreateEvent(ctx, booking.Event{
			ID: id, Title: evt.Title, Span: span, Status: status,
		}); err != nil {
			return fmt.Errorf("seed event %q: %w", evt.Title, err)
		}
		lines := make([]booking.Line, len(evt.Resources))
		for j, line := range evt.Resources {
			lines[j] = booking.Line{ResourceID: line.Resource, Quantity: line.Quantity}
		}
		if err := st.ReplaceAssignments(ctx, id, lines); err != nil {
			return fmt.Errorf("seed event %q assignments: %w", evt.Title, err)
		}
	}

	return nil
}

// buildRequest converts the request declaration to the engine's type.
func buildRequest(decl RequestDecl) (booking.Request, error) {
	span, err := parseSpan(decl.Start, decl.End)
	if err != nil {
		return booking.Request{}, fmt.Errorf("request: %w", err)
	}
	lines := make([]booking.Line, len(decl.Resources))
	for i, line := range decl.Resources {
		lines[i] = booking.Line{ResourceID: line.Resource, Quantity: line.Quantity}
	}
	return booking.Request{Span: span, Resources: lines}, nil
}

func parseSpan(start, end string) (booking.TimeSpan, error) {
	s, err := booking.ParseTime(start)
	if err != nil {
		return booking.TimeSpan{}, fmt.Errorf("start: %w", err)
	}
	e, err := booking.ParseTime(end)
	if err != nil {
		return booking.TimeSpan{}, fmt.Errorf("end: %w", err)
	}
	return booking.NewSpan(s, e), nil
}
