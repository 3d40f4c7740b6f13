package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/veto/internal/booking"
)

// Scenario defines one validation conformance case: a seeded world,
// a candidate request, and the expected decision.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Resources seeds the store. Ids equal names.
	Resources []ResourceDecl `yaml:"resources"`

	// Constraints seeds rule groups. Optional.
	Constraints []ConstraintDecl `yaml:"constraints,omitempty"`

	// Events seeds already-committed events ahead of the candidate.
	// Optional.
	Events []EventDecl `yaml:"events,omitempty"`

	// Request is the candidate admission to validate.
	Request RequestDecl `yaml:"request"`

	// Options toggles optional validator behavior.
	Options OptionsDecl `yaml:"options,omitempty"`

	// Expect is the expected decision. Violation matching is a subset
	// match in order: each expected violation must appear at its index.
	Expect ExpectDecl `yaml:"expect"`
}

// ResourceDecl seeds one resource.
type ResourceDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Capacity int64  `yaml:"capacity"`
	// Inactive flips the default-active seeding.
	Inactive bool `yaml:"inactive,omitempty"`
}

// ConstraintDecl seeds one constraint group with its rules.
type ConstraintDecl struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Inactive bool       `yaml:"inactive,omitempty"`
	Rules    []RuleDecl `yaml:"rules"`
}

// RuleDecl seeds one rule. Subject and related reference resources by
// name.
type RuleDecl struct {
	Kind    string `yaml:"kind"`
	Subject string `yaml:"subject"`
	Related string `yaml:"related,omitempty"`
	Value   int64  `yaml:"value,omitempty"`
}

// EventDecl seeds one pre-existing event with its assignments.
type EventDecl struct {
	Title string `yaml:"title"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	// Status defaults to scheduled.
	Status    string     `yaml:"status,omitempty"`
	Resources []LineDecl `yaml:"resources"`
}

// LineDecl is one resource line of an event or request.
type LineDecl struct {
	Resource string `yaml:"resource"`
	Quantity int64  `yaml:"quantity"`
}

// RequestDecl is the candidate admission.
type RequestDecl struct {
	Start     string     `yaml:"start"`
	End       string     `yaml:"end"`
	Resources []LineDecl `yaml:"resources"`
}

// OptionsDecl toggles optional validator behavior per scenario.
type OptionsDecl struct {
	SymmetricExclusion bool `yaml:"symmetric_exclusion,omitempty"`
}

// ExpectDecl is the expected decision.
type ExpectDecl struct {
	Accepted   bool            `yaml:"accepted"`
	Violations []ViolationDecl `yaml:"violations,omitempty"`
}

// ViolationDecl matches one expected violation. Only the fields set
// here are compared; kind is required.
type ViolationDecl struct {
	Kind     string `yaml:"kind"`
	Resource string `yaml:"resource,omitempty"`
	Related  string `yaml:"related,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of silently passing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// validateScenario checks required fields before any store work.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Resources) == 0 {
		return fmt.Errorf("resources list is required and must be non-empty")
	}

	for i, res := range s.Resources {
		if res.Name == "" {
			return fmt.Errorf("resources[%d]: name is required", i)
		}
		if !booking.ValidResourceTypes[booking.ResourceType(res.Type)] {
			return fmt.Errorf("resources[%d]: invalid type %q", i, res.Type)
		}
	}

	for i, c := range s.Constraints {
		if c.Name == "" {
			return fmt.Errorf("constraints[%d]: name is required", i)
		}
		if !booking.ValidConstraintKinds[booking.ConstraintKind(c.Kind)] {
			return fmt.Errorf("constraints[%d]: invalid kind %q", i, c.Kind)
		}
		if len(c.Rules) == 0 {
			return fmt.Errorf("constraints[%d]: rules list is required", i)
		}
	}

	for i, evt := range s.Events {
		if evt.Title == "" {
			return fmt.Errorf("events[%d]: title is required", i)
		}
		if evt.Start == "" || evt.End == "" {
			return fmt.Errorf("events[%d]: start and end are required", i)
		}
		if evt.Status != "" && !booking.ValidEventStatuses[booking.EventStatus(evt.Status)] {
			return fmt.Errorf("events[%d]: invalid status %q", i, evt.Status)
		}
		if len(evt.Resources) == 0 {
			return fmt.Errorf("events[%d]: resources list is required", i)
		}
	}

	if s.Request.Start == "" || s.Request.End == "" {
		return fmt.Errorf("request: start and end are required")
	}
	if len(s.Request.Resources) == 0 {
		return fmt.Errorf("request: resources list is required")
	}

	for i, v := range s.Expect.Violations {
		if v.Kind == "" {
			return fmt.Errorf("expect.violations[%d]: kind is required", i)
		}
	}

	return nil
}
