package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/veto/internal/booking"
)

// Catalog is the compiled form of a CUE catalog: the resources and
// constraint groups it declares. Rule subjects reference resources by
// name; ids are assigned at seed time.
type Catalog struct {
	Resources   []booking.Resource
	Constraints []ConstraintSet
}

// ConstraintSet pairs a constraint group with its ordered rules.
type ConstraintSet struct {
	Constraint booking.Constraint
	Rules      []booking.Rule
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile walks a built CUE value into a Catalog.
//
// The value is expected to carry top-level "resource" and "constraint"
// structs, e.g.:
//
//	resource: projector: {type: "equipment", capacity: 2}
//	constraint: "projector-cart": {
//		kind: "co_requirement"
//		rules: [{kind: "requires", subject: "projector", related: "av-cart"}]
//	}
//
// Compile is structural only: it enforces the presence and CUE types of
// fields but defers semantic checks (known kinds, name collisions,
// resolvable references) to Validate.
func Compile(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{}

	resourcesVal := v.LookupPath(cue.ParsePath("resource"))
	if resourcesVal.Exists() {
		resources, err := compileResources(resourcesVal)
		if err != nil {
			return nil, err
		}
		cat.Resources = resources
	}

	constraintsVal := v.LookupPath(cue.ParsePath("constraint"))
	if constraintsVal.Exists() {
		constraints, err := compileConstraints(constraintsVal)
		if err != nil {
			return nil, err
		}
		cat.Constraints = constraints
	}

	if len(cat.Resources) == 0 && len(cat.Constraints) == 0 {
		return nil, &CompileError{
			Field:   "catalog",
			Message: "catalog declares no resources and no constraints",
			Pos:     v.Pos(),
		}
	}

	return cat, nil
}

// compileResources walks the "resource" struct, one field per resource
// keyed by name.
func compileResources(v cue.Value) ([]booking.Resource, error) {
	var resources []booking.Resource

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		val := iter.Value()

		res := booking.Resource{
			Name:   booking.NormalizeName(name),
			Active: true,
		}

		typeVal := val.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("resource.%s.type", name),
				Message: "type is required",
				Pos:     val.Pos(),
			}
		}
		typeStr, err := typeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		res.Type = booking.ResourceType(typeStr)

		capVal := val.LookupPath(cue.ParsePath("capacity"))
		if !capVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("resource.%s.capacity", name),
				Message: "capacity is required",
				Pos:     val.Pos(),
			}
		}
		capacity, err := capVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		res.Capacity = capacity

		// active defaults to true when omitted
		activeVal := val.LookupPath(cue.ParsePath("active"))
		if activeVal.Exists() {
			active, err := activeVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			res.Active = active
		}

		resources = append(resources, res)
	}

	return resources, nil
}

// compileConstraints walks the "constraint" struct, one field per
// constraint group keyed by name.
func compileConstraints(v cue.Value) ([]ConstraintSet, error) {
	var sets []ConstraintSet

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		val := iter.Value()

		set := ConstraintSet{
			Constraint: booking.Constraint{
				Name:   booking.NormalizeName(name),
				Active: true,
			},
		}

		kindVal := val.LookupPath(cue.ParsePath("kind"))
		if !kindVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("constraint.%s.kind", name),
				Message: "kind is required",
				Pos:     val.Pos(),
			}
		}
		kindStr, err := kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		set.Constraint.Kind = booking.ConstraintKind(kindStr)

		activeVal := val.LookupPath(cue.ParsePath("active"))
		if activeVal.Exists() {
			active, err := activeVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			set.Constraint.Active = active
		}

		rulesVal := val.LookupPath(cue.ParsePath("rules"))
		if !rulesVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("constraint.%s.rules", name),
				Message: "rules list is required",
				Pos:     val.Pos(),
			}
		}

		ruleIter, err := rulesVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for pos := int64(1); ruleIter.Next(); pos++ {
			rule, err := compileRule(ruleIter.Value(), name, pos)
			if err != nil {
				return nil, err
			}
			set.Rules = append(set.Rules, rule)
		}

		sets = append(sets, set)
	}

	return sets, nil
}

// compileRule walks one rule object. Position is the 1-based index in
// the authored list, preserved as the evaluation order.
func compileRule(v cue.Value, constraintName string, pos int64) (booking.Rule, error) {
	rule := booking.Rule{Position: pos}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return rule, &CompileError{
			Field:   fmt.Sprintf("constraint.%s.rules[%d].kind", constraintName, pos-1),
			Message: "kind is required",
			Pos:     v.Pos(),
		}
	}
	kindStr, err := kindVal.String()
	if err != nil {
		return rule, formatCUEError(err)
	}
	rule.Kind = booking.RuleKind(kindStr)

	subjectVal := v.LookupPath(cue.ParsePath("subject"))
	if !subjectVal.Exists() {
		return rule, &CompileError{
			Field:   fmt.Sprintf("constraint.%s.rules[%d].subject", constraintName, pos-1),
			Message: "subject resource is required",
			Pos:     v.Pos(),
		}
	}
	subject, err := subjectVal.String()
	if err != nil {
		return rule, formatCUEError(err)
	}
	rule.Subject = booking.NormalizeName(subject)

	relatedVal := v.LookupPath(cue.ParsePath("related"))
	if relatedVal.Exists() {
		related, err := relatedVal.String()
		if err != nil {
			return rule, formatCUEError(err)
		}
		rule.Related = booking.NormalizeName(related)
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if valueVal.Exists() {
		value, err := valueVal.Int64()
		if err != nil {
			return rule, formatCUEError(err)
		}
		rule.Value = value
	}

	return rule, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
