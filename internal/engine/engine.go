package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/veto/internal/booking"
)

// LedgerReader answers how much of a resource is already committed
// during any event overlapping a span.
//
// Sums quantity_used across assignments whose owning event is scheduled
// and whose span overlaps the query span (half-open). excludingEventID,
// when non-empty, removes one event's own assignments from the sum so
// that re-validating an edit does not conflict with itself.
type LedgerReader interface {
	CommittedQuantity(ctx context.Context, resourceID string, span booking.TimeSpan, excludingEventID string) (int64, error)
}

// RuleProvider returns the rules to evaluate for a resource.
//
// Only rules whose parent constraint is active are returned, in a stable
// order. The validator treats the returned slice as an immutable snapshot
// for the duration of one validation.
type RuleProvider interface {
	RulesFor(ctx context.Context, resourceID string) ([]booking.Rule, error)
}

// ResourceReader resolves a resource by id.
//
// A missing resource is signalled with an error wrapping
// booking.ErrNotFound and becomes a ResourceNotFound violation; any
// other error is treated as a dependency failure.
type ResourceReader interface {
	Resource(ctx context.Context, resourceID string) (booking.Resource, error)
}

// Validator decides whether a candidate assignment is admissible.
//
// INVARIANTS:
//   - Validate performs no writes and holds no state between calls
//   - every recognized bad input becomes a Violation, never an abort
//   - violation order is deterministic for identical inputs
type Validator struct {
	resources ResourceReader
	ledger    LedgerReader
	rules     RuleProvider

	// symmetricExclusion makes an excludes rule also fire from the
	// related side. Off by default: exclusion rules are directional as
	// authored, and bidirectional exclusion is an authoring convention
	// (two rules, one per direction).
	symmetricExclusion bool

	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithSymmetricExclusion makes every excludes rule fire in both
// directions: a rule "A excludes B" also reports a violation against B
// when both appear in one request.
func WithSymmetricExclusion() Option {
	return func(v *Validator) {
		v.symmetricExclusion = true
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator over the three collaborator interfaces.
//
// For snapshot-consistent validation, pass the same store snapshot as
// all three arguments.
func New(resources ResourceReader, ledger LedgerReader, rules RuleProvider, opts ...Option) *Validator {
	v := &Validator{
		resources: resources,
		ledger:    ledger,
		rules:     rules,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}
