// Package booking defines the core vocabulary of the veto scheduling engine:
// time spans, events, resources, assignments, constraints, and validation
// requests.
//
// Everything here is a plain value type. The package imports nothing else
// from this module, so every other layer (engine, store, service, CLI) can
// depend on it without cycles.
//
// TIME SEMANTICS:
//
// All spans are half-open intervals [Start, End). Two spans overlap iff
// a.Start < b.End && b.Start < a.End - touching endpoints do NOT overlap.
// An event ending at 11:00 and another starting at 11:00 never contend
// for the same resource.
//
// ENUMS:
//
// EventStatus, ResourceType, ConstraintKind, and RuleKind are closed string
// enums with Valid* sets. Consumers switch exhaustively over them; an
// unknown value is always an error, never silently ignored.
package booking
