// Package store provides durable SQLite storage for veto: resources,
// events, assignments, constraints, rules, and the append-only event
// log.
//
// The store implements the engine's collaborator interfaces
// (ResourceReader, LedgerReader, RuleProvider) both directly and through
// Snapshot, a single transaction view. The service layer validates and
// commits inside one Snapshot so phase 2 and phase 3 of validation see
// the same state and no concurrent admission can interleave.
//
// CRITICAL PATTERNS:
//
// Deterministic ordering:
// Every multi-row query carries an explicit ORDER BY with a unique
// tiebreaker (id COLLATE BINARY), so listings and rule evaluation order
// are reproducible across runs.
//
// Times as integers:
// Span endpoints are stored as UTC unix nanoseconds (INTEGER columns).
// Numeric comparison in SQL gives exact half-open overlap arithmetic
// with no string-format pitfalls.
//
// Sentinel errors:
// Missing rows wrap booking.ErrNotFound; name collisions on the unique
// resource/constraint name indexes surface as ErrNameTaken. Callers
// match with errors.Is.
package store
