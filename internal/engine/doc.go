// Package engine implements the veto conflict validator.
//
// The validator is the heart of veto - it receives a candidate event span
// plus requested (resource, quantity) pairs, checks them against current
// commitments and constraint rules, and produces a Decision Report.
//
// ARCHITECTURE:
//
// Pure Read-Then-Decide:
// The validator is a synchronous, side-effect-free computation. It reads
// through three narrow collaborator interfaces (ResourceReader,
// LedgerReader, RuleProvider) and never writes anything. Committing an
// accepted request is the caller's job, inside whatever transactional
// boundary the caller establishes - the validator alone cannot prevent
// two concurrent admissions from both observing room and jointly
// overshooting capacity.
//
// Validation Flow:
// 1. Structural checks: span validity, resource existence/activity, quantity bounds
// 2. Capacity check: committed + requested <= capacity over the span
// 3. Rule evaluation: requires / excludes / max_capacity / min_quantity
// 4. Aggregation into a Report
//
// All phases run and all violations are collected - the validator never
// short-circuits on the first failure. One call returns the complete
// diagnostic set.
//
// CRITICAL PATTERNS:
//
// Deterministic Reporting:
// Violations are ordered structural first, then capacity, then rule
// violations - each group in request order, rules in provider order.
// Two validations of the same request against the same snapshot produce
// byte-identical reports.
//
// Snapshot Consistency:
// All three collaborators must answer from one consistent point in time
// for a single Validate call. Callers that need this pass a store
// snapshot as all three interfaces; the validator itself holds no state
// between calls.
package engine
