// Package harness runs YAML-authored validation scenarios.
//
// A scenario declares a world (resources, constraints, already
// scheduled events), one candidate request, and the expected decision.
// Run seeds a fresh in-memory store, validates the candidate, and
// returns the report; CheckExpectations compares it against the
// scenario's expect clause, and the golden helpers snapshot the full
// report JSON byte-for-byte.
//
// Scenarios are the conformance surface of the validator: every
// documented decision case has a scenario file under
// testdata/scenarios, and the golden files under testdata/golden pin
// the exact report shape, violation order included.
//
// Determinism: seeded ids equal the authored names, event ids are
// evt-1, evt-2, ... in authored order, and the store is thrown away
// per run, so two runs of one scenario produce identical bytes.
package harness
