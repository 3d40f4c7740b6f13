// Package service owns the transactional boundary around the pure
// conflict validator.
//
// The validator is read-then-decide: it cannot alone stop two
// concurrent admissions from both observing room and jointly
// overshooting capacity. Scheduler closes that gap by running
// snapshot-read, validate, and commit inside one store transaction, so
// the post-commit invariant holds: no two committed assignments jointly
// exceed a resource's capacity for any overlapping instant.
//
// The service also owns everything the validator deliberately does not:
// event lifecycle transitions (cancel, complete, remove), rescheduling,
// availability queries, and the append-only audit log stamped with a
// monotonic logical clock.
package service
