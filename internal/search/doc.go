// Package search compiles typed event filters into parameterized SQL
// for the store.
//
// CRITICAL: every compiled query includes an ORDER BY with a unique
// tiebreaker so result order is deterministic.
// CRITICAL: all values are parameterized, never interpolated.
package search
