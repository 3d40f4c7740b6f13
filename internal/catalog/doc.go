// Package catalog compiles CUE-authored resource and constraint
// catalogs and seeds them into a store.
//
// A catalog is the declarative complement to the imperative CLI
// commands: instead of adding resources and rules one at a time, an
// operator checks a .cue file into the repo describing the whole
// inventory and loads it in one shot.
//
// The pipeline has three stages, each with its own failure surface:
//
//	Load     - find and build the CUE instance (cuelang.org/go)
//	Compile  - walk the CUE value into Catalog structs
//	Validate - semantic checks over the compiled catalog, collect-all
//
// Validation never fails fast: a catalog with five problems reports
// all five. Seeding is idempotent over names, so reloading an already
// loaded catalog is a no-op for the entries that exist.
package catalog
