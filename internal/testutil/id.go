package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns predictable ids for deterministic tests.
//
// Production code generates UUIDv7 ids; tests and the scenario harness
// use this generator so event ids in golden files stay stable.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

// NewSequenceIDGenerator creates a generator producing
// "<prefix>-0001", "<prefix>-0002", ...
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "test"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// NewID returns the next id in sequence.
//
// Implements service.IDGenerator.
func (g *SequenceIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
