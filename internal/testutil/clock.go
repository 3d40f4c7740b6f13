package testutil

import "sync"

// AuditClock is a recording audit clock for lifecycle tests.
//
// It satisfies service.Sequencer like the production clock, but keeps
// every seq it hands out, so a test can replay a schedule/cancel/remove
// sequence and assert exactly which stamps landed in the audit log. It
// can also be reset so the same scenario replays with identical stamps.
type AuditClock struct {
	mu     sync.Mutex
	seq    int64
	stamps []int64
}

// NewAuditClock creates a clock whose first Next returns 1.
func NewAuditClock() *AuditClock {
	return &AuditClock{}
}

// Next returns the next seq and records it. Safe for concurrent use;
// values are unique and strictly increasing.
func (c *AuditClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.stamps = append(c.stamps, c.seq)
	return c.seq
}

// Current returns the latest seq handed out without advancing.
func (c *AuditClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Stamps returns a copy of every seq handed out so far, in order.
func (c *AuditClock) Stamps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.stamps))
	copy(out, c.stamps)
	return out
}

// Reset clears the clock and its record for a replay.
func (c *AuditClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
	c.stamps = nil
}
