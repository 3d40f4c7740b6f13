package service

import "sync/atomic"

// Sequencer hands out audit log seq numbers. Production uses Clock;
// tests substitute a recording clock via WithClock.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock for audit log ordering.
//
// Every lifecycle mutation is stamped with a strictly increasing seq
// number from this clock, never a wall-clock timestamp, so log order is
// deterministic and replayable in tests.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used on startup to resume from the highest seq already in the log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
