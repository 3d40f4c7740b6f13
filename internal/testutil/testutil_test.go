package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAuditClock tests monotonic sequencing, the stamp record, and
// reset.
func TestAuditClock(t *testing.T) {
	c := NewAuditClock()

	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
	assert.Equal(t, []int64{1, 2}, c.Stamps())

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Empty(t, c.Stamps())
	assert.Equal(t, int64(1), c.Next())
}

// TestAuditClock_Concurrent tests unique values under concurrent use.
func TestAuditClock_Concurrent(t *testing.T) {
	c := NewAuditClock()

	const n = 100
	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Next()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for v := range results {
		assert.False(t, seen[v], "duplicate seq %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, int64(n), c.Current())
}

// TestSequenceIDGenerator tests predictable id production.
func TestSequenceIDGenerator(t *testing.T) {
	g := NewSequenceIDGenerator("evt")
	assert.Equal(t, "evt-0001", g.NewID())
	assert.Equal(t, "evt-0002", g.NewID())

	def := NewSequenceIDGenerator("")
	assert.Equal(t, "test-0001", def.NewID())
}
