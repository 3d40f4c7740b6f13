package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventStatus_CanTransition tests the lifecycle state machine.
func TestEventStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from    EventStatus
		to      EventStatus
		allowed bool
	}{
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusScheduled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

// TestEventStatus_Terminal tests end-state detection.
func TestEventStatus_Terminal(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
}

// TestValidEventStatuses tests the closed status set.
func TestValidEventStatuses(t *testing.T) {
	assert.True(t, ValidEventStatuses[StatusScheduled])
	assert.True(t, ValidEventStatuses[StatusCancelled])
	assert.True(t, ValidEventStatuses[StatusCompleted])
	assert.False(t, ValidEventStatuses[EventStatus("pending")])
	assert.False(t, ValidEventStatuses[EventStatus("")])
}
