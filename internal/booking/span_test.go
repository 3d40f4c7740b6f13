package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustTime parses an instant for test fixtures.
func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := ParseTime(s)
	require.NoError(t, err)
	return parsed
}

// mustSpan builds a span from two instants.
func mustSpan(t *testing.T, start, end string) TimeSpan {
	t.Helper()
	return NewSpan(mustTime(t, start), mustTime(t, end))
}

// TestTimeSpan_Valid tests span well-formedness.
func TestTimeSpan_Valid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		valid bool
	}{
		{"end after start", "2026-03-01 10:00", "2026-03-01 11:00", true},
		{"one minute", "2026-03-01 10:00", "2026-03-01 10:01", true},
		{"end equals start", "2026-03-01 10:00", "2026-03-01 10:00", false},
		{"end before start", "2026-03-01 11:00", "2026-03-01 10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := mustSpan(t, tt.start, tt.end)
			assert.Equal(t, tt.valid, span.Valid())
		})
	}
}

// TestTimeSpan_Overlaps tests half-open overlap semantics.
func TestTimeSpan_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        TimeSpan
		b        TimeSpan
		overlaps bool
	}{
		{
			name:     "contained",
			a:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			b:        mustSpan(t, "2026-03-01 10:30", "2026-03-01 10:45"),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			b:        mustSpan(t, "2026-03-01 10:30", "2026-03-01 11:30"),
			overlaps: true,
		},
		{
			name:     "identical",
			a:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			b:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			overlaps: true,
		},
		{
			name:     "touching endpoints do not overlap",
			a:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			b:        mustSpan(t, "2026-03-01 11:00", "2026-03-01 12:00"),
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00"),
			b:        mustSpan(t, "2026-03-01 13:00", "2026-03-01 14:00"),
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

// TestTimeSpan_Overlaps_ZeroWidth tests that a degenerate span with equal
// start and end never overlaps anything, including itself.
func TestTimeSpan_Overlaps_ZeroWidth(t *testing.T) {
	point := mustSpan(t, "2026-03-01 10:30", "2026-03-01 10:30")
	wide := mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00")

	assert.False(t, point.Overlaps(point))
	assert.False(t, point.Overlaps(wide))
	assert.False(t, wide.Overlaps(point))
}

// TestParseTime tests the accepted input layouts.
func TestTimeSpan_Shift(t *testing.T) {
	span := mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00")
	shifted := span.Shift(24 * time.Hour)
	assert.Equal(t, mustSpan(t, "2026-03-02 10:00", "2026-03-02 11:00"), shifted)
	assert.Equal(t, span.Duration(), shifted.Duration())
	assert.Equal(t, span, shifted.Shift(-24*time.Hour))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // RFC3339 UTC
		wantErr bool
	}{
		{"rfc3339 utc", "2026-03-01T10:00:00Z", "2026-03-01T10:00:00Z", false},
		{"rfc3339 offset", "2026-03-01T12:00:00+02:00", "2026-03-01T10:00:00Z", false},
		{"space layout minutes", "2026-03-01 10:00", "2026-03-01T10:00:00Z", false},
		{"space layout seconds", "2026-03-01 10:00:30", "2026-03-01T10:00:30Z", false},
		{"garbage", "next tuesday", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

// TestTimeSpan_String tests the log rendering.
func TestTimeSpan_String(t *testing.T) {
	span := mustSpan(t, "2026-03-01 10:00", "2026-03-01 11:00")
	assert.Equal(t, "[2026-03-01T10:00:00Z, 2026-03-01T11:00:00Z)", span.String())
}
