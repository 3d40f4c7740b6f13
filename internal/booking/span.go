package booking

import (
	"fmt"
	"time"
)

// TimeSpan is a half-open interval [Start, End).
//
// The invariant End > Start is NOT enforced by construction - callers
// validate with Valid() and the conflict validator reports a violation
// for invalid spans rather than rejecting the whole call.
type TimeSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewSpan creates a TimeSpan with both instants normalized to UTC.
func NewSpan(start, end time.Time) TimeSpan {
	return TimeSpan{Start: start.UTC(), End: end.UTC()}
}

// Valid reports whether the span is well-formed (End strictly after Start).
func (s TimeSpan) Valid() bool {
	return s.End.After(s.Start)
}

// Overlaps reports whether two spans intersect under half-open semantics.
//
// Symmetric: a.Overlaps(b) == b.Overlaps(a) for all spans.
// Touching endpoints do not overlap: [10:00,11:00) and [11:00,12:00)
// are disjoint.
func (s TimeSpan) Overlaps(other TimeSpan) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Shift returns the span moved d later (earlier for negative d). The
// duration is preserved.
func (s TimeSpan) Shift(d time.Duration) TimeSpan {
	return TimeSpan{Start: s.Start.Add(d), End: s.End.Add(d)}
}

// Duration returns End - Start. Negative for invalid spans.
func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// String renders the span in a compact UTC form for logs and messages.
func (s TimeSpan) String() string {
	return fmt.Sprintf("[%s, %s)",
		s.Start.UTC().Format(time.RFC3339),
		s.End.UTC().Format(time.RFC3339))
}

// timeLayouts are the accepted input formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses an instant from one of the accepted layouts.
//
// RFC 3339 strings keep their zone offset; the space-separated layouts
// are interpreted as UTC. The result is always returned in UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC 3339 or \"2006-01-02 15:04\")", s)
}
