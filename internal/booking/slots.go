package booking

import (
	"sort"
	"time"
)

// Commitment is one committed claim on a resource: the claiming event's
// span and the quantity it holds for that span.
type Commitment struct {
	Span     TimeSpan `json:"span"`
	Quantity int64    `json:"quantity"`
}

// FreeSlots returns the sub-spans of window where at least need units
// of a resource with the given capacity remain free, given the
// committed claims overlapping the window.
//
// The sweep cuts the window at every claim boundary, keeps the segments
// where capacity minus the overlapping claims covers need, and merges
// adjacent free segments back together. Slots shorter than minDuration
// are dropped after merging; minDuration <= 0 keeps everything.
//
// Half-open semantics throughout: a claim ending exactly where a slot
// starts does not shorten it. Results are chronological and never nil.
func FreeSlots(window TimeSpan, capacity, need int64, committed []Commitment, minDuration time.Duration) []TimeSpan {
	slots := []TimeSpan{}
	if !window.Valid() || need < 1 || need > capacity {
		return slots
	}

	points := []time.Time{window.Start, window.End}
	for _, c := range committed {
		if !c.Span.Overlaps(window) {
			continue
		}
		if c.Span.Start.After(window.Start) {
			points = append(points, c.Span.Start)
		}
		if c.Span.End.Before(window.End) {
			points = append(points, c.Span.End)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })

	var open *TimeSpan
	for i := 0; i+1 < len(points); i++ {
		seg := TimeSpan{Start: points[i], End: points[i+1]}
		if !seg.Valid() {
			// Coinciding boundaries produce empty segments.
			continue
		}

		var used int64
		for _, c := range committed {
			if c.Span.Overlaps(seg) {
				used += c.Quantity
			}
		}

		if capacity-used >= need {
			if open != nil {
				open.End = seg.End
			} else {
				open = &TimeSpan{Start: seg.Start, End: seg.End}
			}
			continue
		}
		if open != nil {
			slots = append(slots, *open)
			open = nil
		}
	}
	if open != nil {
		slots = append(slots, *open)
	}

	if minDuration > 0 {
		kept := slots[:0]
		for _, s := range slots {
			if s.Duration() >= minDuration {
				kept = append(kept, s)
			}
		}
		slots = kept
	}
	return slots
}
