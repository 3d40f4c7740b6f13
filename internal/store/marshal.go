package store

import (
	"fmt"
	"time"

	"github.com/roach88/veto/internal/booking"
)

// marshalTime encodes an instant as UTC unix nanoseconds for storage.
// Integer columns keep overlap comparisons exact in SQL.
func marshalTime(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// unmarshalTime decodes a stored instant back to a UTC time.Time.
func unmarshalTime(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// marshalSpan encodes a span's endpoints for storage.
func marshalSpan(span booking.TimeSpan) (startNs, endNs int64) {
	return marshalTime(span.Start), marshalTime(span.End)
}

// unmarshalSpan decodes stored endpoints into a span.
func unmarshalSpan(startNs, endNs int64) booking.TimeSpan {
	return booking.TimeSpan{Start: unmarshalTime(startNs), End: unmarshalTime(endNs)}
}

// marshalBool encodes a flag for SQLite's integer affinity.
func marshalBool(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// checkStatus rejects statuses outside the closed enum before they can
// reach a row.
func checkStatus(status booking.EventStatus) error {
	if !booking.ValidEventStatuses[status] {
		return fmt.Errorf("invalid event status %q", status)
	}
	return nil
}

// checkRuleKind rejects rule kinds outside the closed enum at the
// storage boundary, mirroring the engine's exhaustive switch.
func checkRuleKind(kind booking.RuleKind) error {
	if !booking.ValidRuleKinds[kind] {
		return fmt.Errorf("invalid rule kind %q", kind)
	}
	return nil
}
