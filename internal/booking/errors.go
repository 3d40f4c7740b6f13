package booking

import "errors"

// ErrNotFound signals that a referenced entity does not exist.
//
// Storage implementations wrap it with context
// (fmt.Errorf("resource %s: %w", id, booking.ErrNotFound)) so callers
// can match with errors.Is without depending on the storage layer.
var ErrNotFound = errors.New("not found")
