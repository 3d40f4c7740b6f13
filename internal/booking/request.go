package booking

// Line is one requested (resource, quantity) pair within a Request.
type Line struct {
	ResourceID string `json:"resource_id"`
	Quantity   int64  `json:"quantity"`
}

// Request is a candidate admission: an event span plus the resource
// quantities the event wants to hold for that span.
//
// EventID is set only when re-validating an edit to an existing event,
// so the event's own current commitments are excluded from the ledger
// sums and it does not conflict with itself. For a new event it is
// empty.
//
// Resource ids must be unique within one request; a duplicate is caller
// misuse, reported by the validator as a RequestError rather than a
// violation.
type Request struct {
	EventID   string   `json:"event_id,omitempty"`
	Span      TimeSpan `json:"span"`
	Resources []Line   `json:"resources"`
}

// DuplicateResource returns the first resource id that appears more than
// once in the request, or "" when all lines are unique.
func (r Request) DuplicateResource() string {
	seen := make(map[string]bool, len(r.Resources))
	for _, line := range r.Resources {
		if seen[line.ResourceID] {
			return line.ResourceID
		}
		seen[line.ResourceID] = true
	}
	return ""
}

// Contains reports whether the request includes the resource with a
// quantity of at least one, as the requires rule demands.
func (r Request) Contains(resourceID string) bool {
	for _, line := range r.Resources {
		if line.ResourceID == resourceID && line.Quantity >= 1 {
			return true
		}
	}
	return false
}

// Has reports whether the request mentions the resource at all,
// regardless of quantity. Used by the excludes rule: mere presence of
// the excluded resource is a violation.
func (r Request) Has(resourceID string) bool {
	for _, line := range r.Resources {
		if line.ResourceID == resourceID {
			return true
		}
	}
	return false
}
