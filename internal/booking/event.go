package booking

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	// StatusScheduled is the initial state. Only scheduled events hold
	// resource commitments.
	StatusScheduled EventStatus = "scheduled"

	// StatusCancelled is a terminal state. Commitments are released.
	StatusCancelled EventStatus = "cancelled"

	// StatusCompleted is a terminal state. Commitments are released.
	StatusCompleted EventStatus = "completed"
)

// ValidEventStatuses defines the allowed event statuses.
var ValidEventStatuses = map[EventStatus]bool{
	StatusScheduled: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

// CanTransition reports whether a status change is allowed.
//
// scheduled -> cancelled and scheduled -> completed are the only legal
// transitions. Terminal states never transition out; no status
// transitions to itself.
func (s EventStatus) CanTransition(to EventStatus) bool {
	return s == StatusScheduled && (to == StatusCancelled || to == StatusCompleted)
}

// Terminal reports whether the status is an end state.
func (s EventStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Event is a scheduled occurrence holding resource assignments for the
// duration of its span.
//
// Status transitions are applied only by the service layer; the conflict
// validator never infers or mutates lifecycle state.
type Event struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Span   TimeSpan    `json:"span"`
	Status EventStatus `json:"status"`
}

// Assignment binds a quantity of one resource to one event.
//
// One assignment row exists per (event, resource) pair. Assignments are
// owned by their event: deleting the event releases them.
type Assignment struct {
	EventID    string `json:"event_id"`
	ResourceID string `json:"resource_id"`
	Quantity   int64  `json:"quantity"`
}
