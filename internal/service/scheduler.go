package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/engine"
	"github.com/roach88/veto/internal/store"
)

// Audit log actions.
const (
	ActionScheduled   = "scheduled"
	ActionRescheduled = "rescheduled"
	ActionCancelled   = "cancelled"
	ActionCompleted   = "completed"
	ActionRemoved     = "removed"
)

// Scheduler runs validate-then-commit as one transaction per admission.
type Scheduler struct {
	store  *store.Store
	ids    IDGenerator
	clock  Sequencer
	logger *slog.Logger

	// engineOpts are applied to every validator built over a snapshot
	// (symmetric exclusion, engine logging).
	engineOpts []engine.Option
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithIDGenerator replaces the UUIDv7 generator, for deterministic ids
// in tests and scenarios.
func WithIDGenerator(ids IDGenerator) SchedulerOption {
	return func(s *Scheduler) {
		s.ids = ids
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithEngineOptions forwards options to the per-call validators.
func WithEngineOptions(opts ...engine.Option) SchedulerOption {
	return func(s *Scheduler) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithClock replaces the audit clock, so tests can assert the exact seq
// stamps a lifecycle produced. The default clock resumes from the log.
func WithClock(clock Sequencer) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// NewScheduler creates a Scheduler over an open store.
//
// The audit clock resumes from the highest seq already in the log, so
// seq values stay unique across restarts.
func NewScheduler(ctx context.Context, st *store.Store, opts ...SchedulerOption) (*Scheduler, error) {
	maxSeq, err := st.MaxLogSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume audit clock: %w", err)
	}

	s := &Scheduler{
		store:  st,
		ids:    UUIDv7Generator{},
		clock:  NewClockAt(maxSeq),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check validates a candidate without committing anything. The report
// reflects one consistent snapshot but no state changes regardless of
// the outcome.
func (s *Scheduler) Check(ctx context.Context, req booking.Request) (*engine.Report, error) {
	snap, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer snap.Rollback()

	return s.validate(ctx, snap, req)
}

// Schedule validates a new event and commits it on acceptance.
//
// Snapshot read, validation, event insert, assignment insert, and the
// audit entry all happen inside one transaction. On rejection the
// transaction is rolled back, the report carries the violations, and
// the returned event is zero.
func (s *Scheduler) Schedule(ctx context.Context, title string, span booking.TimeSpan, lines []booking.Line) (booking.Event, *engine.Report, error) {
	snap, err := s.store.Begin(ctx)
	if err != nil {
		return booking.Event{}, nil, err
	}
	defer snap.Rollback()

	report, err := s.validate(ctx, snap, booking.Request{Span: span, Resources: lines})
	if err != nil {
		return booking.Event{}, nil, err
	}
	if !report.Accepted {
		s.logger.Info("schedule rejected", "title", title, "violations", len(report.Violations))
		return booking.Event{}, report, nil
	}

	evt := booking.Event{
		ID:     s.ids.NewID(),
		Title:  title,
		Span:   span,
		Status: booking.StatusScheduled,
	}
	if err := snap.CreateEvent(ctx, evt); err != nil {
		return booking.Event{}, nil, err
	}
	if err := snap.ReplaceAssignments(ctx, evt.ID, lines); err != nil {
		return booking.Event{}, nil, err
	}
	if err := snap.AppendLog(ctx, store.LogEntry{
		Seq: s.clock.Next(), EventID: evt.ID, Action: ActionScheduled,
		Detail: fmt.Sprintf("%s %s", title, span),
	}); err != nil {
		return booking.Event{}, nil, err
	}
	if err := snap.Commit(); err != nil {
		return booking.Event{}, nil, err
	}

	s.logger.Info("event scheduled", "event_id", evt.ID, "title", title, "span", span.String())
	return evt, report, nil
}

// Reschedule re-validates an existing scheduled event with a new span,
// title, and assignment set, excluding the event's own commitments so
// it does not conflict with itself. Commits only on acceptance.
func (s *Scheduler) Reschedule(ctx context.Context, eventID, title string, span booking.TimeSpan, lines []booking.Line) (*engine.Report, error) {
	snap, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer snap.Rollback()

	evt, err := snap.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if evt.Status != booking.StatusScheduled {
		return nil, fmt.Errorf("event %s is %s and cannot be rescheduled", eventID, evt.Status)
	}

	report, err := s.validate(ctx, snap, booking.Request{
		EventID: eventID, Span: span, Resources: lines,
	})
	if err != nil {
		return nil, err
	}
	if !report.Accepted {
		s.logger.Info("reschedule rejected", "event_id", eventID, "violations", len(report.Violations))
		return report, nil
	}

	if err := snap.UpdateEventSpan(ctx, eventID, title, span); err != nil {
		return nil, err
	}
	if err := snap.ReplaceAssignments(ctx, eventID, lines); err != nil {
		return nil, err
	}
	if err := snap.AppendLog(ctx, store.LogEntry{
		Seq: s.clock.Next(), EventID: eventID, Action: ActionRescheduled,
		Detail: fmt.Sprintf("%s %s", title, span),
	}); err != nil {
		return nil, err
	}
	if err := snap.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("event rescheduled", "event_id", eventID, "span", span.String())
	return report, nil
}

// Cancel transitions a scheduled event to cancelled, releasing its
// commitments.
func (s *Scheduler) Cancel(ctx context.Context, eventID string) error {
	return s.transition(ctx, eventID, booking.StatusCancelled, ActionCancelled)
}

// Complete transitions a scheduled event to completed.
func (s *Scheduler) Complete(ctx context.Context, eventID string) error {
	return s.transition(ctx, eventID, booking.StatusCompleted, ActionCompleted)
}

// Remove deletes an event outright. Assignments cascade; audit history
// stays, closed with a removal entry.
func (s *Scheduler) Remove(ctx context.Context, eventID string) error {
	snap, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer snap.Rollback()

	evt, err := snap.Event(ctx, eventID)
	if err != nil {
		return err
	}
	if err := snap.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	if err := snap.AppendLog(ctx, store.LogEntry{
		Seq: s.clock.Next(), EventID: eventID, Action: ActionRemoved,
		Detail: evt.Title,
	}); err != nil {
		return err
	}
	if err := snap.Commit(); err != nil {
		return err
	}

	s.logger.Info("event removed", "event_id", eventID)
	return nil
}

// Availability returns how much of a resource is free over a span.
func (s *Scheduler) Availability(ctx context.Context, resourceID string, span booking.TimeSpan) (int64, error) {
	return s.store.Availability(ctx, resourceID, span)
}

// FreeSlots returns the sub-spans of window where the resource still
// has at least need units free, dropping slots shorter than minDuration.
// An inactive resource admits nothing, so it has no free slots.
func (s *Scheduler) FreeSlots(ctx context.Context, resourceID string, window booking.TimeSpan, need int64, minDuration time.Duration) ([]booking.TimeSpan, error) {
	res, err := s.store.Resource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if !res.Active {
		return []booking.TimeSpan{}, nil
	}

	committed, err := s.store.CommittedWindows(ctx, resourceID, window)
	if err != nil {
		return nil, err
	}
	return booking.FreeSlots(window, res.Capacity, need, committed, minDuration), nil
}

// Clone schedules a copy of an existing event over a new span: same
// assignment set, fresh id, full validation. The source may be in any
// lifecycle state; only its assignments and, when title is empty, its
// title are carried over.
func (s *Scheduler) Clone(ctx context.Context, eventID, title string, span booking.TimeSpan) (booking.Event, *engine.Report, error) {
	src, err := s.store.Event(ctx, eventID)
	if err != nil {
		return booking.Event{}, nil, err
	}
	assignments, err := s.store.Assignments(ctx, eventID)
	if err != nil {
		return booking.Event{}, nil, err
	}

	if title == "" {
		title = src.Title
	}
	lines := make([]booking.Line, len(assignments))
	for i, a := range assignments {
		lines[i] = booking.Line{ResourceID: a.ResourceID, Quantity: a.Quantity}
	}
	return s.Schedule(ctx, title, span, lines)
}

// Occurrence is one admission decision within a series.
type Occurrence struct {
	Span   booking.TimeSpan `json:"span"`
	Event  booking.Event    `json:"event"`
	Report *engine.Report   `json:"report"`
}

// ScheduleSeries schedules count occurrences of an event, each shifted
// interval later than the previous. Occurrences are admitted
// independently, one transaction each: a rejected occurrence commits
// nothing and does not block later ones, so a weekly series can skip
// one taken week.
func (s *Scheduler) ScheduleSeries(ctx context.Context, title string, span booking.TimeSpan, lines []booking.Line, count int, interval time.Duration) ([]Occurrence, error) {
	if count < 1 {
		return nil, fmt.Errorf("series count must be >= 1, got %d", count)
	}
	if count > 1 && interval <= 0 {
		return nil, fmt.Errorf("series interval must be positive, got %s", interval)
	}

	occurrences := make([]Occurrence, 0, count)
	for i := 0; i < count; i++ {
		occ := span.Shift(time.Duration(i) * interval)

		evt, report, err := s.Schedule(ctx, title, occ, lines)
		if err != nil {
			return nil, fmt.Errorf("occurrence %d of %d: %w", i+1, count, err)
		}
		occurrences = append(occurrences, Occurrence{Span: occ, Event: evt, Report: report})
	}
	return occurrences, nil
}

// History returns the audit entries for one event in seq order.
func (s *Scheduler) History(ctx context.Context, eventID string) ([]store.LogEntry, error) {
	return s.store.History(ctx, eventID)
}

// transition applies one lifecycle change with CanTransition enforced,
// writing the status and the audit entry in one transaction.
func (s *Scheduler) transition(ctx context.Context, eventID string, to booking.EventStatus, action string) error {
	snap, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer snap.Rollback()

	evt, err := snap.Event(ctx, eventID)
	if err != nil {
		return err
	}
	if !evt.Status.CanTransition(to) {
		return fmt.Errorf("event %s: illegal transition %s -> %s", eventID, evt.Status, to)
	}

	if err := snap.SetEventStatus(ctx, eventID, to); err != nil {
		return err
	}
	if err := snap.AppendLog(ctx, store.LogEntry{
		Seq: s.clock.Next(), EventID: eventID, Action: action,
	}); err != nil {
		return err
	}
	if err := snap.Commit(); err != nil {
		return err
	}

	s.logger.Info("event transitioned", "event_id", eventID, "status", string(to))
	return nil
}

// validate runs the engine over one snapshot serving all three
// collaborator interfaces.
func (s *Scheduler) validate(ctx context.Context, snap *store.Snapshot, req booking.Request) (*engine.Report, error) {
	v := engine.New(snap, snap, snap, s.engineOpts...)
	return v.Validate(ctx, req)
}
