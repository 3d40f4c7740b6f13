package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/search"
)

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Inspect and manage scheduled events",
	}

	cmd.AddCommand(newEventListCommand(rootOpts))
	cmd.AddCommand(newEventRescheduleCommand(rootOpts))
	cmd.AddCommand(newEventCloneCommand(rootOpts))
	cmd.AddCommand(newEventTransitionCommand(rootOpts, "cancel", "Cancel a scheduled event, releasing its resources"))
	cmd.AddCommand(newEventTransitionCommand(rootOpts, "complete", "Mark a scheduled event completed"))
	cmd.AddCommand(newEventRemoveCommand(rootOpts))
	cmd.AddCommand(newEventHistoryCommand(rootOpts))

	return cmd
}

func newEventListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		status   string
		resource string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered",
		Long: `List events ordered by start time. Filters combine with AND:
--status narrows by lifecycle state, --resource to events assigned a
resource, --from/--to to events overlapping a window (both required
together).

Examples:
  veto event list
  veto event list --status scheduled
  veto event list --resource projector --from "2026-03-01 00:00" --to "2026-03-02 00:00"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			filter := search.Filter{Status: booking.EventStatus(status)}
			if resource != "" {
				id, err := resolveResourceID(ctx, st, resource)
				if err != nil {
					return err
				}
				filter.ResourceID = id
			}
			if from != "" || to != "" {
				var fromT, toT time.Time
				if from != "" {
					if fromT, err = booking.ParseTime(from); err != nil {
						return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --from %q", from), err)
					}
				}
				if to != "" {
					if toT, err = booking.ParseTime(to); err != nil {
						return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --to %q", to), err)
					}
				}
				filter.From, filter.To = fromT, toT
			}

			events, err := st.ListEvents(ctx, filter)
			if err != nil {
				return WrapExitError(ExitCommandError, "list events", err)
			}

			var b strings.Builder
			for _, evt := range events {
				fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", evt.ID, evt.Status, evt.Span, evt.Title)
			}
			if len(events) == 0 {
				b.WriteString("no events")
			}
			return f.Success(events, strings.TrimRight(b.String(), "\n"))
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (scheduled|cancelled|completed)")
	cmd.Flags().StringVar(&resource, "resource", "", "filter by assigned resource name")
	cmd.Flags().StringVar(&from, "from", "", "window start (with --to)")
	cmd.Flags().StringVar(&to, "to", "", "window end (with --from)")

	return cmd
}

func newEventRescheduleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title    string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "reschedule <event-id> <resource[=quantity]>...",
		Short: "Move a scheduled event to a new span and assignment set",
		Long: `Re-validate an existing scheduled event with a new span, title, and
resources, excluding its own current commitments so it never conflicts
with itself. Commits only on acceptance.

Example:
  veto event reschedule 0190... main-room projector=1 \
    --from "2026-03-01 13:00" --to "2026-03-01 14:00"`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			span, err := parseSpan(from, to)
			if err != nil {
				return err
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			evt, err := st.Event(ctx, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("event %q", args[0]), err)
			}
			if title == "" {
				title = evt.Title
			}

			lines, err := parseLines(ctx, st, args[1:])
			if err != nil {
				return err
			}

			sched, err := newScheduler(ctx, st, rootOpts)
			if err != nil {
				return err
			}

			report, err := sched.Reschedule(ctx, evt.ID, title, span, lines)
			if err != nil {
				return WrapExitError(ExitCommandError, "reschedule event", err)
			}

			return emitReport(f, report, map[string]any{"event_id": evt.ID})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title (defaults to current)")
	cmd.Flags().StringVar(&from, "from", "", "new span start (required)")
	cmd.Flags().StringVar(&to, "to", "", "new span end (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newEventCloneCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		title    string
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "clone <event-id>",
		Short: "Schedule a copy of an event over a new span",
		Long: `Schedule a new event carrying the source event's assignment set over
a new span, fully validated like any other admission. The source may
be in any state and is left untouched.

Example:
  veto event clone 0190... --from "2026-03-08 10:00" --to "2026-03-08 11:00"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			span, err := parseSpan(from, to)
			if err != nil {
				return err
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			sched, err := newScheduler(ctx, st, rootOpts)
			if err != nil {
				return err
			}

			evt, report, err := sched.Clone(ctx, args[0], title, span)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("clone event %s", args[0]), err)
			}

			extra := map[string]any{}
			if report.Accepted {
				extra["event_id"] = evt.ID
			}
			return emitReport(f, report, extra)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title (defaults to the source's)")
	cmd.Flags().StringVar(&from, "from", "", "new span start (required)")
	cmd.Flags().StringVar(&to, "to", "", "new span end (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newEventTransitionCommand(rootOpts *RootOptions, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:           verb + " <event-id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			sched, err := newScheduler(ctx, st, rootOpts)
			if err != nil {
				return err
			}

			var done string
			switch verb {
			case "cancel":
				err = sched.Cancel(ctx, args[0])
				done = "cancelled"
			case "complete":
				err = sched.Complete(ctx, args[0])
				done = "completed"
			}
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s event %s", verb, args[0]), err)
			}

			return f.Success(map[string]any{"event_id": args[0], "action": done},
				fmt.Sprintf("event %s %s", args[0], done))
		},
	}
}

func newEventRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <event-id>",
		Short:         "Delete an event; its audit history stays",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			sched, err := newScheduler(ctx, st, rootOpts)
			if err != nil {
				return err
			}
			if err := sched.Remove(ctx, args[0]); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("remove event %s", args[0]), err)
			}

			return f.Success(map[string]any{"event_id": args[0], "action": "removed"},
				fmt.Sprintf("event %s removed", args[0]))
		},
	}
}

func newEventHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "history <event-id>",
		Short:         "Show the audit log of an event in sequence order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.History(ctx, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("history of %s", args[0]), err)
			}

			var b strings.Builder
			for _, e := range entries {
				fmt.Fprintf(&b, "%d\t%s", e.Seq, e.Action)
				if e.Detail != "" {
					fmt.Fprintf(&b, "\t%s", e.Detail)
				}
				b.WriteByte('\n')
			}
			if len(entries) == 0 {
				b.WriteString("no history")
			}
			return f.Success(entries, strings.TrimRight(b.String(), "\n"))
		},
	}
}
