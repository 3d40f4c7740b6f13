package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/service"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	From   string
	To     string
	Repeat int
	Every  time.Duration
}

// NewScheduleCommand creates the schedule command: validate and commit
// in one transaction.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule <title> <resource[=quantity]>...",
		Short: "Schedule an event if it passes validation",
		Long: `Validate the candidate and, on acceptance, commit the event with its
resource assignments atomically. On rejection nothing is written and
the violations are listed.

With --repeat the event recurs: --repeat N occurrences, each --every
later than the previous, admitted independently so a taken slot is
skipped without blocking the rest.

Exit codes:
  0 - event scheduled (every occurrence, with --repeat)
  1 - admission rejected (violations listed)
  2 - command error

Examples:
  veto schedule "standup" main-room --from "2026-03-01 10:00" --to "2026-03-01 10:30"
  veto schedule "all-hands" main-room projector=2 --from "2026-03-01 14:00" --to "2026-03-01 15:00"
  veto schedule "standup" main-room --from "2026-03-02 10:00" --to "2026-03-02 10:30" \
    --repeat 5 --every 24h`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "span start (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "span end (required)")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of occurrences")
	cmd.Flags().DurationVar(&opts.Every, "every", 24*time.Hour, "interval between occurrences")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runSchedule(opts *ScheduleOptions, title string, resourceArgs []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := formatter(opts.RootOptions, cmd)

	span, err := parseSpan(opts.From, opts.To)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	lines, err := parseLines(ctx, st, resourceArgs)
	if err != nil {
		return err
	}

	sched, err := newScheduler(ctx, st, opts.RootOptions)
	if err != nil {
		return err
	}

	if opts.Repeat > 1 {
		return runScheduleSeries(ctx, f, sched, opts, title, span, lines)
	}

	evt, report, err := sched.Schedule(ctx, title, span, lines)
	if err != nil {
		return WrapExitError(ExitCommandError, "schedule event", err)
	}

	extra := map[string]any{}
	if report.Accepted {
		extra["event_id"] = evt.ID
	}
	return emitReport(f, report, extra)
}

// runScheduleSeries admits each occurrence independently and reports
// them all; any rejection yields exit code 1.
func runScheduleSeries(ctx context.Context, f *OutputFormatter, sched *service.Scheduler, opts *ScheduleOptions, title string, span booking.TimeSpan, lines []booking.Line) error {
	occurrences, err := sched.ScheduleSeries(ctx, title, span, lines, opts.Repeat, opts.Every)
	if err != nil {
		return WrapExitError(ExitCommandError, "schedule series", err)
	}

	rejected := 0
	for _, occ := range occurrences {
		if !occ.Report.Accepted {
			rejected++
		}
	}

	if f.JSON() {
		if rejected > 0 {
			if err := f.Failure(ErrCodeRejected,
				fmt.Sprintf("%d of %d occurrence(s) rejected", rejected, len(occurrences)), occurrences); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d occurrence(s) rejected", rejected))
		}
		return f.Success(occurrences, "")
	}

	for _, occ := range occurrences {
		if occ.Report.Accepted {
			fmt.Fprintf(f.Writer, "accepted: event %s %s\n", occ.Event.ID, occ.Span)
			continue
		}
		fmt.Fprintf(f.Writer, "rejected %s: %d violation(s)\n", occ.Span, len(occ.Report.Violations))
		for _, msg := range occ.Report.Messages() {
			fmt.Fprintf(f.Writer, "  - %s\n", msg)
		}
	}
	fmt.Fprintf(f.Writer, "Series: %d scheduled, %d rejected\n", len(occurrences)-rejected, rejected)

	if rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d occurrence(s) rejected", rejected))
	}
	return nil
}
