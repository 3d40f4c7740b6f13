package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/engine"
	"github.com/roach88/veto/internal/service"
	"github.com/roach88/veto/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric    = "E001" // generic/unknown error
	ErrCodeDB         = "E002" // database open/IO failure
	ErrCodeBadTime    = "E003" // unparseable --from/--to
	ErrCodeBadLine    = "E004" // malformed resource line argument
	ErrCodeNotFound   = "E005" // referenced entity does not exist
	ErrCodeRejected   = "E100" // admission rejected with violations
	ErrCodeTestFailed = "E101" // scenario failures
)

// formatter builds the OutputFormatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
}

// openStore opens the configured database, mapping failure to exit
// code 2.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("open database %s", opts.DBPath), err)
	}
	return st, nil
}

// newScheduler builds the service over an open store with the CLI's
// logger wired through.
func newScheduler(ctx context.Context, st *store.Store, opts *RootOptions) (*service.Scheduler, error) {
	sched, err := service.NewScheduler(ctx, st, service.WithLogger(opts.Logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize scheduler", err)
	}
	return sched, nil
}

// parseSpan parses the --from/--to pair.
func parseSpan(from, to string) (booking.TimeSpan, error) {
	start, err := booking.ParseTime(from)
	if err != nil {
		return booking.TimeSpan{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --from %q", from), err)
	}
	end, err := booking.ParseTime(to)
	if err != nil {
		return booking.TimeSpan{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --to %q", to), err)
	}
	return booking.NewSpan(start, end), nil
}

// parseLines parses resource arguments of the form name or name=qty
// (quantity defaults to 1) and resolves names to ids.
//
// A name with no matching resource is passed through verbatim so the
// validator reports it as resource_not_found instead of the CLI
// aborting before the report exists.
func parseLines(ctx context.Context, st *store.Store, args []string) ([]booking.Line, error) {
	lines := make([]booking.Line, 0, len(args))
	for _, arg := range args {
		name, qtyStr, hasQty := strings.Cut(arg, "=")
		if name == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid resource argument %q", arg))
		}

		qty := int64(1)
		if hasQty {
			parsed, err := strconv.ParseInt(qtyStr, 10, 64)
			if err != nil {
				return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid quantity in %q", arg), err)
			}
			qty = parsed
		}

		id, err := resolveResourceID(ctx, st, name)
		if err != nil {
			return nil, err
		}
		lines = append(lines, booking.Line{ResourceID: id, Quantity: qty})
	}
	return lines, nil
}

// resolveResourceID maps a resource name to its id, falling back to
// the raw token when no resource carries that name.
func resolveResourceID(ctx context.Context, st *store.Store, name string) (string, error) {
	res, err := st.ResourceByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return name, nil
		}
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("look up resource %q", name), err)
	}
	return res.ID, nil
}

// requireResource maps a resource name to the full resource, failing
// with exit code 2 when it does not exist.
func requireResource(ctx context.Context, st *store.Store, name string) (booking.Resource, error) {
	res, err := st.ResourceByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return booking.Resource{}, NewExitError(ExitCommandError, fmt.Sprintf("resource %q not found", name))
		}
		return booking.Resource{}, WrapExitError(ExitCommandError, fmt.Sprintf("look up resource %q", name), err)
	}
	return res, nil
}

// constraintByName maps a constraint name to the full row, failing
// with exit code 2 when it does not exist.
func constraintByName(ctx context.Context, st *store.Store, name string) (booking.Constraint, error) {
	constraints, err := st.ListConstraints(ctx)
	if err != nil {
		return booking.Constraint{}, WrapExitError(ExitCommandError, "list constraints", err)
	}
	normalized := booking.NormalizeName(name)
	for _, c := range constraints {
		if c.Name == normalized {
			return c, nil
		}
	}
	return booking.Constraint{}, NewExitError(ExitCommandError, fmt.Sprintf("constraint %q not found", name))
}

// emitReport renders a decision report and returns the rejection exit
// error when the admission was refused.
func emitReport(f *OutputFormatter, report *engine.Report, extra map[string]any) error {
	if report.Accepted {
		data := map[string]any{"report": report}
		for k, v := range extra {
			data[k] = v
		}
		text := "accepted"
		if id, ok := extra["event_id"].(string); ok {
			text = fmt.Sprintf("accepted: event %s", id)
		}
		if err := f.Success(data, text); err != nil {
			return err
		}
		return nil
	}

	if f.JSON() {
		if err := f.Failure(ErrCodeRejected,
			fmt.Sprintf("%d violation(s)", len(report.Violations)), report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "rejected: %d violation(s)\n", len(report.Violations))
		for _, msg := range report.Messages() {
			fmt.Fprintf(f.Writer, "  - %s\n", msg)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s)", len(report.Violations)))
}
