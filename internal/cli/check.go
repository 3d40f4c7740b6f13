package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/harness"
	"github.com/roach88/veto/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	From string
	To   string
	File string // YAML request file, alternative to flags+args
}

// NewCheckCommand creates the check command: a dry-run admission.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <resource[=quantity]>...",
		Short: "Validate a candidate booking without committing it",
		Long: `Check whether an event could be scheduled over the given span with
the given resources. Nothing is written regardless of the outcome.

The candidate comes either from --from/--to plus resource arguments, or
from a YAML request file via --file (keys: start, end, resources).

Exit codes:
  0 - admission would be accepted
  1 - admission would be rejected (violations listed)
  2 - command error

Examples:
  veto check projector --from "2026-03-01 10:00" --to "2026-03-01 11:00"
  veto check projector=2 main-room --from "2026-03-01 10:00" --to "2026-03-01 11:00"
  veto check --file request.yaml
  veto check projector --from 2026-03-01T10:00:00Z --to 2026-03-01T11:00:00Z --format json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "span start")
	cmd.Flags().StringVar(&opts.To, "to", "", "span end")
	cmd.Flags().StringVar(&opts.File, "file", "", "YAML request file instead of flags")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := formatter(opts.RootOptions, cmd)

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	req, err := buildCheckRequest(ctx, st, opts, args)
	if err != nil {
		return err
	}

	sched, err := newScheduler(ctx, st, opts.RootOptions)
	if err != nil {
		return err
	}

	report, err := sched.Check(ctx, req)
	if err != nil {
		return WrapExitError(ExitCommandError, "validate candidate", err)
	}

	return emitReport(f, report, nil)
}

// buildCheckRequest assembles the candidate from --file or from the
// flag/argument form. The two are mutually exclusive.
func buildCheckRequest(ctx context.Context, st *store.Store, opts *CheckOptions, args []string) (booking.Request, error) {
	if opts.File != "" {
		if len(args) > 0 || opts.From != "" || opts.To != "" {
			return booking.Request{}, NewExitError(ExitCommandError, "--file cannot be combined with --from/--to or resource arguments")
		}
		return loadRequestFile(ctx, st, opts.File)
	}

	if len(args) == 0 {
		return booking.Request{}, NewExitError(ExitCommandError, "at least one resource argument is required (or use --file)")
	}
	if opts.From == "" || opts.To == "" {
		return booking.Request{}, NewExitError(ExitCommandError, "--from and --to are required")
	}

	span, err := parseSpan(opts.From, opts.To)
	if err != nil {
		return booking.Request{}, err
	}
	lines, err := parseLines(ctx, st, args)
	if err != nil {
		return booking.Request{}, err
	}
	return booking.Request{Span: span, Resources: lines}, nil
}

// loadRequestFile reads a YAML candidate request: start, end, and a
// resources list of {resource, quantity} with names resolved to ids.
func loadRequestFile(ctx context.Context, st *store.Store, path string) (booking.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return booking.Request{}, WrapExitError(ExitCommandError, fmt.Sprintf("read request file %s", path), err)
	}

	var decl harness.RequestDecl
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&decl); err != nil {
		return booking.Request{}, WrapExitError(ExitCommandError, fmt.Sprintf("parse request file %s", path), err)
	}

	span, err := parseSpan(decl.Start, decl.End)
	if err != nil {
		return booking.Request{}, err
	}
	lines := make([]booking.Line, len(decl.Resources))
	for i, line := range decl.Resources {
		id, err := resolveResourceID(ctx, st, line.Resource)
		if err != nil {
			return booking.Request{}, err
		}
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		lines[i] = booking.Line{ResourceID: id, Quantity: qty}
	}
	return booking.Request{Span: span, Resources: lines}, nil
}
