package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/booking"
	"github.com/roach88/veto/internal/service"
)

// NewResourceCommand creates the resource command group.
func NewResourceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage bookable resources",
	}

	cmd.AddCommand(newResourceAddCommand(rootOpts))
	cmd.AddCommand(newResourceListCommand(rootOpts))
	cmd.AddCommand(newResourceAvailCommand(rootOpts))
	cmd.AddCommand(newResourceSlotsCommand(rootOpts))
	cmd.AddCommand(newResourceSetActiveCommand(rootOpts, "activate", true))
	cmd.AddCommand(newResourceSetActiveCommand(rootOpts, "deactivate", false))
	cmd.AddCommand(newResourceSetCapacityCommand(rootOpts))

	return cmd
}

func newResourceAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		resType  string
		capacity int64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a resource",
		Long: `Add a resource with a type and a total capacity. Names are unique
after Unicode normalization.

Examples:
  veto resource add main-room --type room --capacity 1
  veto resource add projector --type equipment --capacity 2`,
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

			res := booking.Resource{
				ID:       service.UUIDv7Generator{}.NewID(),
				Name:     args[0],
				Type:     booking.ResourceType(resType),
				Capacity: capacity,
				Active:   true,
			}
			if err := st.CreateResource(ctx, res); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("add resource %q", args[0]), err)
			}

			return f.Success(res, fmt.Sprintf("added %s (%s, capacity %d) id=%s",
				res.Name, res.Type, res.Capacity, res.ID))
		},
	}

	cmd.Flags().StringVar(&resType, "type", "", "resource type (room|equipment|person|vehicle|other)")
	cmd.Flags().Int64Var(&capacity, "capacity", 1, "total simultaneously-usable quantity")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newResourceListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List resources",
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

			resources, err := st.ListResources(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "list resources", err)
			}

			var b strings.Builder
			for _, res := range resources {
				state := "active"
				if !res.Active {
					state = "inactive"
				}
				fmt.Fprintf(&b, "%s\t%s\tcapacity=%d\t%s\n", res.Name, res.Type, res.Capacity, state)
			}
			if len(resources) == 0 {
				b.WriteString("no resources")
			}
			return f.Success(resources, strings.TrimRight(b.String(), "\n"))
		},
	}
}

func newResourceAvailCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "avail <name>",
		Short: "Show free capacity of a resource over a span",
		Long: `Show how much of a resource remains free over the span: capacity
minus quantities committed to overlapping scheduled events.

Example:
  veto resource avail projector --from "2026-03-01 10:00" --to "2026-03-01 11:00"`,
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

			res, err := requireResource(ctx, st, args[0])
			if err != nil {
				return err
			}

			free, err := st.Availability(ctx, res.ID, span)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("availability of %q", args[0]), err)
			}

			data := map[string]any{
				"resource":  res.Name,
				"capacity":  res.Capacity,
				"available": free,
				"span":      span.String(),
			}
			return f.Success(data, fmt.Sprintf("%s: %d of %d available during %s",
				res.Name, free, res.Capacity, span))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "span start (required)")
	cmd.Flags().StringVar(&to, "to", "", "span end (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newResourceSlotsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		from, to    string
		need        int64
		minDuration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "slots <name>",
		Short: "Find free time slots for a resource within a window",
		Long: `List the sub-spans of the window where the resource still has at
least --need units free, walking the committed claims in the ledger.
Slots shorter than --min-duration are dropped.

Examples:
  veto resource slots main-room --from "2026-03-01 08:00" --to "2026-03-01 20:00"
  veto resource slots projector --from "2026-03-01 08:00" --to "2026-03-01 20:00" \
    --need 2 --min-duration 1h`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			window, err := parseSpan(from, to)
			if err != nil {
				return err
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := requireResource(ctx, st, args[0])
			if err != nil {
				return err
			}

			sched, err := newScheduler(ctx, st, rootOpts)
			if err != nil {
				return err
			}

			slots, err := sched.FreeSlots(ctx, res.ID, window, need, minDuration)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("free slots of %q", args[0]), err)
			}

			var b strings.Builder
			for _, slot := range slots {
				fmt.Fprintf(&b, "%s\t%s\n", slot, slot.Duration())
			}
			if len(slots) == 0 {
				b.WriteString("no free slots")
			}

			data := map[string]any{
				"resource": res.Name,
				"need":     need,
				"window":   window.String(),
				"slots":    slots,
			}
			return f.Success(data, strings.TrimRight(b.String(), "\n"))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start (required)")
	cmd.Flags().StringVar(&to, "to", "", "window end (required)")
	cmd.Flags().Int64Var(&need, "need", 1, "units that must be free")
	cmd.Flags().DurationVar(&minDuration, "min-duration", 0, "drop slots shorter than this")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func newResourceSetActiveCommand(rootOpts *RootOptions, verb string, active bool) *cobra.Command {
	short := "Deactivate a resource; existing assignments stay"
	if active {
		short = "Reactivate a resource"
	}

	return &cobra.Command{
		Use:           verb + " <name>",
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

			res, err := requireResource(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.SetResourceActive(ctx, res.ID, active); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s %q", verb, args[0]), err)
			}

			return f.Success(map[string]any{"resource": res.Name, "active": active},
				fmt.Sprintf("%s %sd", res.Name, verb))
		},
	}
}

func newResourceSetCapacityCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set-capacity <name> <capacity>",
		Short:         "Change a resource's total capacity",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(rootOpts, cmd)

			capacity, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid capacity %q", args[1]), err)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := requireResource(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.UpdateResourceCapacity(ctx, res.ID, capacity); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("set capacity of %q", args[0]), err)
			}

			return f.Success(map[string]any{"resource": res.Name, "capacity": capacity},
				fmt.Sprintf("%s capacity set to %d", res.Name, capacity))
		},
	}
}
