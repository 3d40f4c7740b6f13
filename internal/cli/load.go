package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/catalog"
	"github.com/roach88/veto/internal/service"
)

// NewLoadCommand creates the load command: seed the store from CUE
// catalog files.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <catalog.cue>...",
		Short: "Seed resources and constraints from CUE catalog files",
		Long: `Compile, validate, and seed one or more CUE catalog files. All
semantic problems are reported in one pass. Seeding is idempotent over
names: entries that already exist are skipped, never overwritten.

Exit codes:
  0 - catalog loaded
  1 - catalog invalid (errors listed)
  2 - command error

Example:
  veto load catalogs/venue.cue`,
		Args:          cobra.MinimumNArgs(1),
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

			// Resources already in the store are valid rule targets.
			existing, err := st.ListResources(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "list resources", err)
			}
			known := make(map[string]bool, len(existing))
			for _, res := range existing {
				known[res.Name] = true
			}

			cat, errs := catalog.Load(args, known)
			if len(errs) > 0 {
				messages := make([]string, len(errs))
				for i, e := range errs {
					messages[i] = e.Error()
				}
				if f.JSON() {
					if err := f.Failure(ErrCodeGeneric,
						fmt.Sprintf("%d catalog error(s)", len(errs)), messages); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(f.Writer, "catalog invalid: %d error(s)\n", len(errs))
					for _, m := range messages {
						fmt.Fprintf(f.Writer, "  - %s\n", m)
					}
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d catalog error(s)", len(errs)))
			}

			result, err := catalog.Seed(ctx, st, cat, service.UUIDv7Generator{})
			if err != nil {
				return WrapExitError(ExitCommandError, "seed catalog", err)
			}

			text := fmt.Sprintf("loaded: %d resource(s), %d constraint(s), %d rule(s); skipped %d resource(s), %d constraint(s)",
				result.ResourcesCreated, result.ConstraintsCreated, result.RulesCreated,
				result.ResourcesSkipped, result.ConstraintsSkipped)
			return f.Success(result, text)
		},
	}
}
