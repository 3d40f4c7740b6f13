package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/booking"
)

// constraintView is the JSON shape of one constraint with its rules.
type constraintView struct {
	booking.Constraint
	Rules []booking.Rule `json:"rules"`
}

// NewRuleCommand creates the rule command group.
func NewRuleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Inspect and toggle constraint rules",
	}

	cmd.AddCommand(newRuleListCommand(rootOpts))
	cmd.AddCommand(newRuleToggleCommand(rootOpts, "enable", true))
	cmd.AddCommand(newRuleToggleCommand(rootOpts, "disable", false))

	return cmd
}

func newRuleListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List constraints and their rules",
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

			constraints, err := st.ListConstraints(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "list constraints", err)
			}

			views := make([]constraintView, 0, len(constraints))
			var b strings.Builder
			for _, c := range constraints {
				rules, err := st.RulesOf(ctx, c.ID)
				if err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("rules of %q", c.Name), err)
				}
				views = append(views, constraintView{Constraint: c, Rules: rules})

				state := "active"
				if !c.Active {
					state = "inactive"
				}
				fmt.Fprintf(&b, "%s (%s, %s)\n", c.Name, c.Kind, state)
				for _, r := range rules {
					fmt.Fprintf(&b, "  %d. %s\n", r.Position, describeRule(r))
				}
			}
			if len(constraints) == 0 {
				b.WriteString("no constraints")
			}
			return f.Success(views, strings.TrimRight(b.String(), "\n"))
		},
	}
}

func newRuleToggleCommand(rootOpts *RootOptions, verb string, active bool) *cobra.Command {
	short := "Disable a constraint group; its rules stop applying"
	if active {
		short = "Re-enable a constraint group"
	}

	return &cobra.Command{
		Use:           verb + " <constraint-name>",
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

			c, err := constraintByName(ctx, st, args[0])
			if err != nil {
				return err
			}
			if err := st.SetConstraintActive(ctx, c.ID, active); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s %q", verb, args[0]), err)
			}

			return f.Success(map[string]any{"constraint": c.Name, "active": active},
				fmt.Sprintf("%s %sd", c.Name, verb))
		},
	}
}

// describeRule renders one rule for text output.
func describeRule(r booking.Rule) string {
	switch r.Kind {
	case booking.RuleRequires:
		return fmt.Sprintf("%s requires %s", r.Subject, r.Related)
	case booking.RuleExcludes:
		return fmt.Sprintf("%s excludes %s", r.Subject, r.Related)
	case booking.RuleMaxCapacity:
		return fmt.Sprintf("%s at most %d", r.Subject, r.Value)
	case booking.RuleMinQuantity:
		return fmt.Sprintf("%s at least %d", r.Subject, r.Value)
	default:
		return fmt.Sprintf("%s %s", r.Kind, r.Subject)
	}
}
