// Package cli implements the veto command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/veto/internal/config"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DBPath  string

	// Logger is the process logger; main wires the configured one,
	// tests leave the discard default.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the veto CLI.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	cmd := &cobra.Command{
		Use:   "veto",
		Short: "veto - conflict validation for scheduled events",
		Long: `veto decides whether events can be scheduled against shared,
finite resources: rooms, equipment, staff. Every admission is checked
for capacity over overlapping time spans and against the configured
constraint rules, and either committed atomically or rejected with the
full list of violations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Structured logs go to stderr so JSON output stays clean;
			// without --verbose they are dropped entirely.
			if opts.Verbose {
				opts.Logger = cfg.Logger(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "SQLite database path")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewResourceCommand(opts))
	cmd.AddCommand(NewEventCommand(opts))
	cmd.AddCommand(NewRuleCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
