// Command veto validates and schedules events against shared, finite
// resources.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/veto/internal/cli"
	"github.com/roach88/veto/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "veto:", err)
		os.Exit(cli.ExitCommandError)
	}

	cmd := cli.NewRootCommand(cfg)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "veto:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
