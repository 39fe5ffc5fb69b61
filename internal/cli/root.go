// Package cli is the currency-exporter command line
package cli

import (
	"fmt"
	"os"

	cliexport "github.com/damon-houk/cbr-currency-exporter/internal/cli/export"
	clisnapshots "github.com/damon-houk/cbr-currency-exporter/internal/cli/snapshots"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:           "currency-exporter",
			Short:         "exports the CBR daily exchange rates as yaml, json and csv",
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}

	// a bare invocation runs an export
	cliexport.Bind(rootCommand.baseCmd)
	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		cliexport.GetExportCommand(),
		clisnapshots.GetSnapshotsCommand(),
	)
}

// Command exposes the cobra command, mostly for tests
func (rc *RootCommand) Command() *cobra.Command {
	return rc.baseCmd
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
