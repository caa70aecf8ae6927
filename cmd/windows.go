package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// windowsCmd holds the flags for the 'windows' subcommand.
type windowsCmd struct{}

func (*windowsCmd) Name() string     { return "windows" }
func (*windowsCmd) Synopsis() string { return "display realized P/L across every window at once" }
func (*windowsCmd) Usage() string {
	return `whx windows

  Displays one column per reporting window (all, ytd, 365d, 182d, 90d, 30d,
  7d) with the realized P/L split into options, equity and income, and the
  delta against the prior period.
`
}

func (*windowsCmd) SetFlags(*flag.FlagSet) {}

func (c *windowsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.WindowsMarkdown(ledger)
	if md == "" {
		fmt.Fprintln(os.Stderr, "The ledger is empty, import an export first.")
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
