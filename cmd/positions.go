package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	on string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display open positions with days to expiration" }
func (*positionsCmd) Usage() string {
	return `whx positions [-on <date>]

  Displays open share lots and option contracts grouped by ticker, with the
  detected strategy, cost basis, and days to expiration. Options expiring
  within two weeks are called out.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", date.Today().String(), "Date to report on. See the user manual for supported date formats.")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger = asOf(ledger, on)

	s := wheelhouse.NewSnapshot(ledger, false)
	report := wheelhouse.NewPositionsReport(s)

	printMarkdown(renderer.PositionsMarkdown(report))
	return subcommands.ExitSuccess
}
