package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// tradesCmd holds the flags for the 'trades' subcommand.
type tradesCmd struct {
	window   string
	lifetime bool
	exclude  string
	zeroCost bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "analyze closed option trades" }
func (*tradesCmd) Usage() string {
	return `whx trades [-window <name>] [-exclude <tickers>]

  Displays closed option trades grouped from opening to closing legs: the
  scorecard, premium capture distribution, rollups by type, strategy, ticker
  and month, and the full trade log.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "window", "90d", "Reporting window (all, ytd, 365d, 182d, 90d, 30d, 7d).")
	f.BoolVar(&c.lifetime, "lifetime", false, "Treat each ticker's full history as one campaign.")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated tickers to leave out.")
	f.BoolVar(&c.zeroCost, "exclude-zero-cost", false, "Also exclude tickers with zero-cost share deliveries.")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := wheelhouse.NewSnapshot(ledger, c.lifetime, exclusions(ledger, c.exclude, c.zeroCost)...)
	report, err := wheelhouse.NewTradesReport(s, c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building trades report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TradesMarkdown(report))
	return subcommands.ExitSuccess
}
