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

// breakdownCmd holds the flags for the 'breakdown' subcommand.
type breakdownCmd struct {
	lifetime bool
	exclude  string
	zeroCost bool
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "display realized P/L per ticker" }
func (*breakdownCmd) Usage() string {
	return `whx breakdown [-lifetime]

  Displays one line per traded ticker: campaign counts, banked premiums,
  dividends, standalone option P/L, capital at work, and the ticker's total
  realized P/L.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.lifetime, "lifetime", false, "Treat each ticker's full history as one campaign.")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated tickers to leave out.")
	f.BoolVar(&c.zeroCost, "exclude-zero-cost", false, "Also exclude tickers with zero-cost share deliveries.")
}

func (c *breakdownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := wheelhouse.NewSnapshot(ledger, c.lifetime, exclusions(ledger, c.exclude, c.zeroCost)...)
	printMarkdown(renderer.BreakdownMarkdown(wheelhouse.NewBreakdownReport(s)))
	return subcommands.ExitSuccess
}
