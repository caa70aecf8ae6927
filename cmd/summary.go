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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	on       string
	window   string
	lifetime bool
	exclude  string
	zeroCost bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display an account performance summary" }
func (*summaryCmd) Usage() string {
	return `whx summary [-on <date>] [-window <name>] [-lifetime] [-exclude <tickers>] [-exclude-zero-cost]

  Displays the realized P/L summary: campaign and standalone totals, return
  on net deposits, capital deployed, and the window P/L against the prior
  period.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", date.Today().String(), "Date to report on. See the user manual for supported date formats.")
	f.StringVar(&c.window, "window", "30d", "Reporting window (all, ytd, 365d, 182d, 90d, 30d, 7d).")
	f.BoolVar(&c.lifetime, "lifetime", false, "Treat each ticker's full history as one campaign.")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated tickers to leave out of every P/L figure.")
	f.BoolVar(&c.zeroCost, "exclude-zero-cost", false, "Also exclude tickers with zero-cost share deliveries.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	s := wheelhouse.NewSnapshot(ledger, c.lifetime, exclusions(ledger, c.exclude, c.zeroCost)...)
	summary, err := wheelhouse.NewSummary(s, c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building summary: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}
