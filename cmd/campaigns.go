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

// campaignsCmd holds the flags for the 'campaigns' subcommand.
type campaignsCmd struct {
	ticker   string
	lifetime bool
	exclude  string
	zeroCost bool
}

func (*campaignsCmd) Name() string     { return "campaigns" }
func (*campaignsCmd) Synopsis() string { return "display wheel campaigns with timelines and roll chains" }
func (*campaignsCmd) Usage() string {
	return `whx campaigns [-t <ticker>] [-lifetime]

  Displays each wheel campaign: share cost, blended and effective basis,
  banked premiums and dividends, the event timeline, and the option roll
  chains attached to the campaign.
`
}

func (c *campaignsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Only show campaigns for this ticker.")
	f.BoolVar(&c.lifetime, "lifetime", false, "Treat each ticker's full history as one campaign.")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated tickers to leave out.")
	f.BoolVar(&c.zeroCost, "exclude-zero-cost", false, "Also exclude tickers with zero-cost share deliveries.")
}

func (c *campaignsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := wheelhouse.NewSnapshot(ledger, c.lifetime, exclusions(ledger, c.exclude, c.zeroCost)...)
	report := wheelhouse.NewCampaignsReport(s, c.ticker)

	printMarkdown(renderer.CampaignsMarkdown(report))
	return subcommands.ExitSuccess
}
