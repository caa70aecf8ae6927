package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// chainsCmd holds the flags for the 'chains' subcommand.
type chainsCmd struct {
	ticker string
}

func (*chainsCmd) Name() string     { return "chains" }
func (*chainsCmd) Synopsis() string { return "display option roll chains for a ticker" }
func (*chainsCmd) Usage() string {
	return `whx chains -t <ticker>

  Displays each short option chain for the ticker: every sell-to-open,
  buy-to-close, expiration and assignment leg with strike, expiration, DTE
  and cash flow, plus the chain's roll count and net credit.
`
}

func (c *chainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker to show chains for.")
}

func (c *chainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker := strings.ToUpper(c.ticker)
	if ticker == "" && f.NArg() == 1 {
		ticker = strings.ToUpper(f.Arg(0))
	}
	if ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: chains needs a ticker (-t)")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := wheelhouse.NewSnapshot(ledger, false)
	printMarkdown(renderer.ChainsMarkdown(ticker, s.RollChains(ticker)))
	return subcommands.ExitSuccess
}
