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

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	window string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display the daily realized P/L series" }
func (*dailyCmd) Usage() string {
	return `whx daily [-window <name>]

  Displays realized P/L bucketed by calendar day, with a running cumulative
  total over the window.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "window", "90d", "Reporting window (all, ytd, 365d, 182d, 90d, 30d, 7d).")
}

func (c *dailyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := wheelhouse.NewDailyReport(ledger, c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building daily report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DailyMarkdown(report))
	return subcommands.ExitSuccess
}
