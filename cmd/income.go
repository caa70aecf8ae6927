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

// incomeCmd holds the flags for the 'income' subcommand.
type incomeCmd struct {
	window string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "display dividends, interest, fees and monthly option income" }
func (*incomeCmd) Usage() string {
	return `whx income [-window <name>]

  Displays cash movements that are not trades: deposits and withdrawals,
  dividends, interest both ways, fees, and the month-by-month option income
  series.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "window", "all", "Reporting window (all, ytd, 365d, 182d, 90d, 30d, 7d).")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := wheelhouse.NewSnapshot(ledger, false)
	report, err := wheelhouse.NewIncomeReport(s, c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building income report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.IncomeMarkdown(report))
	return subcommands.ExitSuccess
}
