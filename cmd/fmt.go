package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `whx fmt

  Validates and formats the ledger file. This command reads all rows,
  re-derives their classification, sorts them by time, and writes them back
  in a canonical JSONL format.

Usage Examples:
# Rewrites the default ledger file in place.
$ whx fmt

`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if ledger.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no ledger found to format.")
		return subcommands.ExitSuccess
	}

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d rows into %s.\n", ledger.Len(), LedgerPath())
	return subcommands.ExitSuccess
}
