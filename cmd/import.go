package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "convert a broker history export into the ledger file" }
func (*importCmd) Usage() string {
	return `whx import [-format csv|json] <export>

  Parses a broker transaction history export, normalizes it, and writes the
  ledger file. Detected stock splits are applied to pre-split share
  quantities; zero-cost share deliveries are reported so their basis can be
  corrected.

Usage Examples:
# Import a fresh history export, replacing the ledger file.
$ whx import export.csv

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Export format (csv or json). Defaults to the file extension.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one export file")
		return subcommands.ExitUsageError
	}
	source := f.Arg(0)

	format := c.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(source), ".")
	}

	file, err := os.Open(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export %q: %v\n", source, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	var (
		ledger   *wheelhouse.Ledger
		splits   []wheelhouse.SplitEvent
		warnings []wheelhouse.ZeroCostRow
	)
	switch format {
	case "json":
		ledger, splits, warnings, err = wheelhouse.ImportJSON(file)
	case "csv", "":
		ledger, splits, warnings, err = wheelhouse.ImportCSV(file)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown export format %q (want csv or json)\n", format)
		return subcommands.ExitUsageError
	}
	if err != nil {
		var missing *wheelhouse.MissingColumnsError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Error: %v\nExport the full transaction history, not a filtered view.\n", missing)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", source, err)
		return subcommands.ExitFailure
	}

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ImportMarkdown(renderer.NewImport(filepath.Base(source), ledger, splits, warnings)))
	fmt.Fprintf(os.Stderr, "Wrote %s.\n", LedgerPath())
	return subcommands.ExitSuccess
}
