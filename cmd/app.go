// Package cmd implements the CLI application to analyze a broker ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
	"github.com/google/subcommands"
)

// Commands lists every subcommand in registration order.
// A main package iterates it to Register() each one, and Execute() the
// user-selected one.
var Commands = []subcommands.Command{
	&importCmd{},
	&fmtCmd{},

	&summaryCmd{},
	&windowsCmd{},
	&dailyCmd{},
	&tradesCmd{},
	&campaignsCmd{},
	&chainsCmd{},
	&positionsCmd{},
	&incomeCmd{},
	&breakdownCmd{},
	&publishCmd{},

	&topicCmd{},
	&assistCmd{},
}

// Group returns the help group a command is registered under.
func Group(c subcommands.Command) string {
	switch c.(type) {
	case *importCmd, *fmtCmd:
		return "ledger"
	case *topicCmd, *assistCmd:
		return "help"
	default:
		return "reports"
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger", "ledger.jsonl", "Path to the ledger file (JSONL format)")

// LedgerPath returns the path of the app ledger file.
func LedgerPath() string { return *ledgerFile }

// DecodeLedger reads the app ledger file. A missing file is an empty ledger,
// so report commands on a fresh directory print empty reports instead of
// failing.
func DecodeLedger() (*wheelhouse.Ledger, error) {
	f, err := os.Open(LedgerPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wheelhouse.NewLedger(), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", LedgerPath(), err)
	}
	defer f.Close()

	ledger, err := wheelhouse.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", LedgerPath(), err)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger back to the app ledger file.
func EncodeLedger(ledger *wheelhouse.Ledger) error {
	f, err := os.Create(LedgerPath())
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", LedgerPath(), err)
	}
	defer f.Close()

	if err := wheelhouse.EncodeLedger(f, ledger); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", LedgerPath(), err)
	}
	return f.Close()
}

// asOf restricts the ledger to rows on or before the given day.
func asOf(l *wheelhouse.Ledger, on date.Date) *wheelhouse.Ledger {
	out := wheelhouse.NewLedger()
	for _, r := range l.Rows() {
		if !date.FromTime(r.Time).After(on) {
			out.Append(r)
		}
	}
	return out
}

// splitTickers parses a comma-separated ticker list flag.
func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// exclusions merges the explicit -exclude list with the tickers carrying
// zero-cost deliveries when -exclude-zero-cost is set.
func exclusions(l *wheelhouse.Ledger, explicit string, zeroCost bool) []string {
	out := splitTickers(explicit)
	if !zeroCost {
		return out
	}
	_, warnings := wheelhouse.DetectCorporateActions(l)
	seen := make(map[string]bool, len(out))
	for _, t := range out {
		seen[t] = true
	}
	for _, w := range warnings {
		if !seen[w.Ticker] {
			seen[w.Ticker] = true
			out = append(out, w.Ticker)
		}
	}
	return out
}

// printMarkdown renders a markdown report for the terminal. On any rendering
// error the raw markdown is still usable, so print that instead.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
