package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
)

// WindowsMarkdown renders the realized P/L of every preset window side by
// side. An empty ledger renders nothing.
func WindowsMarkdown(l *wheelhouse.Ledger) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool { return renderWindowsSummary(w, l) })
	return b.String()
}

func renderWindowsSummary(w io.Writer, l *wheelhouse.Ledger) bool {
	if l.Len() == 0 {
		return false
	}
	var windows []wheelhouse.Window
	for _, name := range wheelhouse.WindowNames {
		win, err := wheelhouse.ParseWindow(l, name)
		if err != nil {
			return false
		}
		windows = append(windows, win)
	}

	fmt.Fprintf(w, "# Realized P/L by Window on %s\n\n", date.FromTime(l.NewestTime()))

	// Header
	fmt.Fprint(w, "| |")
	for _, name := range wheelhouse.WindowNames {
		fmt.Fprintf(w, " %s |", name)
	}
	fmt.Fprintln(w, "")

	// Separator
	fmt.Fprint(w, "|:---|")
	for range wheelhouse.WindowNames {
		fmt.Fprint(w, "---:|")
	}
	fmt.Fprintln(w, "")

	printRow := func(label string, value func(wheelhouse.Window) string) {
		fmt.Fprintf(w, "| %s |", label)
		for _, win := range windows {
			fmt.Fprintf(w, " %s |", value(win))
		}
		fmt.Fprintln(w, "")
	}
	printRowBold := func(label string, value func(wheelhouse.Window) string) {
		fmt.Fprintf(w, "| **%s** |", label)
		for _, win := range windows {
			fmt.Fprintf(w, " **%s** |", value(win))
		}
		fmt.Fprintln(w, "")
	}

	printRowBold("Realized P/L", func(win wheelhouse.Window) string {
		return wheelhouse.WindowPnL(l, win).SignedString()
	})
	printRow("Options", func(win wheelhouse.Window) string {
		return wheelhouse.OptionFlowPnL(l, win).SignedString()
	})
	printRow("Equity", func(win wheelhouse.Window) string {
		return wheelhouse.WindowedEquityPnL(l, win).SignedString()
	})
	printRow("Income", func(win wheelhouse.Window) string {
		return wheelhouse.IncomePnL(l, win).SignedString()
	})
	printRow("Prior Window", func(win wheelhouse.Window) string {
		return wheelhouse.WindowPnL(l, wheelhouse.PriorWindow(l, win)).SignedString()
	})
	printRow("= Delta", func(win wheelhouse.Window) string {
		prior := wheelhouse.WindowPnL(l, wheelhouse.PriorWindow(l, win))
		return wheelhouse.WindowPnL(l, win).Sub(prior).SignedString()
	})

	return true
}
