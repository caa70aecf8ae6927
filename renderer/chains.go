package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/wheelhouse"
)

func ChainsMarkdown(ticker string, chains []wheelhouse.RollChain) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Roll Chains for %s\n\n", ticker)
	if len(chains) == 0 {
		fmt.Fprint(&b, "No roll chains.\n")
		return b.String()
	}
	for _, c := range chains {
		writeChain(&b, c)
	}
	return b.String()
}

// writeChain renders one roll chain as a leg table. Shared with the campaign
// tracker, where each campaign lists the chains of its holding window.
func writeChain(w io.Writer, c wheelhouse.RollChain) {
	status := "closed"
	if c.IsOpen() {
		status = "open"
	}
	fmt.Fprintf(w, "### %s Chain (%s, %d rolls, net %s)\n\n", c.Side, status, c.Rolls(), c.Net().SignedString())
	fmt.Fprintln(w, "| Date | Action | Strike | Exp | DTE | Qty | Cash |")
	fmt.Fprintln(w, "|:---|:---|---:|:---|---:|---:|---:|")
	for _, e := range c.Events {
		dte := ""
		if d := e.DTE(); d >= 0 {
			dte = fmt.Sprintf("%d", d)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			e.Date(),
			e.Action(),
			unsignedCell(e.Strike),
			e.ExpLabel(),
			dte,
			e.Qty,
			cashCell(e.Total),
		)
	}
	fmt.Fprint(w, "\n")
}

func unsignedCell(m wheelhouse.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}
