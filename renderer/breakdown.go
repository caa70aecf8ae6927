package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/wheelhouse"
)

func BreakdownMarkdown(r *wheelhouse.BreakdownReport) string {
	var b strings.Builder

	title := "# Realized P/L by Ticker"
	if r.Lifetime {
		title += " (lifetime)"
	}
	fmt.Fprintf(&b, "%s\n\n", title)
	if len(r.Lines) == 0 {
		fmt.Fprint(&b, "No tickers traded.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Kind | Campaigns | Premiums | Dividends | Standalone | Capital | P/L |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|")
	for _, ln := range r.Lines {
		kind, campaigns := "options", ""
		if ln.Wheel {
			kind = "wheel"
			campaigns = fmt.Sprintf("%d open, %d closed", ln.OpenCampaigns, ln.ClosedCampaigns)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			ln.Ticker,
			kind,
			campaigns,
			cashCell(ln.Premiums),
			cashCell(ln.Dividends),
			cashCell(ln.Standalone),
			unsignedCell(ln.Capital),
			ln.PnL.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		r.Total.Ticker,
		r.Total.Premiums.SignedString(),
		r.Total.Dividends.SignedString(),
		r.Total.Standalone.SignedString(),
		r.Total.Capital.String(),
		r.Total.PnL.SignedString(),
	)

	return b.String()
}
