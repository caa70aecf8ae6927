package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/wheelhouse"
)

func CampaignsMarkdown(r *wheelhouse.CampaignsReport) string {
	var b strings.Builder

	title := "# Wheel Campaigns"
	if r.Lifetime {
		title += " (lifetime)"
	}
	fmt.Fprintf(&b, "%s\n\n", title)
	if len(r.Lines) == 0 {
		fmt.Fprint(&b, "No wheel campaigns.\n")
		return b.String()
	}

	for _, ln := range r.Lines {
		c := ln.Campaign
		if c.Closed() {
			fmt.Fprintf(&b, "## %s #%d (closed %s to %s)\n\n", ln.Ticker, ln.Number, c.StartDate(), c.EndDate())
		} else {
			fmt.Fprintf(&b, "## %s #%d (open since %s)\n\n", ln.Ticker, ln.Number, c.StartDate())
		}

		fmt.Fprintln(&b, "| Metric | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		fmt.Fprintf(&b, "| Shares | %s |\n", c.Shares)
		fmt.Fprintf(&b, "| Cost | %s |\n", c.Cost)
		fmt.Fprintf(&b, "| Blended Basis | %s/sh |\n", c.BlendedBasis)
		fmt.Fprintf(&b, "| Effective Basis | %s/sh |\n", ln.EffBasis)
		if red := ln.BasisReduction(); !red.IsZero() {
			fmt.Fprintf(&b, "| Basis Reduction | %s/sh |\n", red)
		}
		fmt.Fprintf(&b, "| Premiums | %s |\n", c.Premiums.SignedString())
		if !c.Dividends.IsZero() {
			fmt.Fprintf(&b, "| Dividends | %s |\n", c.Dividends.SignedString())
		}
		if c.Closed() {
			fmt.Fprintf(&b, "| Exit Proceeds | %s |\n", c.ExitProceeds)
		}
		fmt.Fprintf(&b, "| Realized P/L | %s |\n", ln.PnL.SignedString())
		fmt.Fprintf(&b, "| Days Active | %d |\n", ln.DaysActive)
		fmt.Fprint(&b, "\n")

		if events := ln.ShareEvents(); len(events) > 0 {
			fmt.Fprint(&b, "### Timeline\n\n")
			fmt.Fprintln(&b, "| Date | Event | Detail | Cash |")
			fmt.Fprintln(&b, "|:---|:---|:---|---:|")
			for _, e := range events {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", e.Date(), e.Type, e.Detail, cashCell(e.Cash))
			}
			fmt.Fprint(&b, "\n")
		}

		for _, chain := range ln.Chains {
			writeChain(&b, chain)
		}
	}

	return b.String()
}

func cashCell(m wheelhouse.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.SignedString()
}
