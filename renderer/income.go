package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/wheelhouse"
)

func IncomeMarkdown(r *wheelhouse.IncomeReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Income and Fees (%s)\n\n", r.WindowName)

	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Deposited | %s |\n", r.Deposited)
	fmt.Fprintf(&b, "| Withdrawn | %s |\n", r.Withdrawn)
	fmt.Fprintf(&b, "| Dividends | %s |\n", r.Income.Dividends.SignedString())
	fmt.Fprintf(&b, "| Net Interest | %s |\n", r.Income.NetInterest.SignedString())
	if !r.Income.DebitInterest.IsZero() {
		fmt.Fprintf(&b, "| Margin Interest | %s |\n", r.Income.DebitInterest.SignedString())
	}
	if !r.Income.Fees.IsZero() {
		fmt.Fprintf(&b, "| Fees and Adjustments | %s |\n", r.Income.Fees.SignedString())
	}
	fmt.Fprint(&b, "\n")

	if len(r.Rows) > 0 {
		fmt.Fprint(&b, "## Income Rows\n\n")
		fmt.Fprintln(&b, "| Date | Ticker | Type | Amount |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|")
		for _, row := range r.Rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				row.Date(), row.Ticker, row.SubType, row.Total.SignedString())
		}
		fmt.Fprint(&b, "\n")
	}

	if len(r.Monthly) > 0 {
		fmt.Fprint(&b, "## Monthly Option Income\n\n")
		fmt.Fprintln(&b, "| Month | Premium |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, m := range r.Monthly {
			fmt.Fprintf(&b, "| %s | %s |\n",
				m.Month.Identifier(), m.Premium.SignedString())
		}
		fmt.Fprint(&b, "\n")
	}

	return b.String()
}
