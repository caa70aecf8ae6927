package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/wheelhouse"
)

func TradesMarkdown(r *wheelhouse.TradesReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Closed Trades (%s)\n\n", r.WindowName)
	if r.Fallback {
		fmt.Fprintf(&b, "No trades closed in this window, showing all %d closed trades instead.\n\n", r.AllTrades)
	}
	if len(r.Trades) == 0 {
		fmt.Fprint(&b, "No closed trades.\n")
		return b.String()
	}

	if sc := r.Scorecard; sc != nil {
		fmt.Fprint(&b, "## Scorecard\n\n")
		fmt.Fprintln(&b, "| Metric | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		fmt.Fprintf(&b, "| Credit Trades | %d |\n", sc.Trades)
		fmt.Fprintf(&b, "| Win Rate | %s |\n", sc.WinRate)
		fmt.Fprintf(&b, "| Median Capture | %s |\n", sc.MedianCapture)
		fmt.Fprintf(&b, "| Median Days Held | %.0f |\n", sc.MedianDays)
		fmt.Fprintf(&b, "| Median Annualized | %s |\n", sc.MedianAnnRet)
		fmt.Fprintf(&b, "| Median Premium / Day | %s |\n", sc.MedianPremDay)
		fmt.Fprintf(&b, "| Banked / Day | %s |\n", sc.BankedPerDay)
		fmt.Fprintf(&b, "| Gross Credit / Day | %s |\n", sc.GrossPerDay)
		fmt.Fprint(&b, "\n")
	}

	if len(r.CaptureDist) > 0 {
		fmt.Fprint(&b, "## Premium Capture\n\n")
		fmt.Fprintln(&b, "| Capture | Trades |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, bkt := range r.CaptureDist {
			fmt.Fprintf(&b, "| %s | %d |\n", bkt.Label, bkt.Trades)
		}
		fmt.Fprint(&b, "\n")
	}

	if len(r.ByType) > 0 {
		fmt.Fprint(&b, "## Calls vs Puts\n\n")
		fmt.Fprintln(&b, "| Type | Trades | Win Rate | P/L | Med Days | Med Capture | Med DTE | Prem/Day |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
		for _, g := range r.ByType {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %.0f | %s | %s | %s |\n",
				g.Name,
				g.Trades,
				g.WinRate,
				g.TotalPnL.SignedString(),
				g.MedDays,
				pctCell(g.MedCapture),
				floatCell(g.MedDTE),
				moneyCell(g.AvgPremDay),
			)
		}
		fmt.Fprint(&b, "\n")
	}

	fmt.Fprint(&b, "## By Strategy\n\n")
	fmt.Fprintln(&b, "| Strategy | Trades | Win Rate | P/L | Med Days | Med Capture |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, g := range r.ByStrategy {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %.0f | %s |\n",
			g.Name,
			g.Trades,
			g.WinRate,
			g.TotalPnL.SignedString(),
			g.MedDays,
			pctCell(g.MedCapture),
		)
	}
	fmt.Fprint(&b, "\n")

	fmt.Fprint(&b, "## By Ticker\n\n")
	fmt.Fprintln(&b, "| Ticker | Trades | Win Rate | P/L | Med Days | Med Capture | Med Ann. | Credit |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, g := range r.ByTicker {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %.0f | %s | %s | %s |\n",
			g.Ticker,
			g.Trades,
			g.WinRate,
			g.TotalPnL.SignedString(),
			g.MedDays,
			pctCell(g.MedCapture),
			pctCell(g.MedAnnRet),
			moneyCell(g.TotalCredit),
		)
	}
	fmt.Fprint(&b, "\n")

	fmt.Fprint(&b, "## By Month\n\n")
	fmt.Fprintln(&b, "| Month | Trades | P/L |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, m := range r.ByMonth {
		fmt.Fprintf(&b, "| %s | %d | %s |\n",
			m.Month.Format("2006-01"),
			m.Trades,
			m.PnL.SignedString(),
		)
	}
	fmt.Fprint(&b, "\n")

	fmt.Fprint(&b, "## Best Trades\n\n")
	writeTradeRows(&b, r.Best)
	fmt.Fprint(&b, "## Worst Trades\n\n")
	writeTradeRows(&b, r.Worst)
	fmt.Fprint(&b, "## Trade Log\n\n")
	writeTradeRows(&b, r.Trades)

	return b.String()
}

func writeTradeRows(w io.Writer, trades []wheelhouse.ClosedTrade) {
	fmt.Fprintln(w, "| Closed | Ticker | Strategy | Days | Premium | P/L | Capture | Ann. Return | Exit |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|---:|:---|")
	for _, t := range trades {
		fmt.Fprintf(w, "| %s | %s | %s | %d | %s | %s | %s | %s | %s |\n",
			t.CloseDate(),
			t.Ticker,
			t.Strategy,
			t.DaysHeld,
			t.Premium.SignedString(),
			t.NetPnL.SignedString(),
			pctCell(t.Capture),
			t.AnnReturn.SignedString(),
			t.CloseReason,
		)
	}
	fmt.Fprint(w, "\n")
}

func pctCell(p *wheelhouse.Percent) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func moneyCell(m *wheelhouse.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.0f", *f)
}
