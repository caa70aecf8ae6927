package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
	md "github.com/nao1215/markdown"
)

func PositionsMarkdown(r *wheelhouse.PositionsReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Open Positions on %s", date.FromTime(r.Latest)))

	if len(r.Tickers) == 0 {
		doc.PlainText("No open positions.")
		return doc.String()
	}

	for _, t := range r.Tickers {
		doc.H2(fmt.Sprintf("%s (%s)", t.Ticker, t.Strategy))
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Kind", "Position", "Basis", "DTE"},
		}
		for _, p := range t.Positions {
			dte := ""
			if n, ok := p.DTE(r.Latest); ok {
				dte = fmt.Sprintf("%d", n)
			}
			table.Rows = append(table.Rows, []string{
				p.Kind(),
				p.Label(),
				p.BasisLabel(),
				dte,
			})
		}
		doc.Table(table)
	}

	if len(r.Alerts) > 0 {
		doc.H2("Expiring Soon")
		alerts := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Ticker", "Contract", "DTE", "Qty"},
		}
		for _, a := range r.Alerts {
			alerts.Rows = append(alerts.Rows, []string{
				a.Ticker,
				a.Label,
				fmt.Sprintf("%d", a.DTE),
				fmt.Sprintf("%d", a.Qty),
			})
		}
		doc.Table(alerts)
	}

	return doc.String()
}
