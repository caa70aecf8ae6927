package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/wheelhouse"
	md "github.com/nao1215/markdown"
)

func DailyMarkdown(r *wheelhouse.DailyReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Daily Realized P/L (%s)", r.WindowName))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Window Total"),
			md.Bold(r.Total.SignedString()),
		},
		Rows: [][]string{
			{"Options", r.Options.SignedString()},
			{"Equity", r.Equity.SignedString()},
			{"Income", r.Income.SignedString()},
			{"Prior Window", r.PriorTotal.SignedString()},
			{"Delta", r.Delta().SignedString()},
		},
	})

	if len(r.Days) == 0 {
		doc.PlainText("No realized P/L in this window.")
		return doc.String()
	}

	series := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "P/L", "Cumulative"},
		Rows:   [][]string{},
	}
	for _, d := range r.Days {
		series.Rows = append(series.Rows, []string{
			d.Date.String(),
			fmt.Sprintf("%+.2f", d.PnL),
			fmt.Sprintf("%.2f", d.Cumulative),
		})
	}
	doc.Table(series)

	return doc.String()
}
