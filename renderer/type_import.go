package renderer

import (
	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/date"
)

// Import holds the import result prepared for rendering.
type Import struct {
	Source   string
	Rows     int
	Oldest   date.Date
	Newest   date.Date
	Splits   []Split
	Warnings []Warning
}

// Split is one detected stock split line.
type Split struct {
	Ticker string
	Date   date.Date
	Label  string
}

// Warning is one zero-cost share delivery line.
type Warning struct {
	Ticker string
	Date   date.Date
	Qty    string
	Detail string
}

// NewImport creates a renderer.Import from an imported ledger and the
// corporate actions detected on the way in.
func NewImport(source string, l *wheelhouse.Ledger, splits []wheelhouse.SplitEvent, warnings []wheelhouse.ZeroCostRow) *Import {
	imp := &Import{Source: source, Rows: l.Len()}
	if l.Len() > 0 {
		imp.Oldest = date.FromTime(l.OldestTime())
		imp.Newest = date.FromTime(l.NewestTime())
	}
	for _, s := range splits {
		imp.Splits = append(imp.Splits, Split{Ticker: s.Ticker, Date: date.FromTime(s.Time), Label: s.Label()})
	}
	for _, w := range warnings {
		imp.Warnings = append(imp.Warnings, Warning{Ticker: w.Ticker, Date: date.FromTime(w.Time), Qty: w.Quantity.String(), Detail: w.Description})
	}
	return imp
}
