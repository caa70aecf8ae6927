package wheelhouse

import (
	"iter"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/etnz/wheelhouse/date"
)

// Ledger represents a normalized broker transaction history.
//
// In a Ledger rows are always in chronological order. Rows on the same
// instant keep their original export order.
type Ledger struct {
	rows []Row
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{rows: make([]Row, 0)}
}

// Append appends rows to this ledger and maintains the chronological order.
func (l *Ledger) Append(rows ...Row) {
	l.rows = append(l.rows, rows...)
	l.stableSort()
}

// stableSort sorts the ledger by row timestamp. The sort is stable, meaning
// rows on the same instant maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.rows, func(i, j int) bool {
		return l.rows[i].Time.Before(l.rows[j].Time)
	})
}

// Len returns the number of rows in the ledger.
func (l *Ledger) Len() int { return len(l.rows) }

// Rows returns an iterator over rows in chronological order. With filters,
// a row is yielded when any filter accepts it; without filters every row is
// yielded.
func (l *Ledger) Rows(filters ...func(Row) bool) iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, r := range l.rows {
			if len(filters) > 0 {
				accept := false
				for _, filter := range filters {
					if filter(r) {
						accept = true
						break
					}
				}
				if !accept {
					continue
				}
			}
			if !yield(i, r) {
				return
			}
		}
	}
}

// OldestTime returns the timestamp of the earliest row, or the zero time for
// an empty ledger.
func (l *Ledger) OldestTime() time.Time {
	if len(l.rows) == 0 {
		return time.Time{}
	}
	return l.rows[0].Time
}

// NewestTime returns the timestamp of the latest row, or the zero time for an
// empty ledger.
func (l *Ledger) NewestTime() time.Time {
	if len(l.rows) == 0 {
		return time.Time{}
	}
	return l.rows[len(l.rows)-1].Time
}

// OldestDate returns the calendar day of the earliest row.
func (l *Ledger) OldestDate() date.Date {
	if len(l.rows) == 0 {
		return date.Date{}
	}
	return l.rows[0].Date()
}

// NewestDate returns the calendar day of the latest row.
func (l *Ledger) NewestDate() date.Date {
	if len(l.rows) == 0 {
		return date.Date{}
	}
	return l.rows[len(l.rows)-1].Date()
}

// Tickers returns an iterator over all distinct tickers in the ledger, in
// lexical order. The synthetic CASH ticker is included.
func (l *Ledger) Tickers() iter.Seq[string] {
	seen := make(map[string]bool)
	for _, r := range l.rows {
		if r.Ticker != "" {
			seen[r.Ticker] = true
		}
	}
	tickers := slices.Sorted(maps.Keys(seen))
	return slices.Values(tickers)
}

// ByTicker returns a filter accepting rows of one ticker.
func ByTicker(ticker string) func(Row) bool {
	return func(r Row) bool { return r.Ticker == ticker }
}

// ShareRows accepts plain equity rows.
func ShareRows(r Row) bool { return r.IsShare() }

// OptionRows accepts equity and future option rows.
func OptionRows(r Row) bool { return r.IsOption() }

// OptionFlows accepts option fills and deliveries, the rows whose Total is an
// option cash flow.
func OptionFlows(r Row) bool { return r.IsOptionFlow() }

// IncomeRows accepts dividend and interest rows.
func IncomeRows(r Row) bool { return r.Sub.Income() }

// TradeRows accepts fills and deliveries of any instrument.
func TradeRows(r Row) bool { return r.IsTrade() }
