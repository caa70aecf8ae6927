package wheelhouse

import (
	"maps"
	"slices"

	"github.com/etnz/wheelhouse/date"
)

// DailyReport is the day-by-day realized P/L of a window: one point per day
// with a running total, plus the window aggregates and the same-span prior
// window for comparison.
type DailyReport struct {
	Window     Window
	WindowName string
	Options    Money
	Equity     Money
	Income     Money
	Total      Money
	PriorTotal Money
	Days       []DayPnL
}

// DayPnL is one day of realized P/L and the running total up to that day.
type DayPnL struct {
	Date       date.Date
	PnL        float64
	Cumulative float64
}

// NewDailyReport computes the realized P/L series for a named window.
func NewDailyReport(l *Ledger, window string) (*DailyReport, error) {
	w, err := ParseWindow(l, window)
	if err != nil {
		return nil, err
	}
	r := &DailyReport{
		Window:     w,
		WindowName: window,
		Options:    OptionFlowPnL(l, w),
		Equity:     WindowedEquityPnL(l, w),
		Income:     IncomePnL(l, w),
	}
	r.Total = r.Options.Add(r.Equity).Add(r.Income)
	r.PriorTotal = WindowPnL(l, PriorWindow(l, w))

	var running float64
	for day, pnl := range DailyRealizedPnL(l, w).Values() {
		running += pnl
		r.Days = append(r.Days, DayPnL{Date: day, PnL: pnl, Cumulative: running})
	}
	return r, nil
}

// Delta is the change versus the prior window of the same span.
func (r *DailyReport) Delta() Money { return r.Total.Sub(r.PriorTotal) }

// DailyRealizedPnL builds the per-day realized P/L series of a window from
// share lot matches, option cash flows and income rows.
func DailyRealizedPnL(l *Ledger, w Window) *date.History[float64] {
	h := &date.History[float64]{}
	for ticker := range l.Tickers() {
		for e := range RealizedEquityEvents(l, ticker) {
			if w.Contains(e.Time) {
				h.AppendAdd(e.Date(), e.PnL().AsFloat())
			}
		}
	}
	for _, r := range l.Rows(OptionFlows) {
		if w.Contains(r.Time) {
			h.AppendAdd(r.Date(), r.Total.AsFloat())
		}
	}
	for _, r := range l.Rows(IncomeRows) {
		if w.Contains(r.Time) {
			h.AppendAdd(r.Date(), r.Total.AsFloat())
		}
	}
	return h
}

// MonthlyPremium is the option cash flow of one calendar month.
type MonthlyPremium struct {
	Month   date.Range
	Premium Money
}

// MonthlyOptionIncome rolls option cash flows up by calendar month, oldest
// first.
func MonthlyOptionIncome(l *Ledger) []MonthlyPremium {
	byMonth := make(map[date.Date]Money)
	for _, r := range l.Rows(OptionFlows) {
		m := date.Monthly.Range(r.Date())
		byMonth[m.From] = byMonth[m.From].Add(r.Total)
	}
	starts := slices.SortedFunc(maps.Keys(byMonth), date.Date.Sub)
	months := make([]MonthlyPremium, 0, len(starts))
	for _, from := range starts {
		months = append(months, MonthlyPremium{Month: date.Monthly.Range(from), Premium: byMonth[from]})
	}
	return months
}
