package wheelhouse

import (
	"fmt"
	"strings"
	"time"
)

// Window is a half-open interval [From, To) over row timestamps. A zero To
// means the window runs to the end of the ledger.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && (w.To.IsZero() || t.Before(w.To))
}

// Days is the window length in whole days, at least 1.
func (w Window) Days(l *Ledger) int {
	to := w.To
	if to.IsZero() {
		to = l.NewestTime()
	}
	days := int(to.Sub(w.From) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// WindowNames are the accepted lookback presets, widest first.
var WindowNames = []string{"all", "ytd", "365d", "182d", "90d", "30d", "7d"}

var windowSpans = map[string]time.Duration{
	"7d":   7 * 24 * time.Hour,
	"30d":  30 * 24 * time.Hour,
	"90d":  90 * 24 * time.Hour,
	"182d": 182 * 24 * time.Hour,
	"365d": 365 * 24 * time.Hour,
}

// ParseWindow resolves a preset name against the ledger. Lookback presets
// are anchored on the newest row timestamp, not on the wall clock, so a
// stale export still reports on its own last weeks. The start is clamped to
// the oldest row.
func ParseWindow(l *Ledger, name string) (Window, error) {
	if l.Len() == 0 {
		return Window{}, fmt.Errorf("the ledger has no rows")
	}
	latest, earliest := l.NewestTime(), l.OldestTime()

	var w Window
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "", "all":
		w.From = earliest
	case "ytd":
		w.From = time.Date(latest.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		span, ok := windowSpans[name]
		if !ok {
			return Window{}, fmt.Errorf("unknown window %q (use one of %s)", name, strings.Join(WindowNames, ", "))
		}
		w.From = latest.Add(-span)
	}
	if w.From.Before(earliest) {
		w.From = earliest
	}
	return w, nil
}

// PriorWindow is the window of the same span immediately before w, for
// period-over-period comparison.
func PriorWindow(l *Ledger, w Window) Window {
	to := w.To
	if to.IsZero() {
		to = l.NewestTime()
	}
	span := to.Sub(w.From)
	return Window{From: w.From.Add(-span), To: w.From}
}

// WindowedEquityPnL replays the full share history and keeps the realized
// events inside w. Replaying from inception matters: lots opened before the
// window set the cost basis of sales inside it.
func WindowedEquityPnL(l *Ledger, w Window) Money {
	var total Money
	for ticker := range l.Tickers() {
		for e := range RealizedEquityEvents(l, ticker) {
			if w.Contains(e.Time) {
				total = total.Add(e.PnL())
			}
		}
	}
	return total
}

// OptionFlowPnL sums the option trade cash flows inside w. Premium received
// is positive, premium paid negative, so the sum is realized option P/L.
func OptionFlowPnL(l *Ledger, w Window) Money {
	var total Money
	for _, r := range l.Rows(OptionFlows) {
		if w.Contains(r.Time) {
			total = total.Add(r.Total)
		}
	}
	return total
}

// IncomePnL sums dividends and interest inside w.
func IncomePnL(l *Ledger, w Window) Money {
	var total Money
	for _, r := range l.Rows(IncomeRows) {
		if w.Contains(r.Time) {
			total = total.Add(r.Total)
		}
	}
	return total
}

// WindowPnL is the all-in realized result of the window: option cash flows,
// matched share sales, dividends and interest.
func WindowPnL(l *Ledger, w Window) Money {
	return OptionFlowPnL(l, w).Add(WindowedEquityPnL(l, w)).Add(IncomePnL(l, w))
}
