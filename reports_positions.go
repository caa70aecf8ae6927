package wheelhouse

import (
	"sort"
	"time"
)

// TickerPositions is one underlying's open positions with the strategy they
// form together.
type TickerPositions struct {
	Ticker    string
	Strategy  string
	Positions []Position
}

// PositionsReport is the live book: open positions grouped by underlying,
// plus the near-term expiration alerts.
type PositionsReport struct {
	Latest  time.Time
	Tickers []TickerPositions
	Alerts  []ExpiryAlert
}

// NewPositionsReport groups the open positions by ticker and names each
// group's strategy. Positions within a group sort by kind so stock legs and
// option legs keep a stable order.
func NewPositionsReport(s *Snapshot) *PositionsReport {
	r := &PositionsReport{Latest: s.NewestTime(), Alerts: s.ExpiryAlerts()}
	groups := make(map[string][]Position)
	var order []string
	for _, p := range s.OpenPositions() {
		if p.Ticker == "CASH" {
			continue
		}
		if _, ok := groups[p.Ticker]; !ok {
			order = append(order, p.Ticker)
		}
		groups[p.Ticker] = append(groups[p.Ticker], p)
	}
	sort.Strings(order)
	for _, ticker := range order {
		ps := groups[ticker]
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Kind() < ps[j].Kind() })
		r.Tickers = append(r.Tickers, TickerPositions{
			Ticker:    ticker,
			Strategy:  DetectOpenStrategy(ps),
			Positions: ps,
		})
	}
	return r
}
