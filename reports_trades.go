package wheelhouse

import (
	"sort"

	"github.com/etnz/wheelhouse/date"
)

// captureBuckets are the premium-capture distribution edges, in percent.
// Anything below zero is a loss, anything above 100 means the trade made
// more than its opening credit (assignment gains, favorable rolls).
var captureBuckets = []struct {
	Label string
	Max   float64
}{
	{"Loss", 0},
	{"0-25%", 25},
	{"25-50%", 50},
	{"50-75%", 75},
	{"75-100%", 100},
	{">100%", 0}, // catches the rest
}

// Scorecard aggregates the credit trades of a window into the selling
// metrics that matter: medians rather than means wherever a single 0DTE or
// LEAPS trade could skew the picture.
type Scorecard struct {
	Trades        int
	WinRate       Percent
	MedianCapture Percent
	MedianDays    float64
	MedianAnnRet  Percent
	MedianPremDay Money // typical credit collected per day in trade
	BankedPerDay  Money // net P/L of credit trades spread over the window
	GrossPerDay   Money // opening credit spread over the window
}

// Rollup is one line of a grouped trade breakdown.
type Rollup struct {
	Name       string
	Trades     int
	WinRate    Percent
	TotalPnL   Money
	MedDays    float64
	MedCapture *Percent // nil when the group has no credit trades
	MedDTE     *float64
	AvgPremDay *Money // call-vs-put table only
}

// TickerRollup is one underlying's closed-trade record.
type TickerRollup struct {
	Ticker      string
	Trades      int
	WinRate     Percent
	TotalPnL    Money
	MedDays     float64
	MedCapture  *Percent
	MedAnnRet   *Percent
	TotalCredit *Money
}

// MonthRollup is the net result of the trades closed in one calendar month.
type MonthRollup struct {
	Month  date.Date // first day of the month
	Trades int
	PnL    Money
}

// CaptureBucket counts the credit trades landing in one capture range.
type CaptureBucket struct {
	Label  string
	Trades int
}

// TradesReport is the closed-trade review for a time window: the trade log
// plus the scorecard and its breakdowns.
type TradesReport struct {
	Window     Window
	WindowName string
	AllTrades  int  // closed trades over the whole ledger
	Fallback   bool // the window had none, the report covers all of them

	Trades      []ClosedTrade
	Scorecard   *Scorecard // nil without credit trades
	CaptureDist []CaptureBucket
	ByType      []Rollup // credit trades by Call, Put, Mixed
	ByStrategy  []Rollup // every trade by strategy, best first
	ByTicker    []TickerRollup
	ByMonth     []MonthRollup
	Best        []ClosedTrade
	Worst       []ClosedTrade
}

// WindowTrades keeps the trades closed inside w.
func WindowTrades(trades []ClosedTrade, w Window) []ClosedTrade {
	var out []ClosedTrade
	for _, t := range trades {
		if w.Contains(t.Close) {
			out = append(out, t)
		}
	}
	return out
}

// NewTradesReport builds the closed-trade review for the named window. An
// empty window falls back to the full trade history so the report never
// comes up blank on a quiet month.
func NewTradesReport(s *Snapshot, window string) (*TradesReport, error) {
	w, err := s.Window(window)
	if err != nil {
		return nil, err
	}
	all := s.ClosedTrades()
	r := &TradesReport{
		Window:     w,
		WindowName: window,
		AllTrades:  len(all),
	}
	r.Trades = WindowTrades(all, w)
	if len(r.Trades) == 0 {
		r.Trades = all
		r.Fallback = len(all) > 0
	}
	if len(r.Trades) == 0 {
		return r, nil
	}

	credit := creditTrades(r.Trades)
	if len(credit) > 0 {
		r.Scorecard = newScorecard(credit, w.Days(s.base))
		r.CaptureDist = captureDistribution(credit)
		r.ByType = rollupBy(credit, func(t ClosedTrade) string { return t.Type }, true)
		sort.Slice(r.ByType, func(i, j int) bool { return r.ByType[i].Name < r.ByType[j].Name })
	}

	r.ByStrategy = rollupBy(r.Trades, func(t ClosedTrade) string { return t.Strategy }, false)
	sort.SliceStable(r.ByStrategy, func(i, j int) bool {
		return r.ByStrategy[i].TotalPnL.GreaterThan(r.ByStrategy[j].TotalPnL)
	})

	r.ByTicker = tickerRollups(r.Trades)
	r.ByMonth = monthRollups(r.Trades)
	r.Best, r.Worst = bestWorst(r.Trades, 5)
	return r, nil
}

func creditTrades(trades []ClosedTrade) []ClosedTrade {
	var out []ClosedTrade
	for _, t := range trades {
		if t.IsCredit {
			out = append(out, t)
		}
	}
	return out
}

func newScorecard(credit []ClosedTrade, windowDays int) *Scorecard {
	var captures, days, annRets, premDays []float64
	var wins int
	var totalPnL, totalCredit Money
	for _, t := range credit {
		if t.Won {
			wins++
		}
		totalPnL = totalPnL.Add(t.NetPnL)
		totalCredit = totalCredit.Add(t.Premium)
		days = append(days, float64(t.DaysHeld))
		annRets = append(annRets, float64(t.AnnReturn))
		if t.Capture != nil {
			captures = append(captures, float64(*t.Capture))
		}
		if t.PremPerDay != nil {
			premDays = append(premDays, t.PremPerDay.AsFloat())
		}
	}
	d := Q(windowDays)
	return &Scorecard{
		Trades:        len(credit),
		WinRate:       Percent(float64(wins) / float64(len(credit)) * 100),
		MedianCapture: Percent(median(captures)),
		MedianDays:    median(days),
		MedianAnnRet:  Percent(median(annRets)),
		MedianPremDay: USD(median(premDays)),
		BankedPerDay:  totalPnL.Div(d),
		GrossPerDay:   totalCredit.Div(d),
	}
}

func captureDistribution(credit []ClosedTrade) []CaptureBucket {
	out := make([]CaptureBucket, len(captureBuckets))
	for i, b := range captureBuckets {
		out[i].Label = b.Label
	}
	for _, t := range credit {
		if t.Capture == nil {
			continue
		}
		c := float64(*t.Capture)
		idx := len(out) - 1
		for i, b := range captureBuckets[:len(captureBuckets)-1] {
			if c <= b.Max {
				idx = i
				break
			}
		}
		out[idx].Trades++
	}
	return out
}

// rollupBy groups trades under keyOf and aggregates each group. premDay adds
// the mean premium-per-day column used by the call-vs-put table.
func rollupBy(trades []ClosedTrade, keyOf func(ClosedTrade) string, premDay bool) []Rollup {
	groups := make(map[string][]ClosedTrade)
	var order []string
	for _, t := range trades {
		k := keyOf(t)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}
	var out []Rollup
	for _, k := range order {
		grp := groups[k]
		r := Rollup{Name: k, Trades: len(grp)}
		var wins int
		var captures, days, dtes, prems []float64
		for _, t := range grp {
			if t.Won {
				wins++
			}
			r.TotalPnL = r.TotalPnL.Add(t.NetPnL)
			days = append(days, float64(t.DaysHeld))
			if t.Capture != nil {
				captures = append(captures, float64(*t.Capture))
			}
			if t.DTEOpen != nil {
				dtes = append(dtes, float64(*t.DTEOpen))
			}
			if t.PremPerDay != nil {
				prems = append(prems, t.PremPerDay.AsFloat())
			}
		}
		r.WinRate = Percent(float64(wins) / float64(len(grp)) * 100)
		r.MedDays = median(days)
		if len(captures) > 0 {
			c := Percent(median(captures))
			r.MedCapture = &c
		}
		if len(dtes) > 0 {
			d := median(dtes)
			r.MedDTE = &d
		}
		if premDay && len(prems) > 0 {
			m := USD(mean(prems))
			r.AvgPremDay = &m
		}
		out = append(out, r)
	}
	return out
}

func tickerRollups(trades []ClosedTrade) []TickerRollup {
	groups := make(map[string][]ClosedTrade)
	for _, t := range trades {
		groups[t.Ticker] = append(groups[t.Ticker], t)
	}
	var out []TickerRollup
	for ticker, grp := range groups {
		r := TickerRollup{Ticker: ticker, Trades: len(grp)}
		var wins int
		var days, captures, annRets []float64
		var totalCredit Money
		var hasCredit bool
		for _, t := range grp {
			if t.Won {
				wins++
			}
			r.TotalPnL = r.TotalPnL.Add(t.NetPnL)
			days = append(days, float64(t.DaysHeld))
			if t.IsCredit {
				hasCredit = true
				totalCredit = totalCredit.Add(t.Premium)
				if t.Capture != nil {
					captures = append(captures, float64(*t.Capture))
				}
				annRets = append(annRets, float64(t.AnnReturn))
			}
		}
		r.WinRate = Percent(float64(wins) / float64(len(grp)) * 100)
		r.MedDays = median(days)
		if len(captures) > 0 {
			c := Percent(median(captures))
			r.MedCapture = &c
		}
		if len(annRets) > 0 {
			a := Percent(median(annRets))
			r.MedAnnRet = &a
		}
		if hasCredit {
			r.TotalCredit = &totalCredit
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalPnL.Equal(out[j].TotalPnL) {
			return out[i].TotalPnL.GreaterThan(out[j].TotalPnL)
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

func monthRollups(trades []ClosedTrade) []MonthRollup {
	byMonth := make(map[date.Date]*MonthRollup)
	for _, t := range trades {
		m := date.Monthly.Range(t.CloseDate()).From
		r := byMonth[m]
		if r == nil {
			r = &MonthRollup{Month: m}
			byMonth[m] = r
		}
		r.Trades++
		r.PnL = r.PnL.Add(t.NetPnL)
	}
	var out []MonthRollup
	for _, r := range byMonth {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func bestWorst(trades []ClosedTrade, n int) (best, worst []ClosedTrade) {
	ranked := make([]ClosedTrade, len(trades))
	copy(ranked, trades)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetPnL.GreaterThan(ranked[j].NetPnL)
	})
	if len(ranked) < n {
		n = len(ranked)
	}
	best = ranked[:n]
	worst = make([]ClosedTrade, n)
	for i := 0; i < n; i++ {
		worst[i] = ranked[len(ranked)-1-i]
	}
	return best, worst
}

// median of a float slice, averaging the middle pair on even lengths.
// Zero for an empty slice.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
