package wheelhouse

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/wheelhouse/date"
)

// expiryAlertDays is the lookahead for expiration warnings on open options.
const expiryAlertDays = 21

// residualShareEpsilon is the dust threshold for leftover standalone share
// positions when estimating deployed capital.
var residualShareEpsilon = Q(decimal.New(1, -4))

// Snapshot is a stateless calculator over a ledger: campaigns, closed
// trades, deployed capital and the account-wide P/L reconciliation, all
// derived on demand.
//
// Excluded tickers are stripped from every P/L aggregate so a $0-basis
// spin-off cannot inflate returns. Deposits ride on CASH rows and are never
// stripped; open positions and expiry alerts also keep the whole ledger,
// exclusion is a P/L filter, not a data filter.
type Snapshot struct {
	base      *Ledger
	view      *Ledger
	lifetime  bool
	excluded  map[string]bool
	campaigns map[string][]*Campaign
	wheel     []string
	pure      []string
}

// NewSnapshot precomputes the campaign state for every wheeled ticker of the
// ledger. lifetime folds each ticker's history into a single campaign with
// no resets.
func NewSnapshot(l *Ledger, lifetime bool, excluded ...string) *Snapshot {
	s := &Snapshot{
		base:      l,
		view:      l,
		lifetime:  lifetime,
		excluded:  make(map[string]bool, len(excluded)),
		campaigns: make(map[string][]*Campaign),
	}
	for _, t := range excluded {
		s.excluded[t] = true
	}
	if len(s.excluded) > 0 {
		view := NewLedger()
		var keep []Row
		for _, r := range l.Rows() {
			if !s.excluded[r.Ticker] {
				keep = append(keep, r)
			}
		}
		view.Append(keep...)
		s.view = view
	}

	for ticker := range s.view.Tickers() {
		if ticker == "CASH" {
			continue
		}
		if s.isWheel(ticker) {
			s.wheel = append(s.wheel, ticker)
			if camps := BuildCampaigns(s.view, ticker, lifetime); len(camps) > 0 {
				s.campaigns[ticker] = camps
			}
		} else {
			s.pure = append(s.pure, ticker)
		}
	}
	return s
}

// isWheel reports whether any single share row reaches a full lot. The test
// is per row, not net: a ticker assembled from odd lots is not a wheel.
func (s *Snapshot) isWheel(ticker string) bool {
	for _, r := range s.view.Rows(ByTicker(ticker)) {
		if r.IsShare() && r.SignedQty.GreaterThanOrEqual(wheelMinShares) {
			return true
		}
	}
	return false
}

func (s *Snapshot) Lifetime() bool { return s.lifetime }

// Excluded lists the tickers stripped from P/L aggregates, sorted.
func (s *Snapshot) Excluded() []string {
	var out []string
	for t := range s.excluded {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// WheelTickers lists the tickers with at least one full-lot share purchase,
// sorted.
func (s *Snapshot) WheelTickers() []string { return s.wheel }

// PureOptionTickers lists the tickers traded without ever reaching a full
// share lot, sorted.
func (s *Snapshot) PureOptionTickers() []string { return s.pure }

// Campaigns returns the ticker's campaigns, oldest first, nil for tickers
// that were never wheeled.
func (s *Snapshot) Campaigns(ticker string) []*Campaign { return s.campaigns[ticker] }

// OldestTime and NewestTime anchor every window and day count on the full
// ledger, whatever the exclusion list says.
func (s *Snapshot) OldestTime() time.Time { return s.base.OldestTime() }

func (s *Snapshot) NewestTime() time.Time { return s.base.NewestTime() }

// AccountDays is the ledger's lifetime in whole days.
func (s *Snapshot) AccountDays() int {
	return int(s.NewestTime().Sub(s.OldestTime()) / (24 * time.Hour))
}

// CampaignWindows maps each wheeled ticker to its holding intervals. Open
// campaigns run to the newest ledger row, so the inclusive containment the
// covered-strategy check needs has a concrete upper bound.
func (s *Snapshot) CampaignWindows() map[string][]Window {
	latest := s.NewestTime()
	m := make(map[string][]Window, len(s.campaigns))
	for ticker, camps := range s.campaigns {
		for _, c := range camps {
			w := c.Window()
			if w.To.IsZero() {
				w.To = latest
			}
			m[ticker] = append(m[ticker], w)
		}
	}
	return m
}

// ClosedTrades classifies the fully closed option trades of the ledger.
func (s *Snapshot) ClosedTrades() []ClosedTrade {
	return BuildClosedTrades(s.view, s.CampaignWindows())
}

// RollChains groups one ticker's short option events into roll chains.
func (s *Snapshot) RollChains(ticker string) []RollChain {
	return BuildRollChains(s.view, ticker)
}

// ClosedCampaignPnL sums the realized result of every closed campaign.
func (s *Snapshot) ClosedCampaignPnL() Money {
	var total Money
	for _, camps := range s.campaigns {
		for _, c := range camps {
			if c.Closed() {
				total = total.Add(c.RealizedPnL())
			}
		}
	}
	return total
}

// OpenPremiumsBanked sums the premium and dividends already collected by
// campaigns still open.
func (s *Snapshot) OpenPremiumsBanked() Money {
	var total Money
	for _, camps := range s.campaigns {
		for _, c := range camps {
			if !c.Closed() {
				total = total.Add(c.RealizedPnL())
			}
		}
	}
	return total
}

// CapitalDeployed is the cash tied up in open share positions: open
// campaigns at their blended basis, plus residual standalone share positions
// at their average buy price. The average spans sold lots too, which
// slightly overstates the residual's cost after partial sells.
func (s *Snapshot) CapitalDeployed() Money {
	var total Money
	for _, camps := range s.campaigns {
		for _, c := range camps {
			if !c.Closed() {
				total = total.Add(c.BlendedBasis.Mul(c.Shares))
			}
		}
	}
	for _, ticker := range s.pure {
		var net, bought Quantity
		var cost Money
		for _, r := range s.view.Rows(ByTicker(ticker)) {
			if !r.IsShare() {
				continue
			}
			net = net.Add(r.SignedQty)
			if r.SignedQty.IsPositive() {
				bought = bought.Add(r.SignedQty)
				cost = cost.Add(r.Total.Abs())
			}
		}
		if net.GreaterThan(residualShareEpsilon) && bought.IsPositive() {
			total = total.Add(cost.Div(bought).Mul(net))
		}
	}
	return total
}

// PureOptionsPnL is the realized P/L that campaigns do not account for:
// standalone tickers' option cash flow and matched share sales, plus wheel
// tickers' option flow outside every campaign window.
func (s *Snapshot) PureOptionsPnL() Money {
	var total Money
	for _, ticker := range s.pure {
		for _, r := range s.view.Rows(ByTicker(ticker)) {
			if r.IsOptionFlow() {
				total = total.Add(r.Total)
			}
		}
		total = total.Add(EquityRealizedPnL(s.view, ticker))
	}
	for _, ticker := range s.wheel {
		total = total.Add(OutsideCampaignPnL(s.view, ticker, s.campaigns[ticker]))
	}
	return total
}

// allTimeIncome sums dividends and interest over the whole ledger.
func (s *Snapshot) allTimeIncome() Money {
	var total Money
	for _, r := range s.view.Rows(IncomeRows) {
		total = total.Add(r.Total)
	}
	return total
}

// campaignDividends sums the dividends already attributed to campaigns.
func (s *Snapshot) campaignDividends() Money {
	var total Money
	for _, camps := range s.campaigns {
		for _, c := range camps {
			total = total.Add(c.Dividends)
		}
	}
	return total
}

// TotalRealizedPnL reconciles the account's banked P/L: campaign results,
// premium on open campaigns, everything outside campaigns, and income. The
// dividends campaigns already counted are backed out of the income term so
// they are not added twice.
func (s *Snapshot) TotalRealizedPnL() Money {
	total := s.ClosedCampaignPnL().Add(s.OpenPremiumsBanked()).Add(s.PureOptionsPnL())
	return total.Add(s.allTimeIncome()).Sub(s.campaignDividends())
}

// NetDeposited is cash in minus cash out. Withdrawal rows carry a negative
// total, so a plain sum nets them.
func (s *Snapshot) NetDeposited() Money {
	var total Money
	for _, r := range s.view.Rows() {
		if r.Sub == SubDeposit || r.Sub == SubWithdrawal {
			total = total.Add(r.Total)
		}
	}
	return total
}

// RealizedROR is the all-time realized return on net deposits. It reports
// ok=false when net deposits are zero (undefined) or negative (the account
// runs on house money and the ratio has no meaning).
func (s *Snapshot) RealizedROR() (Percent, bool) {
	net := s.NetDeposited()
	if !net.IsPositive() {
		return 0, false
	}
	return Percent(s.TotalRealizedPnL().AsFloat() / net.AsFloat() * 100), true
}

// CashBalance is the running sum of every cash total.
func (s *Snapshot) CashBalance() Money {
	var total Money
	for _, r := range s.view.Rows() {
		total = total.Add(r.Total)
	}
	return total
}

// MarginLoan is the broker debt: the cash balance when it is negative.
func (s *Snapshot) MarginLoan() Money {
	bal := s.CashBalance()
	if bal.IsNegative() {
		return bal.Neg()
	}
	return bal.Sub(bal)
}

// Window resolves a preset window name against the full ledger.
func (s *Snapshot) Window(name string) (Window, error) {
	return ParseWindow(s.base, name)
}

// WindowPnL is the realized result of a window over the P/L view.
func (s *Snapshot) WindowPnL(w Window) Money {
	return WindowPnL(s.view, w)
}

// CapitalEfficiency annualizes the window's realized P/L against the
// capital deployed in shares. ok is false with no capital deployed.
func (s *Snapshot) CapitalEfficiency(w Window) (Percent, bool) {
	capital := s.CapitalDeployed()
	if !capital.IsPositive() {
		return 0, false
	}
	days := float64(w.Days(s.base))
	return Percent(s.WindowPnL(w).AsFloat() / capital.AsFloat() / days * 365 * 100), true
}

// IncomeSummary breaks down the non-trading cash of a window.
type IncomeSummary struct {
	Window        Window
	Dividends     Money
	NetInterest   Money // credit interest earned minus margin interest paid
	DebitInterest Money
	Fees          Money // balance adjustments, regulatory fees
}

// Income sums the window's dividends, interest and fees.
func (s *Snapshot) Income(w Window) IncomeSummary {
	out := IncomeSummary{Window: w}
	for _, r := range s.view.Rows() {
		if !w.Contains(r.Time) {
			continue
		}
		switch r.Sub {
		case SubDividend:
			out.Dividends = out.Dividends.Add(r.Total)
		case SubCreditInterest:
			out.NetInterest = out.NetInterest.Add(r.Total)
		case SubDebitInterest:
			out.NetInterest = out.NetInterest.Add(r.Total)
			out.DebitInterest = out.DebitInterest.Add(r.Total)
		case SubBalanceAdjustment:
			out.Fees = out.Fees.Add(r.Total)
		}
	}
	return out
}

// OpenPositions nets every trade row by contract and keeps the non-flat
// results, sorted by ticker then symbol.
func (s *Snapshot) OpenPositions() []Position {
	type key struct {
		ticker, symbol, instrument, callPut, strike, root string
		exp                                               date.Date
	}
	type agg struct {
		pos Position
		qty Quantity
		net Money
	}
	m := make(map[key]*agg)
	for _, r := range s.base.Rows(TradeRows) {
		k := key{r.Ticker, r.Symbol, r.Instrument, r.CallPut, r.Strike.value.String(), r.Root, r.Expiration}
		a := m[k]
		if a == nil {
			a = &agg{pos: Position{
				Ticker:     r.Ticker,
				Symbol:     r.Symbol,
				Instrument: r.Instrument,
				CallPut:    r.CallPut,
				Expiration: r.Expiration,
				Strike:     r.Strike,
				Root:       r.Root,
			}}
			m[k] = a
		}
		a.qty = a.qty.Add(r.SignedQty)
		a.net = a.net.Add(r.Total)
	}
	var out []Position
	for _, a := range m {
		if a.qty.Abs().GreaterThan(shareEpsilon) {
			p := a.pos
			p.Qty = a.qty
			p.CostBasis = a.net.Neg()
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// ExpiryAlerts lists the open option positions expiring within
// expiryAlertDays of the newest ledger row, nearest first.
func (s *Snapshot) ExpiryAlerts() []ExpiryAlert {
	latest := s.NewestTime()
	var alerts []ExpiryAlert
	for _, p := range s.OpenPositions() {
		if !p.IsOption() || p.Expiration.IsZero() {
			continue
		}
		exp := time.Date(p.Expiration.Year(), p.Expiration.Month(), p.Expiration.Day(), 0, 0, 0, 0, time.UTC)
		dte := int(exp.Sub(latest) / (24 * time.Hour))
		if dte < 0 {
			dte = 0
		}
		if dte > expiryAlertDays {
			continue
		}
		side := "P"
		if strings.Contains(strings.ToUpper(p.CallPut), "CALL") {
			side = "C"
		}
		alerts = append(alerts, ExpiryAlert{
			Ticker: p.Ticker,
			Label:  fmt.Sprintf("%.0f%s", p.Strike.AsFloat(), side),
			DTE:    dte,
			Qty:    int(p.Qty.AsFloat()),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].DTE < alerts[j].DTE })
	return alerts
}
