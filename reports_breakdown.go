package wheelhouse

// BreakdownLine is one ticker's realized record: wheel tickers carry their
// campaign aggregates, standalone tickers their net trading cash.
type BreakdownLine struct {
	Ticker          string
	Wheel           bool
	OpenCampaigns   int
	ClosedCampaigns int
	Premiums        Money
	Dividends       Money
	Standalone      Money // option flow outside campaign windows
	Capital         Money
	PnL             Money
}

// BreakdownReport is the per-ticker realized P/L table with its total line.
type BreakdownReport struct {
	Lifetime bool
	Lines    []BreakdownLine
	Total    BreakdownLine
}

// NewBreakdownReport aggregates realized P/L ticker by ticker. For a
// standalone ticker still holding shares bought for cash, the open share
// cost is added back so the line shows trading P/L, not cash spent.
func NewBreakdownReport(s *Snapshot) *BreakdownReport {
	r := &BreakdownReport{Lifetime: s.Lifetime()}
	for _, ticker := range s.WheelTickers() {
		ln := BreakdownLine{Ticker: ticker, Wheel: true}
		for _, c := range s.Campaigns(ticker) {
			if c.Closed() {
				ln.ClosedCampaigns++
			} else {
				ln.OpenCampaigns++
				ln.Capital = ln.Capital.Add(c.Cost)
			}
			ln.Premiums = ln.Premiums.Add(c.Premiums)
			ln.Dividends = ln.Dividends.Add(c.Dividends)
			ln.PnL = ln.PnL.Add(c.RealizedPnL())
		}
		ln.Standalone = OutsideCampaignPnL(s.view, ticker, s.Campaigns(ticker))
		ln.PnL = ln.PnL.Add(ln.Standalone)
		r.Lines = append(r.Lines, ln)
	}
	for _, ticker := range s.PureOptionTickers() {
		ln := BreakdownLine{Ticker: ticker}
		var pnl, eqFlow Money
		var net Quantity
		for _, row := range s.view.Rows(ByTicker(ticker)) {
			if row.IsShare() {
				net = net.Add(row.SignedQty)
			}
			if !row.IsTrade() {
				continue
			}
			pnl = pnl.Add(row.Total)
			if row.IsShare() {
				eqFlow = eqFlow.Add(row.Total)
			}
		}
		if net.GreaterThan(residualShareEpsilon) && eqFlow.IsNegative() {
			ln.Capital = eqFlow.Abs()
			pnl = pnl.Add(ln.Capital)
		}
		ln.PnL = pnl
		r.Lines = append(r.Lines, ln)
	}
	for _, ln := range r.Lines {
		r.Total.Premiums = r.Total.Premiums.Add(ln.Premiums)
		r.Total.Dividends = r.Total.Dividends.Add(ln.Dividends)
		r.Total.Standalone = r.Total.Standalone.Add(ln.Standalone)
		r.Total.Capital = r.Total.Capital.Add(ln.Capital)
		r.Total.PnL = r.Total.PnL.Add(ln.PnL)
	}
	r.Total.Ticker = "TOTAL"
	return r
}
