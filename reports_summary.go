package wheelhouse

import "time"

// Summary is the account overview: the headline realized figures, their
// breakdown, window performance against the prior window, and the open-book
// warnings that belong on a front page.
type Summary struct {
	Generated  time.Time // newest row timestamp, the report's "as of"
	Window     Window
	WindowName string
	Lifetime   bool
	Excluded   []string

	TotalRealized   Money
	ROR             Percent // realized return on net deposits
	RORKnown        bool
	HouseMoney      bool // withdrawals exceed deposits, ROR is meaningless
	ClosedCampaigns Money
	OpenPremiums    Money
	StandalonePnL   Money

	CapitalDeployed Money
	CashBalance     Money
	MarginLoan      Money
	NetDeposited    Money
	AccountDays     int

	WindowPnL   Money
	PriorPnL    Money
	CapEff      Percent // window P/L annualized over deployed capital
	CapEffKnown bool
	Income      IncomeSummary

	WheelTickers    int
	Standalone      int
	OpenCount       int // campaigns still running
	ClosedCount     int
	TradesClosed    int // in window, all closed when the window is empty
	TradesAll       int
	OpenPositions   int
	Alerts          []ExpiryAlert
}

// NewSummary computes the account overview for a named window.
func NewSummary(s *Snapshot, window string) (*Summary, error) {
	w, err := s.Window(window)
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		Generated:  s.NewestTime(),
		Window:     w,
		WindowName: window,
		Lifetime:   s.Lifetime(),
		Excluded:   s.Excluded(),

		TotalRealized:   s.TotalRealizedPnL(),
		ClosedCampaigns: s.ClosedCampaignPnL(),
		OpenPremiums:    s.OpenPremiumsBanked(),
		StandalonePnL:   s.PureOptionsPnL(),

		CapitalDeployed: s.CapitalDeployed(),
		CashBalance:     s.CashBalance(),
		MarginLoan:      s.MarginLoan(),
		NetDeposited:    s.NetDeposited(),
		AccountDays:     s.AccountDays(),

		WindowPnL: s.WindowPnL(w),
		PriorPnL:  s.WindowPnL(PriorWindow(s.base, w)),
		Income:    s.Income(w),

		Alerts: s.ExpiryAlerts(),
	}
	sum.ROR, sum.RORKnown = s.RealizedROR()
	sum.HouseMoney = sum.NetDeposited.IsNegative()
	sum.CapEff, sum.CapEffKnown = s.CapitalEfficiency(w)

	sum.WheelTickers = len(s.WheelTickers())
	sum.Standalone = len(s.PureOptionTickers())
	for _, ticker := range s.WheelTickers() {
		for _, c := range s.Campaigns(ticker) {
			if c.Closed() {
				sum.ClosedCount++
			} else {
				sum.OpenCount++
			}
		}
	}
	trades := s.ClosedTrades()
	sum.TradesAll = len(trades)
	windowed := WindowTrades(trades, w)
	if len(windowed) == 0 {
		windowed = trades
	}
	sum.TradesClosed = len(windowed)
	sum.OpenPositions = len(s.OpenPositions())
	return sum, nil
}

// Delta is the window's realized P/L against the prior window of the same
// span.
func (s *Summary) Delta() Money { return s.WindowPnL.Sub(s.PriorPnL) }
