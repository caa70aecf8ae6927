package wheelhouse

import "testing"

func TestNewSummary(t *testing.T) {
	l := newTestLedger(
		depositRow("2024-01-02", 10000),
		buyShares("2024-01-10", "ABC", 100, -5000),
		sto("2024-01-12", "ABC", "CALL", 55, "2024-02-16", -1, 80, "#1"),
		expireOpt("2024-02-16", "ABC", "CALL", 55, "2024-02-16", 1),
		dividendRow("2024-02-20", "ABC", 25),
		sellShares("2024-03-01", "ABC", 100, 5200),
		sto("2024-03-05", "ABC", "PUT", 45, "2024-03-15", -1, 40, "#2"),
		expireOpt("2024-03-15", "ABC", "PUT", 45, "2024-03-15", 1),
		buyShares("2024-03-10", "XYZ", 100, -2000),
		sto("2024-03-12", "XYZ", "CALL", 22, "2024-04-19", -1, 60, "#3"),
		sto("2024-02-01", "OPT", "PUT", 10, "2024-02-16", -1, 30, "#4"),
		btc("2024-02-10", "OPT", "PUT", 10, "2024-02-16", 1, -12, "#5"),
		interestRow("2024-03-20", 5),
		interestRow("2024-03-22", -3),
		withdrawalRow("2024-03-25", -1500),
	)
	s := NewSnapshot(l, false)

	sum, err := NewSummary(s, "all")
	if err != nil {
		t.Fatalf("NewSummary() error = %v", err)
	}

	if !sum.Generated.Equal(at("2024-03-25")) {
		t.Errorf("Generated = %v, want the newest row's timestamp", sum.Generated)
	}
	if sum.Lifetime || len(sum.Excluded) != 0 {
		t.Errorf("Lifetime/Excluded = %v/%v, want false and none", sum.Lifetime, sum.Excluded)
	}

	if got, want := sum.TotalRealized, USD(425); !got.Equal(want) {
		t.Errorf("TotalRealized = %s, want %s", got, want)
	}
	if got, want := sum.ClosedCampaigns, USD(305); !got.Equal(want) {
		t.Errorf("ClosedCampaigns = %s, want %s", got, want)
	}
	if got, want := sum.OpenPremiums, USD(60); !got.Equal(want) {
		t.Errorf("OpenPremiums = %s, want %s", got, want)
	}
	if got, want := sum.StandalonePnL, USD(58); !got.Equal(want) {
		t.Errorf("StandalonePnL = %s, want %s", got, want)
	}

	if !sum.RORKnown {
		t.Fatal("RORKnown = false, want true")
	}
	if want := Percent(5); !sum.ROR.Equal(want) {
		t.Errorf("ROR = %v, want %v", sum.ROR, want)
	}
	if sum.HouseMoney {
		t.Error("HouseMoney = true, want false")
	}

	if got, want := sum.CapitalDeployed, USD(2000); !got.Equal(want) {
		t.Errorf("CapitalDeployed = %s, want %s", got, want)
	}
	if got, want := sum.CashBalance, USD(6925); !got.Equal(want) {
		t.Errorf("CashBalance = %s, want %s", got, want)
	}
	if !sum.MarginLoan.IsZero() {
		t.Errorf("MarginLoan = %s, want zero", sum.MarginLoan)
	}
	if got, want := sum.NetDeposited, USD(8500); !got.Equal(want) {
		t.Errorf("NetDeposited = %s, want %s", got, want)
	}
	if sum.AccountDays != 83 {
		t.Errorf("AccountDays = %d, want 83", sum.AccountDays)
	}

	if got, want := sum.WindowPnL, USD(425); !got.Equal(want) {
		t.Errorf("WindowPnL = %s, want %s", got, want)
	}
	if !sum.PriorPnL.IsZero() {
		t.Errorf("PriorPnL = %s, want zero before the account opened", sum.PriorPnL)
	}
	if got, want := sum.Delta(), USD(425); !got.Equal(want) {
		t.Errorf("Delta() = %s, want %s", got, want)
	}
	if !sum.CapEffKnown {
		t.Error("CapEffKnown = false, want true")
	}
	if want := Percent(425.0 / 2000.0 / 83.0 * 365.0 * 100.0); !sum.CapEff.Equal(want) {
		t.Errorf("CapEff = %v, want %v", sum.CapEff, want)
	}
	if got, want := sum.Income.Dividends, USD(25); !got.Equal(want) {
		t.Errorf("Income.Dividends = %s, want %s", got, want)
	}

	if sum.WheelTickers != 2 || sum.Standalone != 1 {
		t.Errorf("tickers = %d wheel / %d standalone, want 2/1", sum.WheelTickers, sum.Standalone)
	}
	if sum.OpenCount != 1 || sum.ClosedCount != 1 {
		t.Errorf("campaigns = %d open / %d closed, want 1/1", sum.OpenCount, sum.ClosedCount)
	}
	// Both ABC trades and the OPT put closed; the XYZ call is still open.
	if sum.TradesAll != 3 || sum.TradesClosed != 3 {
		t.Errorf("trades = %d of %d, want 3 of 3", sum.TradesClosed, sum.TradesAll)
	}
	if sum.OpenPositions != 2 {
		t.Errorf("OpenPositions = %d, want 2", sum.OpenPositions)
	}
	// The XYZ call expires 25 days after the ledger's newest row.
	if len(sum.Alerts) != 0 {
		t.Errorf("Alerts = %+v, want none outside the lookahead", sum.Alerts)
	}
}

func TestNewSummary_HouseMoney(t *testing.T) {
	s := NewSnapshot(newTestLedger(
		depositRow("2024-01-02", 1000),
		withdrawalRow("2024-02-01", -2500),
	), false)

	sum, err := NewSummary(s, "all")
	if err != nil {
		t.Fatalf("NewSummary() error = %v", err)
	}
	if !sum.HouseMoney {
		t.Error("HouseMoney = false, want true when withdrawals exceed deposits")
	}
	if sum.RORKnown {
		t.Error("RORKnown = true, want false on negative net deposits")
	}
}

func TestNewSummary_UnknownWindow(t *testing.T) {
	s := NewSnapshot(newTestLedger(depositRow("2024-01-02", 1000)), false)
	if _, err := NewSummary(s, "bogus"); err == nil {
		t.Error("NewSummary(bogus) error = nil, want one")
	}
}
