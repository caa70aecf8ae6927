package wheelhouse

import (
	"testing"

	"github.com/etnz/wheelhouse/date"
)

func pctPtr(v float64) *Percent { p := Percent(v); return &p }

func intPtr(v int) *int { return &v }

func moneyPtr(v float64) *Money { m := USD(v); return &m }

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even averages middle pair", []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.xs); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.xs, got, tt.want)
			}
		})
	}
}

func TestWindowTrades(t *testing.T) {
	trades := []ClosedTrade{
		{Strategy: "before", Close: at("2024-01-31")},
		{Strategy: "first day", Close: at("2024-02-01")},
		{Strategy: "inside", Close: at("2024-02-29")},
		{Strategy: "last day", Close: at("2024-03-01")},
	}
	w := Window{From: at("2024-02-01"), To: at("2024-03-01")}

	got := WindowTrades(trades, w)
	if len(got) != 2 {
		t.Fatalf("WindowTrades() kept %d trades, want 2", len(got))
	}
	if got[0].Strategy != "first day" || got[1].Strategy != "inside" {
		t.Errorf("WindowTrades() kept %q and %q, want the start-inclusive end-exclusive pair",
			got[0].Strategy, got[1].Strategy)
	}
}

func TestNewScorecard(t *testing.T) {
	credit := []ClosedTrade{
		{Won: true, NetPnL: USD(50), Premium: USD(100), DaysHeld: 10,
			AnnReturn: 40, Capture: pctPtr(50), PremPerDay: moneyPtr(10)},
		{Won: true, NetPnL: USD(30), Premium: USD(60), DaysHeld: 20,
			AnnReturn: 20, Capture: pctPtr(80), PremPerDay: moneyPtr(3)},
		{Won: false, NetPnL: USD(-40), Premium: USD(40), DaysHeld: 30,
			AnnReturn: -60, Capture: pctPtr(-200), PremPerDay: moneyPtr(2)},
	}

	sc := newScorecard(credit, 20)

	if sc.Trades != 3 {
		t.Errorf("Trades = %d, want 3", sc.Trades)
	}
	if want := Percent(2.0 / 3.0 * 100); !sc.WinRate.Equal(want) {
		t.Errorf("WinRate = %v, want %v", sc.WinRate, want)
	}
	if want := Percent(50); !sc.MedianCapture.Equal(want) {
		t.Errorf("MedianCapture = %v, want %v", sc.MedianCapture, want)
	}
	if sc.MedianDays != 20 {
		t.Errorf("MedianDays = %v, want 20", sc.MedianDays)
	}
	if want := Percent(20); !sc.MedianAnnRet.Equal(want) {
		t.Errorf("MedianAnnRet = %v, want %v", sc.MedianAnnRet, want)
	}
	if want := USD(3); !sc.MedianPremDay.Equal(want) {
		t.Errorf("MedianPremDay = %s, want %s", sc.MedianPremDay, want)
	}
	// Net 40 and gross 200 over the 20-day window.
	if want := USD(2); !sc.BankedPerDay.Equal(want) {
		t.Errorf("BankedPerDay = %s, want %s", sc.BankedPerDay, want)
	}
	if want := USD(10); !sc.GrossPerDay.Equal(want) {
		t.Errorf("GrossPerDay = %s, want %s", sc.GrossPerDay, want)
	}
}

func TestCaptureDistribution(t *testing.T) {
	credit := []ClosedTrade{
		{Capture: pctPtr(-5)},
		{Capture: pctPtr(0)},
		{Capture: pctPtr(20)},
		{Capture: pctPtr(25)},
		{Capture: pctPtr(60)},
		{Capture: pctPtr(100)},
		{Capture: pctPtr(150)},
		{Capture: nil},
	}

	got := captureDistribution(credit)
	wantCounts := map[string]int{
		"Loss": 2, "0-25%": 2, "25-50%": 0, "50-75%": 1, "75-100%": 1, ">100%": 1,
	}
	if len(got) != len(wantCounts) {
		t.Fatalf("captureDistribution() returned %d buckets, want %d", len(got), len(wantCounts))
	}
	for _, b := range got {
		if b.Trades != wantCounts[b.Label] {
			t.Errorf("bucket %q = %d trades, want %d", b.Label, b.Trades, wantCounts[b.Label])
		}
	}
}

func TestRollupBy(t *testing.T) {
	trades := []ClosedTrade{
		{Strategy: "Short Put", Type: "Put", Won: true, NetPnL: USD(100), DaysHeld: 10,
			Capture: pctPtr(50), DTEOpen: intPtr(30), PremPerDay: moneyPtr(4)},
		{Strategy: "Short Put", Type: "Put", Won: false, NetPnL: USD(-20), DaysHeld: 20,
			PremPerDay: moneyPtr(6)},
		{Strategy: "Long Call", Type: "Call", Won: true, NetPnL: USD(10), DaysHeld: 5,
			DTEOpen: intPtr(45)},
	}

	t.Run("by strategy", func(t *testing.T) {
		got := rollupBy(trades, func(t ClosedTrade) string { return t.Strategy }, false)
		if len(got) != 2 {
			t.Fatalf("rollupBy() returned %d groups, want 2", len(got))
		}
		// Groups come out in first-seen order.
		sp := got[0]
		if sp.Name != "Short Put" || sp.Trades != 2 {
			t.Fatalf("first group = %q (%d trades), want Short Put (2)", sp.Name, sp.Trades)
		}
		if want := Percent(50); !sp.WinRate.Equal(want) {
			t.Errorf("WinRate = %v, want %v", sp.WinRate, want)
		}
		if want := USD(80); !sp.TotalPnL.Equal(want) {
			t.Errorf("TotalPnL = %s, want %s", sp.TotalPnL, want)
		}
		if sp.MedDays != 15 {
			t.Errorf("MedDays = %v, want 15", sp.MedDays)
		}
		// Medians only cover the trades carrying the metric.
		if sp.MedCapture == nil || !sp.MedCapture.Equal(Percent(50)) {
			t.Errorf("MedCapture = %v, want 50", sp.MedCapture)
		}
		if sp.MedDTE == nil || *sp.MedDTE != 30 {
			t.Errorf("MedDTE = %v, want 30", sp.MedDTE)
		}
		if sp.AvgPremDay != nil {
			t.Errorf("AvgPremDay = %v, want nil without the premium column", sp.AvgPremDay)
		}
		lc := got[1]
		if lc.Name != "Long Call" || lc.Trades != 1 || lc.MedCapture != nil {
			t.Errorf("second group = %+v, want a single Long Call without captures", lc)
		}
	})

	t.Run("premium per day column", func(t *testing.T) {
		got := rollupBy(trades, func(t ClosedTrade) string { return t.Type }, true)
		if len(got) != 2 {
			t.Fatalf("rollupBy() returned %d groups, want 2", len(got))
		}
		put := got[0]
		if put.Name != "Put" {
			t.Fatalf("first group = %q, want Put", put.Name)
		}
		if put.AvgPremDay == nil || !put.AvgPremDay.Equal(USD(5)) {
			t.Errorf("AvgPremDay = %v, want $5.00", put.AvgPremDay)
		}
		call := got[1]
		if call.AvgPremDay != nil {
			t.Errorf("Call AvgPremDay = %v, want nil without premiums", call.AvgPremDay)
		}
	})
}

func TestTickerRollups(t *testing.T) {
	trades := []ClosedTrade{
		{Ticker: "GE", Won: true, NetPnL: USD(100), DaysHeld: 6},
		{Ticker: "F", IsCredit: true, Won: true, NetPnL: USD(100), DaysHeld: 10,
			Capture: pctPtr(40), AnnReturn: 30, Premium: USD(80)},
	}

	got := tickerRollups(trades)
	if len(got) != 2 {
		t.Fatalf("tickerRollups() returned %d rollups, want 2", len(got))
	}
	// Equal P/L ties break on ticker.
	if got[0].Ticker != "F" || got[1].Ticker != "GE" {
		t.Fatalf("order = %s, %s, want F then GE", got[0].Ticker, got[1].Ticker)
	}

	f := got[0]
	if f.TotalCredit == nil || !f.TotalCredit.Equal(USD(80)) {
		t.Errorf("F TotalCredit = %v, want $80.00", f.TotalCredit)
	}
	if f.MedCapture == nil || !f.MedCapture.Equal(Percent(40)) {
		t.Errorf("F MedCapture = %v, want 40", f.MedCapture)
	}
	if f.MedAnnRet == nil || !f.MedAnnRet.Equal(Percent(30)) {
		t.Errorf("F MedAnnRet = %v, want 30", f.MedAnnRet)
	}

	ge := got[1]
	if ge.TotalCredit != nil || ge.MedCapture != nil || ge.MedAnnRet != nil {
		t.Errorf("GE rollup = %+v, want no credit columns for a debit-only ticker", ge)
	}
}

func TestMonthRollups(t *testing.T) {
	trades := []ClosedTrade{
		{Close: at("2024-01-10"), NetPnL: USD(10)},
		{Close: at("2024-01-20"), NetPnL: USD(20)},
		{Close: at("2024-02-03"), NetPnL: USD(-5)},
	}

	got := monthRollups(trades)
	if len(got) != 2 {
		t.Fatalf("monthRollups() returned %d months, want 2", len(got))
	}
	jan := got[0]
	if jan.Month != date.New(2024, 1, 1) || jan.Trades != 2 || !jan.PnL.Equal(USD(30)) {
		t.Errorf("January rollup = %+v, want 2 trades for $30.00", jan)
	}
	feb := got[1]
	if feb.Month != date.New(2024, 2, 1) || feb.Trades != 1 || !feb.PnL.Equal(USD(-5)) {
		t.Errorf("February rollup = %+v, want 1 trade for -$5.00", feb)
	}
}

func TestBestWorst(t *testing.T) {
	trades := []ClosedTrade{
		{Strategy: "mid", NetPnL: USD(20)},
		{Strategy: "top", NetPnL: USD(100)},
		{Strategy: "bottom", NetPnL: USD(-50)},
	}

	best, worst := bestWorst(trades, 2)
	if len(best) != 2 || best[0].Strategy != "top" || best[1].Strategy != "mid" {
		t.Errorf("best = %v, want top then mid", names(best))
	}
	if len(worst) != 2 || worst[0].Strategy != "bottom" || worst[1].Strategy != "mid" {
		t.Errorf("worst = %v, want bottom then mid", names(worst))
	}

	best, worst = bestWorst(trades[:1], 5)
	if len(best) != 1 || len(worst) != 1 {
		t.Errorf("bestWorst() with one trade returned %d/%d, want 1/1", len(best), len(worst))
	}
}

func names(trades []ClosedTrade) []string {
	var out []string
	for _, t := range trades {
		out = append(out, t.Strategy)
	}
	return out
}

func TestNewTradesReport(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 100, "#1"),
		expireOpt("2024-02-16", "F", "PUT", 10, "2024-02-16", 1),
		bto("2024-03-01", "GE", "CALL", 100, "2024-04-19", 1, -50, "#2"),
		stc("2024-03-20", "GE", "CALL", 100, "2024-04-19", -1, 70, "#3"),
		depositRow("2024-06-01", 100),
	)
	s := NewSnapshot(l, false)

	t.Run("full window", func(t *testing.T) {
		r, err := NewTradesReport(s, "all")
		if err != nil {
			t.Fatalf("NewTradesReport() error = %v", err)
		}
		if r.AllTrades != 2 || len(r.Trades) != 2 || r.Fallback {
			t.Fatalf("report covers %d of %d trades (fallback %v), want all 2 directly",
				len(r.Trades), r.AllTrades, r.Fallback)
		}
		if r.Scorecard == nil {
			t.Fatal("Scorecard = nil, want one for the credit trade")
		}
		if r.Scorecard.Trades != 1 {
			t.Errorf("Scorecard.Trades = %d, want 1", r.Scorecard.Trades)
		}
		if want := Percent(100); !r.Scorecard.WinRate.Equal(want) {
			t.Errorf("WinRate = %v, want %v", r.Scorecard.WinRate, want)
		}
		if want := Percent(100); !r.Scorecard.MedianCapture.Equal(want) {
			t.Errorf("MedianCapture = %v, want %v", r.Scorecard.MedianCapture, want)
		}
		if r.Scorecard.MedianDays != 42 {
			t.Errorf("MedianDays = %v, want 42", r.Scorecard.MedianDays)
		}

		if len(r.ByType) != 1 || r.ByType[0].Name != "Put" {
			t.Errorf("ByType = %+v, want the single Put group", r.ByType)
		}
		if len(r.ByStrategy) != 2 || r.ByStrategy[0].Name != "Short Put" || r.ByStrategy[1].Name != "Long Call" {
			t.Errorf("ByStrategy order = %+v, want Short Put then Long Call", r.ByStrategy)
		}
		if len(r.ByTicker) != 2 || r.ByTicker[0].Ticker != "F" || r.ByTicker[1].Ticker != "GE" {
			t.Errorf("ByTicker order = %+v, want F then GE", r.ByTicker)
		}
		if len(r.ByMonth) != 2 || r.ByMonth[0].Month != date.New(2024, 2, 1) || r.ByMonth[1].Month != date.New(2024, 3, 1) {
			t.Errorf("ByMonth = %+v, want February then March", r.ByMonth)
		}
		if len(r.Best) != 2 || r.Best[0].Strategy != "Short Put" {
			t.Errorf("Best = %v, want the put first", names(r.Best))
		}
		if len(r.Worst) != 2 || r.Worst[0].Strategy != "Long Call" {
			t.Errorf("Worst = %v, want the call first", names(r.Worst))
		}
		for _, b := range r.CaptureDist {
			want := 0
			if b.Label == "75-100%" {
				want = 1
			}
			if b.Trades != want {
				t.Errorf("capture bucket %q = %d, want %d", b.Label, b.Trades, want)
			}
		}
	})

	t.Run("quiet window falls back", func(t *testing.T) {
		r, err := NewTradesReport(s, "7d")
		if err != nil {
			t.Fatalf("NewTradesReport() error = %v", err)
		}
		if !r.Fallback {
			t.Error("Fallback = false, want true for a window with no closed trades")
		}
		if len(r.Trades) != 2 {
			t.Errorf("fallback kept %d trades, want the full history of 2", len(r.Trades))
		}
	})

	t.Run("unknown window", func(t *testing.T) {
		if _, err := NewTradesReport(s, "bogus"); err == nil {
			t.Error("NewTradesReport(bogus) error = nil, want one")
		}
	})

	t.Run("no closed trades", func(t *testing.T) {
		open := NewSnapshot(newTestLedger(
			depositRow("2024-01-02", 100),
			sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 100, "#1"),
		), false)
		r, err := NewTradesReport(open, "all")
		if err != nil {
			t.Fatalf("NewTradesReport() error = %v", err)
		}
		if r.AllTrades != 0 || len(r.Trades) != 0 || r.Scorecard != nil || r.Fallback {
			t.Errorf("report = %+v, want an empty report without fallback", r)
		}
	})
}
