package wheelhouse

import "testing"

func collectRealized(l *Ledger, ticker string) []Realized {
	var events []Realized
	for e := range RealizedEquityEvents(l, ticker) {
		events = append(events, e)
	}
	return events
}

func TestRealizedEquityEvents_SimpleRoundTrip(t *testing.T) {
	l := newTestLedger(
		buyShares("2024-01-02", "F", 100, -1000),
		sellShares("2024-02-15", "F", 100, 1200),
	)

	events := collectRealized(l, "F")
	if len(events) != 1 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 1", len(events))
	}
	e := events[0]
	if !e.Time.Equal(at("2024-02-15")) {
		t.Errorf("event time = %v, want sell time", e.Time)
	}
	if !e.Proceeds.Equal(USD(1200)) {
		t.Errorf("Proceeds = %v, want $1200", e.Proceeds)
	}
	if !e.Cost.Equal(USD(1000)) {
		t.Errorf("Cost = %v, want $1000", e.Cost)
	}
	if !e.PnL().Equal(USD(200)) {
		t.Errorf("PnL() = %v, want $200", e.PnL())
	}
}

func TestRealizedEquityEvents_FIFOAcrossLots(t *testing.T) {
	// Two lots at different prices; a sell spanning both must consume the
	// oldest lot first.
	l := newTestLedger(
		buyShares("2024-01-02", "F", 100, -1000), // $10/sh
		buyShares("2024-01-10", "F", 100, -2000), // $20/sh
		sellShares("2024-02-01", "F", 150, 2250), // $15/sh
		sellShares("2024-03-01", "F", 50, 1250),  // $25/sh
	)

	events := collectRealized(l, "F")
	if len(events) != 2 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 2", len(events))
	}
	// 100 @ $10 + 50 @ $20 = $2000 cost against $2250 proceeds.
	if !events[0].Cost.Equal(USD(2000)) {
		t.Errorf("first Cost = %v, want $2000", events[0].Cost)
	}
	if !events[0].PnL().Equal(USD(250)) {
		t.Errorf("first PnL() = %v, want $250", events[0].PnL())
	}
	// Remaining 50 @ $20 against $1250.
	if !events[1].Cost.Equal(USD(1000)) {
		t.Errorf("second Cost = %v, want $1000", events[1].Cost)
	}
	if !events[1].PnL().Equal(USD(250)) {
		t.Errorf("second PnL() = %v, want $250", events[1].PnL())
	}
	if got := EquityRealizedPnL(l, "F"); !got.Equal(USD(500)) {
		t.Errorf("EquityRealizedPnL() = %v, want $500", got)
	}
}

func TestRealizedEquityEvents_ShortThenCover(t *testing.T) {
	// A sell into an empty book realizes nothing; the covering buy does,
	// one event per short lot consumed.
	l := newTestLedger(
		sellShares("2024-01-02", "GME", 50, 1000), // short 50 @ $20
		sellShares("2024-01-05", "GME", 50, 1100), // short 50 @ $22
		buyShares("2024-01-20", "GME", 100, -1800), // cover @ $18
	)

	events := collectRealized(l, "GME")
	if len(events) != 2 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 2", len(events))
	}
	for i, e := range events {
		if !e.Time.Equal(at("2024-01-20")) {
			t.Errorf("event %d time = %v, want cover time", i, e.Time)
		}
	}
	if !events[0].Proceeds.Equal(USD(1000)) || !events[0].Cost.Equal(USD(900)) {
		t.Errorf("first event = %v/%v, want $1000 proceeds over $900 cost",
			events[0].Proceeds, events[0].Cost)
	}
	if !events[1].PnL().Equal(USD(200)) {
		t.Errorf("second PnL() = %v, want $200", events[1].PnL())
	}
	if got := EquityRealizedPnL(l, "GME"); !got.Equal(USD(300)) {
		t.Errorf("EquityRealizedPnL() = %v, want $300", got)
	}
}

func TestRealizedEquityEvents_OversellRealizesMatchedPortion(t *testing.T) {
	// Selling more than held realizes only the matched shares; the excess
	// opens a short lot settled by the next buy.
	l := newTestLedger(
		buyShares("2024-01-02", "F", 100, -1000),  // $10/sh
		sellShares("2024-02-01", "F", 150, 1800),  // $12/sh, 50 short
		buyShares("2024-02-10", "F", 50, -550),    // cover @ $11
	)

	events := collectRealized(l, "F")
	if len(events) != 2 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 2", len(events))
	}
	// Matched portion: 100 sold @ $12 against $1000 cost.
	if !events[0].Proceeds.Equal(USD(1200)) {
		t.Errorf("oversell Proceeds = %v, want $1200 for the matched 100 shares", events[0].Proceeds)
	}
	if !events[0].PnL().Equal(USD(200)) {
		t.Errorf("oversell PnL() = %v, want $200", events[0].PnL())
	}
	// Short residue: 50 @ $12 covered at $11.
	if !events[1].Proceeds.Equal(USD(600)) || !events[1].Cost.Equal(USD(550)) {
		t.Errorf("cover event = %v/%v, want $600 proceeds over $550 cost",
			events[1].Proceeds, events[1].Cost)
	}
}

func TestRealizedEquityEvents_IgnoresOtherRows(t *testing.T) {
	l := newTestLedger(
		buyShares("2024-01-02", "F", 100, -1000),
		buyShares("2024-01-03", "GME", 10, -250),
		sto("2024-01-04", "F", "PUT", 10, "2024-02-16", -1, 50, "#1"),
		dividendRow("2024-01-05", "F", 15),
		sellShares("2024-02-01", "F", 100, 1100),
		sellShares("2024-02-02", "GME", 10, 300),
	)

	if got := EquityRealizedPnL(l, "F"); !got.Equal(USD(100)) {
		t.Errorf("EquityRealizedPnL(F) = %v, want $100", got)
	}
	if got := EquityRealizedPnL(l, "GME"); !got.Equal(USD(50)) {
		t.Errorf("EquityRealizedPnL(GME) = %v, want $50", got)
	}
}

func TestRealizedEquityEvents_AssignedSharesEnterBook(t *testing.T) {
	// Shares delivered by assignment are receive/deliver rows, not trades,
	// but still build cost basis for later sells.
	l := newTestLedger(
		assignedShares("2024-01-19", "SOFI", 100, -800),
		sellShares("2024-03-01", "SOFI", 100, 900),
	)

	events := collectRealized(l, "SOFI")
	if len(events) != 1 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 1", len(events))
	}
	if !events[0].Cost.Equal(USD(800)) {
		t.Errorf("Cost = %v, want $800 assignment basis", events[0].Cost)
	}
	if !events[0].PnL().Equal(USD(100)) {
		t.Errorf("PnL() = %v, want $100", events[0].PnL())
	}
}

func TestRealizedEquityEvents_FractionalResidue(t *testing.T) {
	// Dividend reinvestment leaves fractional lots; residues under a
	// billionth of a share must not linger as phantom inventory.
	l := newTestLedger(
		buyShares("2024-01-02", "O", 10.5, -525),   // $50/sh
		sellShares("2024-02-01", "O", 10.5, 577.5), // $55/sh
	)

	events := collectRealized(l, "O")
	if len(events) != 1 {
		t.Fatalf("RealizedEquityEvents yielded %d events, want 1", len(events))
	}
	if !events[0].PnL().Equal(USD(52.5)) {
		t.Errorf("PnL() = %v, want $52.50", events[0].PnL())
	}

	// The book is empty: a later sell has nothing to match.
	l.Append(sellShares("2024-03-01", "O", 5, 300))
	if got := len(collectRealized(l, "O")); got != 1 {
		t.Errorf("after oversell on empty book got %d events, want still 1", got)
	}
}

func TestEquityRealizedPnL_EmptyAndUnmatched(t *testing.T) {
	l := newTestLedger(
		buyShares("2024-01-02", "F", 100, -1000),
	)
	if got := EquityRealizedPnL(l, "F"); !got.IsZero() {
		t.Errorf("EquityRealizedPnL() with only open lots = %v, want zero", got)
	}
	if got := EquityRealizedPnL(l, "MSFT"); !got.IsZero() {
		t.Errorf("EquityRealizedPnL() for absent ticker = %v, want zero", got)
	}
}
