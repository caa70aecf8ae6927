package wheelhouse

import (
	"strings"
	"testing"
)

// splitPair builds the two zero-cost Receive Deliver legs a broker emits for
// a stock split.
func splitPair(when, ticker string, pre, post float64) []Row {
	removal := mkRow(rowSpec{when: when, typ: TypeReceiveDeliver, sub: "Forward Split", inst: "Equity",
		symbol: ticker, under: ticker,
		desc: "Removal of " + ticker + " due to forward split", qty: pre})
	addition := mkRow(rowSpec{when: when, typ: TypeReceiveDeliver, sub: "Forward Split", inst: "Equity",
		symbol: ticker, under: ticker,
		desc: "Receive " + ticker + " due to forward split", qty: post})
	return []Row{removal, addition}
}

func TestDetectCorporateActions_ForwardSplit(t *testing.T) {
	rows := []Row{buyShares("2024-01-02", "SOUN", 200, -1000)}
	rows = append(rows, splitPair("2024-03-15", "SOUN", 200, 400)...)
	l := newTestLedger(rows...)

	splits, zero := DetectCorporateActions(l)
	if len(splits) != 1 {
		t.Fatalf("DetectCorporateActions() found %d splits, want 1", len(splits))
	}
	ev := splits[0]
	if ev.Ticker != "SOUN" {
		t.Errorf("split ticker = %q, want SOUN", ev.Ticker)
	}
	if !ev.Ratio.Equal(Q(2)) {
		t.Errorf("split ratio = %v, want 2", ev.Ratio)
	}
	if !ev.PreQty.Equal(Q(200)) || !ev.PostQty.Equal(Q(400)) {
		t.Errorf("split quantities = %v -> %v, want 200 -> 400", ev.PreQty, ev.PostQty)
	}
	if got := ev.Label(); got != "2:1 forward split" {
		t.Errorf("Label() = %q, want %q", got, "2:1 forward split")
	}
	if len(zero) != 0 {
		t.Errorf("paired split rows flagged as zero-cost: %v", zero)
	}
}

func TestDetectCorporateActions_ReverseSplitLabel(t *testing.T) {
	rows := splitPair("2024-06-03", "NKLA", 300, 10)
	for i := range rows {
		rows[i].Description = strings.Replace(rows[i].Description, "forward", "reverse", 1)
	}
	l := newTestLedger(rows...)

	splits, _ := DetectCorporateActions(l)
	if len(splits) != 1 {
		t.Fatalf("DetectCorporateActions() found %d splits, want 1", len(splits))
	}
	if got := splits[0].Label(); got != "1:30 reverse split" {
		t.Errorf("Label() = %q, want %q", got, "1:30 reverse split")
	}
}

func TestDetectCorporateActions_ZeroCostWarnings(t *testing.T) {
	spinoff := mkRow(rowSpec{when: "2024-04-01", typ: TypeReceiveDeliver, sub: "Receive Deliver", inst: "Equity",
		symbol: "WBD", under: "WBD", desc: "Receive 24 shares WBD spin-off distribution", qty: 24})
	// Assignment deliveries are costed at the strike elsewhere and stay out.
	assigned := mkRow(rowSpec{when: "2024-04-05", typ: TypeReceiveDeliver, sub: "Assignment", inst: "Equity",
		symbol: "F", under: "F", action: "BUY", desc: "Removal due to assignment", qty: 100})
	l := newTestLedger(spinoff, assigned)

	splits, zero := DetectCorporateActions(l)
	if len(splits) != 0 {
		t.Fatalf("DetectCorporateActions() found %d splits, want 0", len(splits))
	}
	if len(zero) != 1 {
		t.Fatalf("DetectCorporateActions() flagged %d zero-cost rows, want 1", len(zero))
	}
	if zero[0].Ticker != "WBD" || !zero[0].Quantity.Equal(Q(24)) {
		t.Errorf("zero-cost row = %+v, want WBD x24", zero[0])
	}
}

func TestApplySplitAdjustments(t *testing.T) {
	before := buyShares("2024-01-02", "SOUN", 200, -1000)
	after := buyShares("2024-04-01", "SOUN", 50, -300)
	other := buyShares("2024-01-02", "AAPL", 10, -1700)
	rows := []Row{before, other}
	rows = append(rows, splitPair("2024-03-15", "SOUN", 200, 400)...)
	rows = append(rows, after)
	l := newTestLedger(rows...)

	splits, _ := DetectCorporateActions(l)
	ApplySplitAdjustments(l, splits)

	var got []Row
	for _, r := range l.Rows(ShareRows) {
		if r.SignedQty.IsZero() {
			continue
		}
		got = append(got, r)
	}
	if len(got) != 3 {
		t.Fatalf("ledger has %d share trade rows, want 3", len(got))
	}
	// Pre-split lot doubles, post-split and other tickers are untouched.
	if !got[0].SignedQty.Equal(Q(400)) && !got[1].SignedQty.Equal(Q(400)) {
		t.Errorf("pre-split SOUN lot not rescaled: %v / %v", got[0].SignedQty, got[1].SignedQty)
	}
	for _, r := range got {
		switch {
		case r.Ticker == "AAPL" && !r.SignedQty.Equal(Q(10)):
			t.Errorf("AAPL lot rescaled to %v, want 10", r.SignedQty)
		case r.Ticker == "SOUN" && r.Time.Equal(at("2024-04-01")) && !r.SignedQty.Equal(Q(50)):
			t.Errorf("post-split SOUN lot rescaled to %v, want 50", r.SignedQty)
		}
	}
	// The cash total is untouched, so the per-share basis halves.
	for _, r := range got {
		if r.Ticker == "SOUN" && r.SignedQty.Equal(Q(400)) && !r.Total.Equal(USD(-1000)) {
			t.Errorf("pre-split lot total = %v, want -1000", r.Total)
		}
	}
}
