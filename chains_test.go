package wheelhouse

import "testing"

func TestBuildRollChains_SingleExpiry(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 150, "#1"),
		expireOpt("2024-02-16", "F", "PUT", 10, "2024-02-16", 1),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 1 {
		t.Fatalf("BuildRollChains() = %d chains, want 1", len(chains))
	}
	c := chains[0]
	if c.Side != "PUT" || len(c.Events) != 2 {
		t.Fatalf("chain = %s side with %d events, want PUT with 2", c.Side, len(c.Events))
	}
	if !c.Net().Equal(USD(150)) {
		t.Errorf("Net() = %v, want $150", c.Net())
	}
	if c.IsOpen() {
		t.Error("expired chain reported open")
	}
	if c.Rolls() != 0 {
		t.Errorf("Rolls() = %d, want 0, expiry is not a roll", c.Rolls())
	}

	open := c.Events[0]
	if open.Action() != "↪️ Sell to Open" {
		t.Errorf("Action() = %q", open.Action())
	}
	if open.ExpLabel() != "16/02/24" {
		t.Errorf("ExpLabel() = %q, want 16/02/24", open.ExpLabel())
	}
	if open.DTE() != 42 {
		t.Errorf("DTE() = %d, want 42", open.DTE())
	}
	if c.Events[1].Action() != "⏹️ Expired" {
		t.Errorf("closing Action() = %q", c.Events[1].Action())
	}
}

func TestBuildRollChains_RollWithinGapContinues(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 150, "#1"),
		btc("2024-01-19", "F", "PUT", 10, "2024-02-16", 1, -100, "#2"),
		sto("2024-01-20", "F", "PUT", 9, "2024-03-15", -1, 120, "#3"),
		expireOpt("2024-03-15", "F", "PUT", 9, "2024-03-15", 1),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 1 {
		t.Fatalf("BuildRollChains() = %d chains, want the roll kept in 1", len(chains))
	}
	c := chains[0]
	if len(c.Events) != 4 {
		t.Errorf("chain has %d events, want 4", len(c.Events))
	}
	if c.Rolls() != 1 {
		t.Errorf("Rolls() = %d, want 1", c.Rolls())
	}
	if !c.Net().Equal(USD(170)) {
		t.Errorf("Net() = %v, want $170", c.Net())
	}
}

func TestBuildRollChains_GapSplitsChains(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-01-19", -1, 150, "#1"),
		expireOpt("2024-01-19", "F", "PUT", 10, "2024-01-19", 1),
		sto("2024-02-10", "F", "PUT", 9, "2024-03-21", -1, 120, "#2"),
		expireOpt("2024-03-21", "F", "PUT", 9, "2024-03-21", 1),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 2 {
		t.Fatalf("BuildRollChains() = %d chains, want 2 across the gap", len(chains))
	}
	if len(chains[0].Events) != 2 || len(chains[1].Events) != 2 {
		t.Errorf("chain sizes = %d/%d, want 2/2", len(chains[0].Events), len(chains[1].Events))
	}
}

func TestBuildRollChains_GapBoundary(t *testing.T) {
	// Flat on the 19th; reopening exactly 3 days later still continues the
	// chain, one more day starts a new one.
	reopened := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-01-19", -1, 150, "#1"),
		expireOpt("2024-01-19", "F", "PUT", 10, "2024-01-19", 1),
		sto("2024-01-22", "F", "PUT", 9, "2024-02-16", -1, 120, "#2"),
	)
	if chains := BuildRollChains(reopened, "F"); len(chains) != 1 {
		t.Errorf("reopen at gap limit = %d chains, want 1", len(chains))
	}

	paused := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-01-19", -1, 150, "#1"),
		expireOpt("2024-01-19", "F", "PUT", 10, "2024-01-19", 1),
		sto("2024-01-23", "F", "PUT", 9, "2024-02-16", -1, 120, "#2"),
	)
	if chains := BuildRollChains(paused, "F"); len(chains) != 2 {
		t.Errorf("reopen past gap limit = %d chains, want 2", len(chains))
	}
}

func TestBuildRollChains_SidesAreSeparate(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 80, "#1"),
		expireOpt("2024-02-16", "F", "PUT", 10, "2024-02-16", 1),
		sto("2024-01-05", "F", "CALL", 12, "2024-02-16", -1, 70, "#1"),
		expireOpt("2024-02-16", "F", "CALL", 12, "2024-02-16", 1),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 2 {
		t.Fatalf("BuildRollChains() = %d chains, want one per side", len(chains))
	}
	if chains[0].Side != "CALL" || chains[1].Side != "PUT" {
		t.Errorf("sides = %s/%s, want CALL then PUT", chains[0].Side, chains[1].Side)
	}
}

func TestBuildRollChains_LongLegsNotRecorded(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "PUT", 10, "2024-02-16", -1, 80, "#1"),
		bto("2024-01-05", "F", "PUT", 8, "2024-02-16", 1, -30, "#1"),
		expireOpt("2024-02-16", "F", "PUT", 10, "2024-02-16", 1),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 1 {
		t.Fatalf("BuildRollChains() = %d chains, want 1", len(chains))
	}
	if len(chains[0].Events) != 2 {
		t.Errorf("chain has %d events, want 2, the long wing stays out", len(chains[0].Events))
	}
}

func TestBuildRollChains_OpenChain(t *testing.T) {
	l := newTestLedger(
		sto("2024-01-05", "F", "CALL", 12, "2024-02-16", -1, 30, "#1"),
	)

	chains := BuildRollChains(l, "F")
	if len(chains) != 1 {
		t.Fatalf("BuildRollChains() = %d chains, want 1", len(chains))
	}
	if !chains[0].IsOpen() {
		t.Error("chain with an open short reported closed")
	}
}

func TestCampaignRollChains_BoundsToWindow(t *testing.T) {
	l := newTestLedger(
		// Pre-campaign put: outside.
		sto("2024-01-15", "F", "PUT", 10, "2024-02-02", -1, 40, "#1"),
		expireOpt("2024-02-02", "F", "PUT", 10, "2024-02-02", 1),
		// Covered calls inside the window, the last leg on the exit day.
		sto("2024-02-05", "F", "CALL", 12, "2024-02-23", -1, 30, "#2"),
		btc("2024-02-20", "F", "CALL", 12, "2024-02-23", 1, -10, "#3"),
		sto("2024-02-21", "F", "CALL", 13, "2024-03-01", -1, 25, "#4"),
		expireOpt("2024-03-01", "F", "CALL", 13, "2024-03-01", 1),
		// Post-exit put: outside.
		sto("2024-03-05", "F", "PUT", 11, "2024-04-19", -1, 35, "#5"),
	)
	c := &Campaign{Ticker: "F", Start: at("2024-02-01"), End: at("2024-03-01")}

	chains := CampaignRollChains(l, c, at("2024-03-05"))
	if len(chains) != 1 {
		t.Fatalf("CampaignRollChains() = %d chains, want 1", len(chains))
	}
	ch := chains[0]
	if ch.Side != "CALL" {
		t.Errorf("Side = %s, want CALL, the puts fall outside the window", ch.Side)
	}
	if len(ch.Events) != 4 {
		t.Errorf("chain has %d events, want 4 incl. the exit-day expiry", len(ch.Events))
	}
	if !ch.Net().Equal(USD(45)) {
		t.Errorf("Net() = %v, want $45", ch.Net())
	}
}

func TestCampaignRollChains_OpenCampaignUsesLatest(t *testing.T) {
	l := newTestLedger(
		buyShares("2024-02-01", "F", 100, -1000),
		sto("2024-02-05", "F", "CALL", 12, "2024-03-15", -1, 30, "#1"),
	)
	c := &Campaign{Ticker: "F", Start: at("2024-02-01")}

	chains := CampaignRollChains(l, c, l.NewestTime())
	if len(chains) != 1 {
		t.Fatalf("CampaignRollChains() = %d chains, want 1", len(chains))
	}
	if !chains[0].IsOpen() {
		t.Error("open covered call chain reported closed")
	}
}
