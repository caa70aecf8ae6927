package wheelhouse

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SplitEvent is a detected stock split: a zero-Total Receive Deliver removal
// carrying a split keyword paired with a matching addition on the same ticker
// and instant. Ratio is post/pre, e.g. 2 for a 2-for-1 forward split.
type SplitEvent struct {
	Ticker  string
	Time    time.Time
	Ratio   Quantity
	PreQty  Quantity
	PostQty Quantity
}

// Label renders the split in the usual broker notation.
func (e SplitEvent) Label() string {
	ratio := e.Ratio.AsFloat()
	if ratio > 1 {
		return fmt.Sprintf("%.0f:1 forward split", ratio)
	}
	return fmt.Sprintf("1:%.0f reverse split", 1/ratio)
}

// ZeroCostRow is a zero-Total share delivery not matched to a split pair and
// not an assignment: spin-offs, ACATS transfers, merger conversions. The $0
// basis means P/L on the eventual sale is overstated until corrected, so
// these are surfaced as warnings.
type ZeroCostRow struct {
	Ticker      string
	Time        time.Time
	Quantity    Quantity
	Description string
}

// DetectCorporateActions scans the ledger for corporate actions that affect
// cost-basis correctness. It must run after signed quantities are assigned
// and the ledger is sorted.
func DetectCorporateActions(l *Ledger) ([]SplitEvent, []ZeroCostRow) {
	// Candidates are the zero-Total share deliveries.
	var candidates []Row
	for _, r := range l.Rows() {
		if r.Type == TypeReceiveDeliver && r.IsShare() && r.Total.IsZero() {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Pair split removals with split additions on the same ticker and instant.
	type key struct {
		ticker string
		when   time.Time
	}
	type group struct {
		pre, post               Quantity
		hasRemoval, hasAddition bool
	}
	groups := make(map[key]*group)
	for _, r := range candidates {
		dsc := strings.ToUpper(r.Description)
		if !matchesSplitPattern(dsc) {
			continue
		}
		k := key{r.Ticker, r.Time}
		g := groups[k]
		if g == nil {
			g = &group{}
			groups[k] = g
		}
		if strings.Contains(dsc, "REMOVAL") {
			g.pre = g.pre.Add(r.Quantity)
			g.hasRemoval = true
		} else {
			g.post = g.post.Add(r.Quantity)
			g.hasAddition = true
		}
	}

	paired := make(map[key]bool)
	var events []SplitEvent
	for k, g := range groups {
		if g.hasRemoval && g.hasAddition && g.pre.IsPositive() {
			events = append(events, SplitEvent{
				Ticker:  k.ticker,
				Time:    k.when,
				Ratio:   g.post.Div(g.pre).Round(6),
				PreQty:  g.pre,
				PostQty: g.post,
			})
			paired[k] = true
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Ticker != events[j].Ticker {
			return events[i].Ticker < events[j].Ticker
		}
		return events[i].Time.Before(events[j].Time)
	})

	// Whatever delivery is left is a zero-cost warning, except assignments
	// (their basis is the strike, accounted for elsewhere).
	var zeroCost []ZeroCostRow
	for _, r := range candidates {
		dsc := strings.ToUpper(r.Description)
		if matchesSplitPattern(dsc) && paired[key{r.Ticker, r.Time}] {
			continue
		}
		if strings.Contains(dsc, "ASSIGNMENT") {
			continue
		}
		if r.Quantity.IsPositive() {
			zeroCost = append(zeroCost, ZeroCostRow{
				Ticker:      r.Ticker,
				Time:        r.Time,
				Quantity:    r.Quantity,
				Description: truncate(r.Description, 80),
			})
		}
	}

	return events, zeroCost
}

// ApplySplitAdjustments rescales pre-split equity lot quantities in place so
// the lot matcher sees post-split share counts. Total is unchanged, so the
// per-share basis scales inversely. The split rows themselves carry a zero
// signed quantity and are untouched.
//
// Option strikes are not adjusted: the broker issues new symbols for
// post-split contracts.
func ApplySplitAdjustments(l *Ledger, events []SplitEvent) {
	for _, ev := range events {
		for i := range l.rows {
			r := &l.rows[i]
			if r.Ticker != ev.Ticker || !r.IsShare() || !r.Time.Before(ev.Time) || r.SignedQty.IsZero() {
				continue
			}
			r.Quantity = r.Quantity.Mul(ev.Ratio).Round(fifoRound)
			r.SignedQty = r.SignedQty.Mul(ev.Ratio).Round(fifoRound)
		}
	}
}

// truncate returns s cut to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
