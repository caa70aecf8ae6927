package wheelhouse

import (
	"strings"
	"time"

	"github.com/etnz/wheelhouse/date"
)

// rollChainGapDays separates chains: flat for longer than this before the
// next sell-to-open starts a new chain instead of continuing the old one.
// Rolls land inside the gap, re-entries after a pause do not.
const rollChainGapDays = 3

// RollChain is one continuous short-premium position in a ticker's calls or
// puts, kept alive across rolls. Calls and puts are tracked as separate
// chains, so a covered strangle shows as two parallel chains and closing the
// put leaves a plain covered-call chain.
type RollChain struct {
	Ticker string
	Side   string // CALL or PUT
	Events []ChainEvent
}

// ChainEvent is one leg event of a roll chain. Long wings opened alongside
// the short are not recorded: the chain models the short-premium position
// and the wing is already part of the closed trade's P/L.
type ChainEvent struct {
	Time       time.Time
	SubType    string
	Strike     Money
	Expiration date.Date
	Qty        Quantity
	Total      Money
	Detail     string
}

func (e ChainEvent) Date() date.Date { return date.FromTime(e.Time) }

// ExpLabel formats the expiration day first, the way option chains are
// quoted.
func (e ChainEvent) ExpLabel() string {
	if e.Expiration.IsZero() {
		return ""
	}
	return e.Expiration.Format("02/01/06")
}

// Action names the leg event for display.
func (e ChainEvent) Action() string {
	sub := strings.ToLower(e.SubType)
	switch {
	case strings.Contains(sub, "to open"):
		return "↪️ Sell to Open"
	case strings.Contains(sub, "to close"):
		return "↩️ Buy to Close"
	case strings.Contains(sub, "expir"):
		return "⏹️ Expired"
	case strings.Contains(sub, "assign"):
		return "📋 Assigned"
	}
	return e.SubType
}

// DTE is the leg's days to expiration at its own trade time, -1 when there
// is no expiration. Meaningful for sell-to-open legs.
func (e ChainEvent) DTE() int {
	if e.Expiration.IsZero() {
		return -1
	}
	exp := time.Date(e.Expiration.Year(), e.Expiration.Month(), e.Expiration.Day(), 0, 0, 0, 0, time.UTC)
	d := int(exp.Sub(e.Time) / (24 * time.Hour))
	if d < 0 {
		d = 0
	}
	return d
}

// Net is the chain's cash flow to date.
func (c RollChain) Net() Money {
	var total Money
	for _, e := range c.Events {
		total = total.Add(e.Total)
	}
	return total
}

// IsOpen reports whether the chain's last leg is still open.
func (c RollChain) IsOpen() bool {
	if len(c.Events) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(c.Events[len(c.Events)-1].SubType), "to open")
}

// Rolls counts the buy-to-close legs.
func (c RollChain) Rolls() int {
	n := 0
	for _, e := range c.Events {
		if strings.Contains(strings.ToLower(e.SubType), "to close") {
			n++
		}
	}
	return n
}

// BuildRollChains groups one ticker's short option events into roll chains.
// A sell-to-open starts or extends a chain; closes, expirations and
// assignments unwind it while contracts remain; buy-to-open legs are
// skipped. When the position goes flat, a sell-to-open within
// rollChainGapDays continues the chain, a later one starts fresh.
func BuildRollChains(l *Ledger, ticker string) []RollChain {
	var chains []RollChain
	for _, side := range []string{"CALL", "PUT"} {
		var legs []Row
		for _, r := range l.Rows(ByTicker(ticker)) {
			if r.IsOption() && strings.Contains(strings.ToUpper(r.CallPut), side) {
				legs = append(legs, r)
			}
		}
		chains = append(chains, buildSideChains(ticker, side, legs)...)
	}
	return chains
}

// CampaignRollChains builds the roll chains of one campaign's holding
// window, both ends inclusive. latest bounds an open campaign.
func CampaignRollChains(l *Ledger, c *Campaign, latest time.Time) []RollChain {
	end := c.End
	if end.IsZero() {
		end = latest
	}
	var chains []RollChain
	for _, side := range []string{"CALL", "PUT"} {
		var legs []Row
		for _, r := range l.Rows(ByTicker(c.Ticker)) {
			if !r.IsOption() || !strings.Contains(strings.ToUpper(r.CallPut), side) {
				continue
			}
			if r.Time.Before(c.Start) || r.Time.After(end) {
				continue
			}
			legs = append(legs, r)
		}
		chains = append(chains, buildSideChains(c.Ticker, side, legs)...)
	}
	return chains
}

func buildSideChains(ticker, side string, legs []Row) []RollChain {
	var chains []RollChain
	var current []ChainEvent
	var net Quantity
	var lastClose time.Time

	for _, r := range legs {
		sub := strings.ToLower(r.SubType)
		ev := ChainEvent{
			Time:       r.Time,
			SubType:    r.SubType,
			Strike:     r.Strike,
			Expiration: r.Expiration,
			Qty:        r.SignedQty,
			Total:      r.Total,
			Detail:     truncate(r.Description, 55),
		}
		switch {
		case strings.Contains(sub, "to open") && r.SignedQty.IsNegative():
			if !lastClose.IsZero() && net.IsZero() &&
				int(r.Time.Sub(lastClose)/(24*time.Hour)) > rollChainGapDays && len(current) > 0 {
				chains = append(chains, RollChain{Ticker: ticker, Side: side, Events: current})
				current = nil
			}
			net = net.Add(r.SignedQty.Abs())
			current = append(current, ev)
			lastClose = time.Time{}

		case net.IsPositive() && (strings.Contains(sub, "to close") ||
			strings.Contains(sub, "expiration") || strings.Contains(sub, "assignment")):
			net = net.Sub(r.SignedQty.Abs())
			if net.IsNegative() {
				net = Quantity{}
			}
			current = append(current, ev)
			if net.IsZero() {
				lastClose = r.Time
			}
		}
	}
	if len(current) > 0 {
		chains = append(chains, RollChain{Ticker: ticker, Side: side, Events: current})
	}
	return chains
}
