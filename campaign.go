package wheelhouse

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/wheelhouse/date"
)

// wheelMinShares is the smallest share count that counts as a wheel entry: a
// full covered-call lot.
var wheelMinShares = Q(100)

// shareEpsilon absorbs fractional-share dust when deciding whether a
// campaign position is effectively flat.
var shareEpsilon = Q(decimal.New(1, -3))

// Campaign is one continuous share-holding period of a ticker: entered by a
// buy or assignment of at least a full lot, closed when the share count
// returns to zero. Option premium and dividends collected while it is open
// are attributed to it.
type Campaign struct {
	Ticker       string
	Shares       Quantity // current share count, updated on adds, exits and splits
	Cost         Money    // cash paid to acquire the shares, never negative
	BlendedBasis Money    // Cost / Shares
	Premiums     Money    // net option premium while open, can be negative
	Dividends    Money
	ExitProceeds Money
	Start        time.Time
	End          time.Time // zero while open
	Lifetime     bool
	Events       []CampaignEvent
}

// CampaignEvent is one line of a campaign's timeline.
type CampaignEvent struct {
	Time   time.Time
	Type   string
	Detail string
	Cash   Money
}

func (e CampaignEvent) Date() date.Date { return date.FromTime(e.Time) }

func (c *Campaign) Closed() bool { return !c.End.IsZero() }

func (c *Campaign) Status() string {
	if c.Closed() {
		return "closed"
	}
	return "open"
}

func (c *Campaign) StartDate() date.Date { return date.FromTime(c.Start) }

func (c *Campaign) EndDate() date.Date { return date.FromTime(c.End) }

// Window is the campaign's holding interval. The end is exclusive and zero
// while the campaign is open.
func (c *Campaign) Window() Window { return Window{From: c.Start, To: c.End} }

// EffectiveBasis is the cost per share after netting collected premium and
// dividends against the purchase cost. A lifetime campaign keeps the plain
// blended basis: its premium figure spans the whole history and would
// otherwise drive the basis negative.
func (c *Campaign) EffectiveBasis() Money {
	if c.Lifetime {
		return c.BlendedBasis
	}
	if !c.Shares.IsPositive() {
		return Money{}
	}
	basis := c.Cost.Sub(c.Premiums).Sub(c.Dividends).Div(c.Shares)
	if basis.IsNegative() {
		// Premium collected beyond the purchase cost: the shares are free,
		// not a liability.
		return basis.Sub(basis)
	}
	return basis
}

// RealizedPnL is the campaign's banked result. Open campaigns count premium
// and dividends only; closed campaigns add the share exit against cost.
func (c *Campaign) RealizedPnL() Money {
	if c.Closed() && !c.Lifetime {
		return c.ExitProceeds.Add(c.Premiums).Add(c.Dividends).Sub(c.Cost)
	}
	return c.Premiums.Add(c.Dividends)
}

// BuildCampaigns replays one ticker's rows into campaigns. lifetime
// collapses the whole history into a single open campaign with no resets,
// for accounts that never fully exit.
//
// Rows at the same instant are replayed shares first, so an assignment
// delivery opens the campaign before the assigned option row is attributed.
func BuildCampaigns(l *Ledger, ticker string, lifetime bool) []*Campaign {
	var rows []Row
	for _, r := range l.Rows(ByTicker(ticker)) {
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Time.Equal(rows[j].Time) {
			return rows[i].Time.Before(rows[j].Time)
		}
		return replayOrder(rows[i]) < replayOrder(rows[j])
	})

	if lifetime {
		return lifetimeCampaign(ticker, rows)
	}

	var campaigns []*Campaign
	var current *Campaign
	var running Quantity

	for _, r := range rows {
		dsc := strings.ToUpper(r.Description)

		// A split while a campaign is open rescales its share count and
		// basis. The addition row's quantity is authoritative: earlier rows
		// were already rescaled by ApplySplitAdjustments, so running holds
		// the immediate pre-split count and the ratio falls out directly.
		if r.IsShare() && r.SignedQty.IsZero() && r.Total.IsZero() &&
			matchesSplitPattern(dsc) && !strings.Contains(dsc, "REMOVAL") && current != nil {
			splitQty := r.Quantity
			if running.GreaterThan(shareEpsilon) && splitQty.IsPositive() {
				ratio := splitQty.AsFloat() / running.AsFloat()
				running = splitQty
				current.Shares = splitQty
				current.BlendedBasis = current.Cost.Div(splitQty)
				current.Events = append(current.Events, CampaignEvent{
					Time: r.Time,
					Type: "Stock Split",
					Detail: fmt.Sprintf("%.6gx split: %.0f → %.0f shares @ $%.4f/sh basis",
						ratio, splitQty.AsFloat()/ratio, splitQty.AsFloat(), current.BlendedBasis.AsFloat()),
				})
			}
			continue
		}

		switch {
		case r.IsShare() && r.SignedQty.GreaterThanOrEqual(wheelMinShares):
			pps := r.Total.Abs().Div(r.SignedQty)
			if running.LessThan(shareEpsilon) {
				premium, arrival := findAssignmentArrival(rows, r)
				label := fmt.Sprintf("Bought %.0f @ %s/sh", r.SignedQty.AsFloat(), pps)
				if len(arrival) > 0 {
					label += " (Assigned)"
				}
				current = &Campaign{
					Ticker:       ticker,
					Shares:       r.SignedQty,
					Cost:         r.Total.Abs(),
					BlendedBasis: pps,
					Premiums:     premium,
					Start:        r.Time,
					Events:       append(arrival, CampaignEvent{Time: r.Time, Type: "Entry", Detail: label, Cash: r.Total}),
				}
				running = r.SignedQty
			} else {
				shares := running.Add(r.SignedQty)
				cost := current.Cost.Add(r.Total.Abs())
				basis := cost.Div(shares)
				current.Shares, current.Cost, current.BlendedBasis = shares, cost, basis
				running = shares
				current.Events = append(current.Events, CampaignEvent{
					Time:   r.Time,
					Type:   "Add",
					Detail: fmt.Sprintf("Added %.0f @ %s → blended %s/sh", r.SignedQty.AsFloat(), pps, basis),
					Cash:   r.Total,
				})
			}

		case r.IsShare() && r.SignedQty.IsNegative():
			if current == nil || !running.GreaterThan(shareEpsilon) {
				break
			}
			current.ExitProceeds = current.ExitProceeds.Add(r.Total)
			running = running.Add(r.SignedQty)
			pps := r.Total.Abs().Div(r.SignedQty.Abs())
			current.Events = append(current.Events, CampaignEvent{
				Time:   r.Time,
				Type:   "Exit",
				Detail: fmt.Sprintf("Sold %.0f @ %s/sh", r.SignedQty.Abs().AsFloat(), pps),
				Cash:   r.Total,
			})
			if running.LessThan(shareEpsilon) {
				current.End = r.Time
				campaigns = append(campaigns, current)
				current = nil
				running = Quantity{}
			}

		case r.IsOption() && current != nil:
			if !r.Time.Before(current.Start) {
				current.Premiums = current.Premiums.Add(r.Total)
				current.Events = append(current.Events, CampaignEvent{Time: r.Time, Type: r.SubType, Detail: truncate(r.Description, 60), Cash: r.Total})
			}

		case r.Sub == SubDividend && current != nil:
			current.Dividends = current.Dividends.Add(r.Total)
			current.Events = append(current.Events, CampaignEvent{Time: r.Time, Type: SubTypeDividend, Detail: "Dividend received", Cash: r.Total})
		}
	}

	if current != nil {
		campaigns = append(campaigns, current)
	}
	return campaigns
}

// lifetimeCampaign folds all of a ticker's history into a single open
// campaign. Cost is the net cash sunk across every row type, so partial
// exits and re-entries wash out instead of resetting the basis.
func lifetimeCampaign(ticker string, rows []Row) []*Campaign {
	var net Quantity
	for _, r := range rows {
		if r.IsShare() {
			net = net.Add(r.SignedQty)
		}
	}
	if !net.GreaterThanOrEqual(wheelMinShares) {
		return nil
	}

	c := &Campaign{Ticker: ticker, Lifetime: true, Shares: net, Start: rows[0].Time}
	var netCash Money
	for _, r := range rows {
		switch {
		case r.IsShare():
			if r.SignedQty.IsPositive() {
				c.Events = append(c.Events, CampaignEvent{Time: r.Time, Type: "Entry/Add", Detail: fmt.Sprintf("Bought %s shares", r.SignedQty), Cash: r.Total})
			} else {
				c.Events = append(c.Events, CampaignEvent{Time: r.Time, Type: "Exit", Detail: fmt.Sprintf("Sold %s shares", r.SignedQty.Abs()), Cash: r.Total})
			}
		case r.IsOption():
			if !r.Time.Before(c.Start) {
				c.Premiums = c.Premiums.Add(r.Total)
				c.Events = append(c.Events, CampaignEvent{Time: r.Time, Type: r.SubType, Detail: truncate(r.Description, 60), Cash: r.Total})
			}
		case r.Sub == SubDividend:
			c.Dividends = c.Dividends.Add(r.Total)
			c.Events = append(c.Events, CampaignEvent{Time: r.Time, Type: SubTypeDividend, Detail: SubTypeDividend, Cash: r.Total})
		}
		if r.Type == TypeTrade || r.Type == TypeReceiveDeliver || r.Type == TypeMoneyMovement {
			netCash = netCash.Add(r.Total)
		}
	}
	if netCash.IsNegative() {
		c.Cost = netCash.Abs()
	}
	if net.IsPositive() {
		c.BlendedBasis = c.Cost.Div(net)
	}
	return []*Campaign{c}
}

// findAssignmentArrival traces a share delivery back to the short put that
// was assigned at the same instant, and returns its sell-to-open rows as
// timeline events. The premium itself was collected before the campaign
// started and is counted by the outside-window reconciliation, so it is
// returned as zero and the events are display only.
func findAssignmentArrival(rows []Row, entry Row) (Money, []CampaignEvent) {
	var symbols []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.Time.Equal(entry.Time) && strings.EqualFold(r.SubType, "Assignment") && r.Symbol != "" && !seen[r.Symbol] {
			seen[r.Symbol] = true
			symbols = append(symbols, r.Symbol)
		}
	}
	var events []CampaignEvent
	for _, sym := range symbols {
		for _, r := range rows {
			if r.Symbol == sym && strings.EqualFold(r.SubType, "Sell to Open") && r.Time.Before(entry.Time) {
				events = append(events, CampaignEvent{Time: r.Time, Type: "Assignment Put (STO)", Detail: truncate(r.Description, 60), Cash: r.Total})
			}
		}
	}
	return Money{}, events
}

// OutsideCampaignPnL is the option cash flow of a ticker that falls outside
// every campaign window: pre-entry puts, post-exit calls, stray trades. The
// start is inclusive and a closed campaign's end is exclusive, so an option
// closed on the exit date lands outside and is not double counted as
// campaign premium.
func OutsideCampaignPnL(l *Ledger, ticker string, campaigns []*Campaign) Money {
	var total Money
	for _, r := range l.Rows() {
		if r.Ticker != ticker || !r.IsOption() {
			continue
		}
		inside := false
		for _, c := range campaigns {
			if c.Window().Contains(r.Time) {
				inside = true
				break
			}
		}
		if !inside {
			total = total.Add(r.Total)
		}
	}
	return total
}

// replayOrder breaks same-instant ties: share rows replay before option
// rows, so an assignment delivery opens its campaign before the option row
// is attributed to it.
func replayOrder(r Row) int {
	if r.IsShare() {
		return 0
	}
	return 1
}
