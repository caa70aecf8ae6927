package wheelhouse

import (
	"strings"
	"time"
)

// CampaignLine is one campaign prepared for display: the campaign itself
// plus the derived figures and the roll chains of its holding window.
type CampaignLine struct {
	Ticker     string
	Number     int // 1-based within the ticker
	Campaign   *Campaign
	EffBasis   Money
	PnL        Money
	DaysActive int
	Chains     []RollChain
}

// BasisReduction is how much banked premium and dividends lowered the
// break-even per share, floored at zero.
func (ln CampaignLine) BasisReduction() Money {
	red := ln.Campaign.BlendedBasis.Sub(ln.EffBasis)
	if red.IsNegative() {
		return red.Sub(red)
	}
	return red
}

// ShareEvents filters the campaign log to share and dividend entries. The
// option legs already show in the roll chains.
func (ln CampaignLine) ShareEvents() []CampaignEvent {
	var out []CampaignEvent
	for _, e := range ln.Campaign.Events {
		t := strings.ToLower(e.Type)
		if strings.Contains(t, "to open") || strings.Contains(t, "to close") ||
			strings.Contains(t, "expir") || strings.Contains(t, "assign") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CampaignsReport is the wheel tracker: every campaign of every wheeled
// ticker, ticker-sorted, oldest campaign first.
type CampaignsReport struct {
	Lifetime bool
	Latest   time.Time
	Lines    []CampaignLine
}

// NewCampaignsReport prepares the campaign tracker for display. An empty
// ticker covers every wheeled ticker.
func NewCampaignsReport(s *Snapshot, ticker string) *CampaignsReport {
	r := &CampaignsReport{Lifetime: s.Lifetime(), Latest: s.NewestTime()}
	tickers := s.WheelTickers()
	if ticker != "" {
		tickers = []string{ticker}
	}
	for _, t := range tickers {
		for i, c := range s.Campaigns(t) {
			end := c.End
			if end.IsZero() {
				end = r.Latest
			}
			r.Lines = append(r.Lines, CampaignLine{
				Ticker:     t,
				Number:     i + 1,
				Campaign:   c,
				EffBasis:   c.EffectiveBasis(),
				PnL:        c.RealizedPnL(),
				DaysActive: int(end.Sub(c.Start) / (24 * time.Hour)),
				Chains:     CampaignRollChains(s.view, c, r.Latest),
			})
		}
	}
	return r
}
