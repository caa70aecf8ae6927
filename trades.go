package wheelhouse

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/etnz/wheelhouse/date"
)

// knownIndexes are cash-settled index roots. A naked short on these uses the
// premium received as its capital-at-risk proxy: they are margin based, and
// strike times 100 is meaningless at SPX or NDX strike levels. An explicit
// list avoids tripping on high-priced equities like MSTR or AVGO.
var knownIndexes = map[string]bool{
	"SPX": true, "SPXW": true, "NDX": true, "RUT": true, "VIX": true,
	"XSP": true, "NANOS": true, "DJX": true, "OEX": true,
}

// annReturnCap clamps annualized returns to plus or minus 500%. Zero-DTE
// trades divide by a single day and would otherwise dominate every average.
const annReturnCap = 500.0

// ClosedTrade is one fully closed option trade: all legs sharing an opening
// order, grouped transitively across rolls, with no contracts left open on
// any leg.
type ClosedTrade struct {
	Ticker      string
	Strategy    string
	Type        string // Call, Put or Mixed
	Spread      bool   // has at least one long opening leg
	IsCredit    bool
	DaysHeld    int
	Open        time.Time
	Close       time.Time
	Premium     Money // net opening credit, negative when a debit was paid
	NetPnL      Money
	Capture     *Percent // P/L as a share of the opening credit, nil without one
	CapitalRisk Money
	AnnReturn   Percent
	PremPerDay  *Money // credit trades only
	Won         bool
	DTEOpen     *int // days to the first opening leg's expiration, nil when unknown
	CloseReason string
}

func (t *ClosedTrade) OpenDate() date.Date { return date.FromTime(t.Open) }

func (t *ClosedTrade) CloseDate() date.Date { return date.FromTime(t.Close) }

// BuildClosedTrades groups option legs into trades by shared opening order,
// keeps the groups whose every leg nets to zero contracts, and classifies
// each into a strategy with its capital at risk.
//
// campaignWindows maps tickers to their share-holding intervals, end
// inclusive; short calls and strangles opened inside one are the covered
// variants of their strategy.
func BuildClosedTrades(l *Ledger, campaignWindows map[string][]Window) []ClosedTrade {
	var opts []Row
	for _, r := range l.Rows(OptionRows) {
		opts = append(opts, r)
	}

	symbolNet := make(map[string]Quantity)
	for _, r := range opts {
		symbolNet[r.Symbol] = symbolNet[r.Symbol].Add(r.SignedQty)
	}
	// Every symbol with an opening leg takes part, even with no order id: it
	// just forms a single-leg group of its own.
	symbolOrders := make(map[string][]string)
	for _, r := range opts {
		if !r.Sub.Opening() {
			continue
		}
		if _, ok := symbolOrders[r.Symbol]; !ok {
			symbolOrders[r.Symbol] = nil
		}
		if r.Order != "" && !slices.Contains(symbolOrders[r.Symbol], r.Order) {
			symbolOrders[r.Symbol] = append(symbolOrders[r.Symbol], r.Order)
		}
	}

	var trades []ClosedTrade
	for _, syms := range groupSymbolsByOrder(symbolOrders) {
		inGroup := make(map[string]bool, len(syms))
		allClosed := true
		for _, s := range syms {
			inGroup[s] = true
			if symbolNet[s].Abs().GreaterThanOrEqual(shareEpsilon) {
				allClosed = false
			}
		}
		if !allClosed {
			continue
		}
		var grp, opens []Row
		for _, r := range opts {
			if !inGroup[r.Symbol] {
				continue
			}
			grp = append(grp, r)
			if r.Sub.Opening() {
				opens = append(opens, r)
			}
		}
		if len(opens) == 0 {
			continue
		}
		trades = append(trades, classifyTrade(grp, opens, campaignWindows))
	}

	slices.SortFunc(trades, func(a, b ClosedTrade) int {
		if c := a.Open.Compare(b.Open); c != 0 {
			return c
		}
		if c := a.Close.Compare(b.Close); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return trades
}

// classifyTrade names the strategy of one closed leg group and estimates the
// capital it put at risk. grp and opens are in time order.
func classifyTrade(grp, opens []Row, campaignWindows map[string][]Window) ClosedTrade {
	openCredit := sumTotal(opens)
	netPnL := sumTotal(grp)
	openTime := opens[0].Time
	closeTime := grp[len(grp)-1].Time
	daysHeld := int(closeTime.Sub(openTime) / (24 * time.Hour))
	if daysHeld < 1 {
		daysHeld = 1
	}
	ticker := grp[0].Ticker

	cp := "Mixed"
	if vals := uniqueCallPuts(grp); len(vals) == 1 {
		cp = vals[0]
	}

	var shortOpens, longOpens []Row
	for _, r := range opens {
		if r.SignedQty.IsPositive() {
			longOpens = append(longOpens, r)
		} else if r.SignedQty.IsNegative() {
			shortOpens = append(shortOpens, r)
		}
	}

	isCredit := openCredit.IsPositive()
	credit := math.Abs(openCredit.AsFloat())

	var strategy string
	var risk float64
	if len(longOpens) > 0 {
		strategy, risk = classifySpread(grp, shortOpens, longOpens, credit, isCredit)
	} else {
		strategy, risk = classifyNaked(grp, opens, shortOpens, longOpens, ticker, openTime, credit, isCredit, campaignWindows)
	}

	t := ClosedTrade{
		Ticker:      ticker,
		Strategy:    strategy,
		Type:        "Mixed",
		Spread:      len(longOpens) > 0,
		IsCredit:    isCredit,
		DaysHeld:    daysHeld,
		Open:        openTime,
		Close:       closeTime,
		Premium:     openCredit,
		NetPnL:      netPnL,
		CapitalRisk: USD(risk),
		Won:         netPnL.IsPositive(),
		CloseReason: closeReason(grp),
	}
	if strings.Contains(cp, "CALL") {
		t.Type = "Call"
	} else if strings.Contains(cp, "PUT") {
		t.Type = "Put"
	}
	if credit > 0 {
		capture := Percent(netPnL.AsFloat() / credit * 100)
		t.Capture = &capture
	}
	if risk > 0 {
		ann := netPnL.AsFloat() / risk * 365 / float64(daysHeld) * 100
		t.AnnReturn = Percent(math.Max(math.Min(ann, annReturnCap), -annReturnCap))
	}
	if isCredit {
		perDay := openCredit.Div(Q(daysHeld))
		t.PremPerDay = &perDay
	}
	for _, r := range opens {
		if r.Expiration.IsZero() {
			continue
		}
		exp := time.Date(r.Expiration.Year(), r.Expiration.Month(), r.Expiration.Day(), 0, 0, 0, 0, time.UTC)
		dte := int(exp.Sub(openTime) / (24 * time.Hour))
		if dte < 0 {
			dte = 0
		}
		t.DTEOpen = &dte
		break
	}
	return t
}

// classifySpread handles trades with at least one long opening leg. The
// naked-long case is checked first: a single-strike long has zero wing width
// on both sides and would otherwise fall through to the put spread branch
// with a one dollar risk.
func classifySpread(grp, shortOpens, longOpens []Row, credit float64, isCredit bool) (string, float64) {
	callStrikes := strikesFor(grp, "CALL")
	putStrikes := strikesFor(grp, "PUT")
	wCall := spreadWidth(callStrikes)
	wPut := spreadWidth(putStrikes)
	strikesAll := uniqueStrikes(grp)
	expirations := uniqueExpirationCount(grp)

	shortQty := sumSigned(shortOpens).Abs()
	longQty := sumSigned(longOpens)
	isButterfly := len(longOpens) == 2 && len(shortOpens) == 1 &&
		shortQty.Equal(Q(2)) && longQty.Equal(Q(2)) &&
		len(strikesAll) == 3 && expirations == 1

	shortCP := callPuts(shortOpens)
	longCP := callPuts(longOpens)
	shortPutOnly := anyContains(shortCP, "PUT") && !anyContains(longCP, "PUT")
	callSpreadLeg := anyContains(shortCP, "CALL") && anyContains(longCP, "CALL")
	isJadeLizard := shortPutOnly && callSpreadLeg && len(putStrikes) == 1
	isCalendar := expirations >= 2 && len(strikesAll) == 1

	switch {
	case len(shortOpens) == 0:
		hasLC := anyContains(longCP, "CALL")
		hasLP := anyContains(longCP, "PUT")
		switch {
		case hasLC && !hasLP:
			return "Long Call", math.Max(credit, 1)
		case hasLP && !hasLC:
			return "Long Put", math.Max(credit, 1)
		}
		// Max loss on a long option is the premium paid.
		return "Long Strangle", math.Max(credit, 1)

	case isButterfly:
		name := "Put Butterfly"
		if len(uniqueFloats(callStrikes)) == 3 {
			name = "Call Butterfly"
		}
		wing := (slices.Max(strikesAll) - slices.Min(strikesAll)) * 100 / 2
		return name, math.Max(math.Max(credit, wing), 1)

	case isJadeLizard:
		// The naked short put carries the real downside; the call side is a
		// defined-width spread.
		return "Jade Lizard", math.Max(putStrikes[0]*100-credit, 1)

	case isCalendar:
		return "Calendar Spread", math.Max(credit, 1)

	case wCall > 0 && wPut > 0:
		return "Iron Condor", math.Max(math.Max(wCall, wPut)-credit, 1)

	case wCall > 0:
		if isCredit {
			return "Call Credit Spread", math.Max(wCall-credit, 1)
		}
		return "Call Debit Spread", math.Max(credit, 1)

	default:
		if isCredit {
			return "Put Credit Spread", math.Max(wPut-credit, 1)
		}
		return "Put Debit Spread", math.Max(credit, 1)
	}
}

// classifyNaked handles trades with no long opening leg: outright shorts,
// straddles and strangles, and longs that closed without ever going short.
func classifyNaked(grp, opens, shortOpens, longOpens []Row, ticker string, openTime time.Time, credit float64, isCredit bool, campaignWindows map[string][]Window) (string, float64) {
	var risk float64
	if fields := strings.Fields(strings.ToUpper(ticker)); len(fields) > 0 && knownIndexes[fields[0]] {
		risk = math.Max(credit, 1)
	} else {
		// Theoretical max loss on a naked equity short: underlying to zero.
		var maxStrike float64
		for _, s := range uniqueStrikes(grp) {
			maxStrike = math.Max(maxStrike, s)
		}
		risk = math.Max(maxStrike*100, 1)
	}

	shortCP := uniqueCallPuts(shortOpens)
	longCP := uniqueCallPuts(longOpens)
	hasSC := anyContains(shortCP, "CALL")
	hasSP := anyContains(shortCP, "PUT")
	hasLC := anyContains(longCP, "CALL")
	hasLP := anyContains(longCP, "PUT")
	contracts := int(sumSigned(opens).Abs().AsFloat())
	inCampaign := inAnyWindowInclusive(campaignWindows[ticker], openTime)

	if !isCredit {
		switch {
		case hasLC && !hasLP:
			return "Long Call", risk
		case hasLP && !hasLC:
			return "Long Put", risk
		}
		return "Long Strangle", risk
	}
	switch {
	case hasSC && hasSP:
		name := "Short Strangle"
		if len(uniqueStrikes(grp)) == 1 {
			name = "Short Straddle"
		}
		if inCampaign {
			name = strings.Replace(name, "Short", "Covered", 1)
		}
		return name, risk
	case hasSC:
		if inCampaign {
			return "Covered Call", risk
		}
		if contracts == 1 {
			return "Short Call", risk
		}
		return fmt.Sprintf("Short Call (x%d)", contracts), risk
	case hasSP:
		if contracts == 1 {
			return "Short Put", risk
		}
		return fmt.Sprintf("Short Put (x%d)", contracts), risk
	}
	return "Short (other)", risk
}

// closeReason summarizes how the trade ended, expiry winning over assignment
// over exercise over an ordinary buyback.
func closeReason(grp []Row) string {
	var subs []string
	for _, r := range grp {
		s := strings.ToLower(r.SubType)
		if s == "" || strings.Contains(s, "to open") {
			continue
		}
		if !slices.Contains(subs, s) {
			subs = append(subs, s)
		}
	}
	switch {
	case anyContains(subs, "expir"):
		return "⏹️ Expired"
	case anyContains(subs, "assign"):
		return "📋 Assigned"
	case anyContains(subs, "exercise"):
		return "🏋️ Exercised"
	}
	return "✂️ Closed"
}

func inAnyWindowInclusive(windows []Window, t time.Time) bool {
	for _, w := range windows {
		if !t.Before(w.From) && !t.After(w.To) {
			return true
		}
	}
	return false
}

func sumTotal(rows []Row) Money {
	var total Money
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}

func sumSigned(rows []Row) Quantity {
	var total Quantity
	for _, r := range rows {
		total = total.Add(r.SignedQty)
	}
	return total
}

// strikesFor lists the strikes of one side's rows, sorted, duplicates kept.
func strikesFor(rows []Row, side string) []float64 {
	var strikes []float64
	for _, r := range rows {
		if strings.Contains(strings.ToUpper(r.CallPut), side) && r.HasStrike() {
			strikes = append(strikes, r.Strike.AsFloat())
		}
	}
	slices.Sort(strikes)
	return strikes
}

// spreadWidth is the strike span in dollars of risk per contract. A single
// strike, even repeated, has no width.
func spreadWidth(strikes []float64) float64 {
	if len(strikes) < 2 {
		return 0
	}
	return (strikes[len(strikes)-1] - strikes[0]) * 100
}

func uniqueStrikes(rows []Row) []float64 {
	var strikes []float64
	for _, r := range rows {
		if r.HasStrike() {
			strikes = append(strikes, r.Strike.AsFloat())
		}
	}
	return uniqueFloats(strikes)
}

func uniqueFloats(vals []float64) []float64 {
	var out []float64
	for _, v := range vals {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func uniqueExpirationCount(rows []Row) int {
	seen := make(map[date.Date]bool)
	for _, r := range rows {
		if !r.Expiration.IsZero() {
			seen[r.Expiration] = true
		}
	}
	return len(seen)
}

// callPuts lists the non-empty Call or Put values in upper case, duplicates
// kept.
func callPuts(rows []Row) []string {
	var vals []string
	for _, r := range rows {
		if r.CallPut != "" {
			vals = append(vals, strings.ToUpper(r.CallPut))
		}
	}
	return vals
}

func uniqueCallPuts(rows []Row) []string {
	var vals []string
	for _, r := range rows {
		if r.CallPut == "" {
			continue
		}
		v := strings.ToUpper(r.CallPut)
		if !slices.Contains(vals, v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func anyContains(vals []string, sub string) bool {
	for _, v := range vals {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}
