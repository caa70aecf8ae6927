package wheelhouse

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/wheelhouse/date"
)

// Position is an open instrument position: all trade rows of the same
// contract netted together.
type Position struct {
	Ticker     string
	Symbol     string
	Instrument string
	CallPut    string
	Expiration date.Date
	Strike     Money
	Root       string
	Qty        Quantity
	CostBasis  Money // cash sunk into the position, negative for credits
}

// IsOption reports whether the position is an option contract.
func (p Position) IsOption() bool { return strings.Contains(p.Instrument, "Option") }

// Kind classifies the position as Long/Short Stock, Long/Short Call or Put,
// or Asset for anything else.
func (p Position) Kind() string {
	long := p.Qty.IsPositive()
	switch {
	case strings.TrimSpace(p.Instrument) == "Equity":
		if long {
			return "Long Stock"
		}
		return "Short Stock"
	case p.IsOption():
		cp := strings.ToUpper(p.CallPut)
		side := ""
		if strings.Contains(cp, "CALL") {
			side = "Call"
		} else if strings.Contains(cp, "PUT") {
			side = "Put"
		}
		if side != "" {
			if long {
				return "Long " + side
			}
			return "Short " + side
		}
	}
	return "Asset"
}

// Label is the one-line description of the position, "STO 2 @ 25P (14/03)"
// for options and "XYZ Shares" for stock.
func (p Position) Label() string {
	if !p.IsOption() {
		return fmt.Sprintf("%s Shares", p.Ticker)
	}
	exp := "N/A"
	if !p.Expiration.IsZero() {
		exp = p.Expiration.Format("02/01")
	}
	side := "P"
	if strings.Contains(strings.ToUpper(p.CallPut), "CALL") {
		side = "C"
	}
	action := "BTO"
	if p.Qty.IsNegative() {
		action = "STO"
	}
	return fmt.Sprintf("%s %d @ %.0f%s (%s)", action, int(p.Qty.Abs().AsFloat()), p.Strike.AsFloat(), side, exp)
}

// BasisLabel prints the cost basis with its direction, "$123.00 Cr" when the
// position was opened for a credit.
func (p Position) BasisLabel() string {
	side := "Db"
	if p.CostBasis.IsNegative() {
		side = "Cr"
	}
	return fmt.Sprintf("$%.2f %s", p.CostBasis.Abs().AsFloat(), side)
}

// DTE is the position's days to expiration as of latest, clamped at zero.
// ok is false for positions without one.
func (p Position) DTE(latest time.Time) (int, bool) {
	if !p.IsOption() || p.Expiration.IsZero() {
		return 0, false
	}
	exp := time.Date(p.Expiration.Year(), p.Expiration.Month(), p.Expiration.Day(), 0, 0, 0, 0, time.UTC)
	d := int(exp.Sub(latest) / (24 * time.Hour))
	if d < 0 {
		d = 0
	}
	return d, true
}

// ExpiryAlert flags an open option position expiring soon.
type ExpiryAlert struct {
	Ticker string
	Label  string // strike and side, e.g. 150C
	DTE    int
	Qty    int
}

// DetectOpenStrategy names the strategy a ticker's open positions form. The
// checks run from the most specific shape down, counting position lines,
// not contracts, and fall through to Custom/Mixed.
func DetectOpenStrategy(positions []Position) string {
	var ls, sc, lc, sp, lp int
	strikes := make(map[string]bool)
	exps := make(map[date.Date]bool)
	for _, p := range positions {
		switch p.Kind() {
		case "Long Stock":
			ls++
		case "Short Call":
			sc++
		case "Long Call":
			lc++
		case "Short Put":
			sp++
		case "Long Put":
			lp++
		}
		if p.HasStrike() {
			strikes[p.Strike.value.String()] = true
		}
		if !p.Expiration.IsZero() {
			exps[p.Expiration] = true
		}
	}
	switch {
	case lc > 0 && sc > 0 && len(exps) >= 2 && len(strikes) == 1:
		return "Calendar Spread"
	case lp > 0 && sp > 0 && len(exps) >= 2 && len(strikes) == 1:
		return "Calendar Spread"
	case lc == 2 && sc == 1 && len(strikes) == 3 && len(exps) == 1:
		return "Call Butterfly"
	case lp == 2 && sp == 1 && len(strikes) == 3 && len(exps) == 1:
		return "Put Butterfly"
	case ls > 0 && sc > 0 && sp > 0:
		return "Covered Strangle"
	case ls > 0 && sc > 0:
		return "Covered Call"
	case sp >= 1 && sc >= 1 && lc >= 1:
		return "Jade Lizard"
	case sc >= 1 && sp >= 1 && lp >= 1:
		return "Big Lizard"
	case sc >= 1 && sp >= 1:
		return "Short Strangle"
	case lc >= 1 && sp >= 1:
		return "Risk Reversal"
	case lc > 1 && sc > 0:
		return "Call Debit Spread"
	case sp > 0:
		return "Short Put"
	case lc > 0:
		return "Long Call"
	case ls > 0:
		return "Long Stock"
	}
	return "Custom/Mixed"
}

// HasStrike reports whether the position carries a strike price.
func (p Position) HasStrike() bool { return !p.Strike.IsZero() }
