package wheelhouse

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// at parses a test timestamp; date-only values land at midnight UTC.
func at(s string) time.Time {
	t, err := parseRowTime(s)
	if err != nil {
		panic(fmt.Sprintf("bad test timestamp %q: %v", s, err))
	}
	return t
}

// rowSpec assembles a normalized Row the way the importers do, so tests
// exercise the same derivation path as real exports.
type rowSpec struct {
	when   string
	typ    string
	sub    string
	inst   string
	symbol string
	under  string
	action string
	desc   string
	qty    float64
	total  float64
	strike float64
	cp     string
	exp    string
	root   string
	order  string
}

func mkRow(s rowSpec) Row {
	qty := Q(s.qty)
	return Row{
		Time:        at(s.when),
		Action:      s.action,
		Description: s.desc,
		Type:        s.typ,
		SubType:     s.sub,
		Sub:         ParseSubKind(s.sub),
		Instrument:  s.inst,
		Symbol:      s.symbol,
		Underlying:  s.under,
		Ticker:      DeriveTicker(s.under, s.symbol),
		Quantity:    qty,
		SignedQty:   SignedQuantity(s.action, s.desc, qty),
		Total:       USD(s.total),
		Strike:      USD(s.strike),
		CallPut:     s.cp,
		Expiration:  parseExpiration(s.exp),
		Root:        s.root,
		Order:       s.order,
	}
}

func buyShares(when, ticker string, qty, total float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeTrade, sub: "Buy to Open", inst: "Equity",
		symbol: ticker, under: ticker, action: "BUY_TO_OPEN",
		desc: fmt.Sprintf("Bought %.0f %s @ market", qty, ticker), qty: qty, total: total})
}

func sellShares(when, ticker string, qty, total float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeTrade, sub: "Sell to Close", inst: "Equity",
		symbol: ticker, under: ticker, action: "SELL_TO_CLOSE",
		desc: fmt.Sprintf("Sold %.0f %s @ market", qty, ticker), qty: qty, total: total})
}

// optionRow builds an option leg with the export's conventions: Quantity is
// absolute and the direction lives in Action and Description. qty is signed
// the way the ledger should read it, contracts opened short are negative.
func optionRow(when, ticker, sub, cp string, strike float64, exp string, qty, total float64, order string) Row {
	action, desc, typ := "", "", TypeTrade
	switch sub {
	case "Sell to Open":
		action, desc = "SELL_TO_OPEN", "Sold contract"
	case "Buy to Open":
		action, desc = "BUY_TO_OPEN", "Bought contract"
	case "Buy to Close":
		action, desc = "BUY_TO_CLOSE", "Bought contract"
	case "Sell to Close":
		action, desc = "SELL_TO_CLOSE", "Sold contract"
	case "Expiration":
		// Expiry removals carry the closing action, that is what flips a
		// short's removal back to a positive quantity.
		action = "BUY_TO_CLOSE"
		if qty < 0 {
			action = "SELL_TO_CLOSE"
		}
		desc, typ = "Removal of option due to expiration", TypeReceiveDeliver
	default:
		desc = "Removal of option due to " + strings.ToLower(sub)
		typ = TypeReceiveDeliver
	}
	side := "P"
	if cp == "CALL" {
		side = "C"
	}
	return mkRow(rowSpec{when: when, typ: typ, sub: sub, inst: "Equity Option",
		symbol: fmt.Sprintf("%s %s %.0f%s", ticker, exp, strike, side), under: ticker,
		action: action, desc: desc, qty: math.Abs(qty), total: total,
		strike: strike, cp: cp, exp: exp, root: ticker, order: order})
}

func sto(when, ticker, cp string, strike float64, exp string, qty, total float64, order string) Row {
	return optionRow(when, ticker, "Sell to Open", cp, strike, exp, qty, total, order)
}

func btc(when, ticker, cp string, strike float64, exp string, qty, total float64, order string) Row {
	return optionRow(when, ticker, "Buy to Close", cp, strike, exp, qty, total, order)
}

func bto(when, ticker, cp string, strike float64, exp string, qty, total float64, order string) Row {
	return optionRow(when, ticker, "Buy to Open", cp, strike, exp, qty, total, order)
}

func stc(when, ticker, cp string, strike float64, exp string, qty, total float64, order string) Row {
	return optionRow(when, ticker, "Sell to Close", cp, strike, exp, qty, total, order)
}

func expireOpt(when, ticker, cp string, strike float64, exp string, qty float64) Row {
	return optionRow(when, ticker, "Expiration", cp, strike, exp, qty, 0, "")
}

func assignOpt(when, ticker, cp string, strike float64, exp string, qty float64) Row {
	return optionRow(when, ticker, "Assignment", cp, strike, exp, qty, 0, "")
}

func dividendRow(when, ticker string, amt float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeMoneyMovement, sub: SubTypeDividend,
		symbol: ticker, under: ticker, desc: "Dividend", total: amt})
}

func depositRow(when string, amt float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeMoneyMovement, sub: SubTypeDeposit,
		desc: "Wire funds received", total: amt})
}

func withdrawalRow(when string, amt float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeMoneyMovement, sub: SubTypeWithdrawal,
		desc: "Wire funds paid", total: amt})
}

func interestRow(when string, amt float64) Row {
	sub := SubTypeCreditInterest
	if amt < 0 {
		sub = SubTypeDebitInterest
	}
	return mkRow(rowSpec{when: when, typ: TypeMoneyMovement, sub: sub,
		desc: "Interest", total: amt})
}

// assignedShares is the share delivery leg of a put assignment.
func assignedShares(when, ticker string, qty, total float64) Row {
	return mkRow(rowSpec{when: when, typ: TypeReceiveDeliver, sub: "Assignment", inst: "Equity",
		symbol: ticker, under: ticker, action: "BUY",
		desc: fmt.Sprintf("Bought %.0f %s via assignment", qty, ticker), qty: qty, total: total})
}

func newTestLedger(rows ...Row) *Ledger {
	l := NewLedger()
	l.Append(rows...)
	return l
}
