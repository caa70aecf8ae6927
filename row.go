package wheelhouse

import (
	"strings"
	"time"

	"github.com/etnz/wheelhouse/date"
)

// Type column values in a broker history export.
const (
	TypeTrade          = "Trade"
	TypeReceiveDeliver = "Receive Deliver"
	TypeMoneyMovement  = "Money Movement"
)

// Sub Type values for money movement rows.
const (
	SubTypeDividend          = "Dividend"
	SubTypeCreditInterest    = "Credit Interest"
	SubTypeDebitInterest     = "Debit Interest"
	SubTypeDeposit           = "Deposit"
	SubTypeWithdrawal        = "Withdrawal"
	SubTypeBalanceAdjustment = "Balance Adjustment"
)

// splitDescriptionPatterns mark Receive Deliver rows that belong to a stock
// split. The bare "SPLIT" catches broker phrasings the explicit ones miss.
var splitDescriptionPatterns = []string{"FORWARD SPLIT", "REVERSE SPLIT", "STOCK SPLIT", "SPLIT"}

// SubKind is the closed classification of a row's Sub Type, assigned once at
// ingestion so downstream stages never re-derive it from free text.
type SubKind int

const (
	SubOther SubKind = iota
	SubBuyToOpen
	SubSellToOpen
	SubBuyToClose
	SubSellToClose
	SubExpiration
	SubAssignment
	SubExercise
	SubDividend
	SubCreditInterest
	SubDebitInterest
	SubDeposit
	SubWithdrawal
	SubBalanceAdjustment
)

func (k SubKind) String() string {
	switch k {
	case SubBuyToOpen:
		return "buy to open"
	case SubSellToOpen:
		return "sell to open"
	case SubBuyToClose:
		return "buy to close"
	case SubSellToClose:
		return "sell to close"
	case SubExpiration:
		return "expiration"
	case SubAssignment:
		return "assignment"
	case SubExercise:
		return "exercise"
	case SubDividend:
		return "dividend"
	case SubCreditInterest:
		return "credit interest"
	case SubDebitInterest:
		return "debit interest"
	case SubDeposit:
		return "deposit"
	case SubWithdrawal:
		return "withdrawal"
	case SubBalanceAdjustment:
		return "balance adjustment"
	default:
		return "other"
	}
}

// ParseSubKind classifies a raw Sub Type value. The checks mirror the broker's
// phrasing: "Cash Settled Assignment" is still an assignment, "Sell to Open"
// under Receive Deliver is still an opening leg.
func ParseSubKind(subType string) SubKind {
	s := strings.ToLower(strings.TrimSpace(subType))
	switch {
	case strings.Contains(s, "to open"):
		if strings.Contains(s, "sell") {
			return SubSellToOpen
		}
		return SubBuyToOpen
	case strings.Contains(s, "to close"):
		if strings.Contains(s, "sell") {
			return SubSellToClose
		}
		return SubBuyToClose
	case strings.Contains(s, "expir"):
		return SubExpiration
	case strings.Contains(s, "assign"):
		return SubAssignment
	case strings.Contains(s, "exercise"):
		return SubExercise
	case s == "dividend":
		return SubDividend
	case s == "credit interest":
		return SubCreditInterest
	case s == "debit interest":
		return SubDebitInterest
	case s == "deposit":
		return SubDeposit
	case s == "withdrawal":
		return SubWithdrawal
	case s == "balance adjustment":
		return SubBalanceAdjustment
	default:
		return SubOther
	}
}

// Opening reports whether the row opened a position leg.
func (k SubKind) Opening() bool { return k == SubBuyToOpen || k == SubSellToOpen }

// ClosesShort reports whether the row reduces an open short option position
// when walking a roll chain. Exercise is deliberately absent: a broker
// exercise row is the long side's event and never unwinds a short leg here.
func (k SubKind) ClosesShort() bool {
	return k == SubBuyToClose || k == SubSellToClose || k == SubExpiration || k == SubAssignment
}

// Income reports whether the row is dividend or interest income.
func (k SubKind) Income() bool {
	return k == SubDividend || k == SubCreditInterest || k == SubDebitInterest
}

// Row is one normalized line of a broker transaction history export.
//
// Quantity is the absolute count as exported; SignedQty carries direction
// (positive buys, negative sells) so downstream code can sum rows directly.
// Both are rescaled in place when a split adjustment applies.
type Row struct {
	Time        time.Time // full broker timestamp, UTC
	Action      string
	Description string
	Type        string
	SubType     string
	Sub         SubKind
	Instrument  string
	Symbol      string
	Underlying  string
	Ticker      string
	Quantity    Quantity
	SignedQty   Quantity
	Total       Money
	Commissions Money
	Fees        Money
	Strike      Money
	CallPut     string
	Expiration  date.Date
	Root        string
	Order       string
}

// Date returns the calendar day of the row.
func (r Row) Date() date.Date { return date.FromTime(r.Time) }

// IsShare reports whether the row is a plain equity row (not an option).
func (r Row) IsShare() bool { return strings.TrimSpace(r.Instrument) == "Equity" }

// IsOption reports whether the row is an equity or future option row.
func (r Row) IsOption() bool { return strings.Contains(r.Instrument, "Option") }

// IsTrade reports whether the row is a fill or a delivery, the two Type values
// that move positions.
func (r Row) IsTrade() bool { return r.Type == TypeTrade || r.Type == TypeReceiveDeliver }

// IsOptionFlow reports whether the row is an option cash flow that counts
// toward premium totals.
func (r Row) IsOptionFlow() bool { return r.IsOption() && r.IsTrade() }

// IsCall and IsPut test the Call or Put column. A row can be neither (shares,
// cash movements).
func (r Row) IsCall() bool { return strings.Contains(strings.ToUpper(r.CallPut), "CALL") }
func (r Row) IsPut() bool  { return strings.Contains(strings.ToUpper(r.CallPut), "PUT") }

// HasStrike reports whether the row carries a strike price.
func (r Row) HasStrike() bool { return !r.Strike.IsZero() }

// DeriveTicker resolves the grouping key for a row: the underlying symbol when
// present, otherwise the first word of the symbol, otherwise CASH for pure
// money movements.
func DeriveTicker(underlying, symbol string) string {
	if u := strings.TrimSpace(underlying); u != "" {
		return u
	}
	if fields := strings.Fields(symbol); len(fields) > 0 {
		return fields[0]
	}
	return "CASH"
}

// SignedQuantity derives the signed share/contract count from the broker's
// Action and Description fields. The export stores quantity as an absolute
// value and encodes direction in text.
//
// Removal rows need care: assignment removals deliver shares (positive), split
// removals are handled by the split adjuster (zero here so they never look
// like a sale), any other removal (spin-off, ACATS) empties the position
// (negative). A row matching none of the patterns contributes zero.
func SignedQuantity(action, description string, qty Quantity) Quantity {
	act := strings.ToUpper(action)
	dsc := strings.ToUpper(description)
	switch {
	case strings.Contains(act, "BUY") || strings.Contains(dsc, "BOUGHT"):
		return qty
	case strings.Contains(act, "SELL") || strings.Contains(dsc, "SOLD"):
		return qty.Neg()
	case strings.Contains(dsc, "REMOVAL"):
		if strings.Contains(dsc, "ASSIGNMENT") {
			return qty
		}
		if matchesSplitPattern(dsc) {
			return Q(0)
		}
		return qty.Neg()
	}
	return Q(0)
}

func matchesSplitPattern(upperDescription string) bool {
	for _, p := range splitDescriptionPatterns {
		if strings.Contains(upperDescription, p) {
			return true
		}
	}
	return false
}
