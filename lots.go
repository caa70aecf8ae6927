package wheelhouse

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/wheelhouse/date"
)

// Share quantities are kept to nine decimals after every partial match, and
// residuals below fifoEpsilon are treated as fully consumed. Broker exports
// carry fractional shares from splits and dividend reinvestment, so exact
// zero comparisons are not reliable.
const fifoRound = 9

var fifoEpsilon = Q(decimal.New(1, -fifoRound))

// lot is an open position layer: a quantity of shares at a per-share price.
// Long lots come from buys, short lots from sells that exceeded inventory.
type lot struct {
	qty Quantity
	pps Money
}

// lotBook holds the open long and short lots of a single ticker, each
// consumed oldest first.
type lotBook struct {
	longs  []lot
	shorts []lot
}

// Realized is one lot-matching event: shares leaving the book, with the sale
// proceeds and the cost basis of the specific lots consumed.
type Realized struct {
	Time     time.Time
	Proceeds Money
	Cost     Money
}

func (e Realized) Date() date.Date { return date.FromTime(e.Time) }

func (e Realized) PnL() Money { return e.Proceeds.Sub(e.Cost) }

// RealizedEquityEvents replays every share trade of one ticker through a
// FIFO lot book, oldest row first, and yields the realized events.
//
// A buy first covers open short lots, one event per lot consumed (proceeds
// at the short's entry price, cost at the covering buy's price); any residue
// becomes a new long lot. A sell consumes long lots accumulating their cost
// and yields a single event for the whole row; any residue opens a short
// lot. A sell into an empty book yields nothing until covered.
//
// Split rows carry a zero signed quantity and are skipped; pre-split rows
// are expected to be rescaled beforehand by ApplySplitAdjustments.
func RealizedEquityEvents(l *Ledger, ticker string) iter.Seq[Realized] {
	return func(yield func(Realized) bool) {
		var book lotBook
		for _, r := range l.Rows() {
			if r.Ticker != ticker || !r.IsShare() || !r.IsTrade() || r.SignedQty.IsZero() {
				continue
			}
			if r.SignedQty.IsPositive() {
				if !book.buy(r, yield) {
					return
				}
			} else if !book.sell(r, yield) {
				return
			}
		}
	}
}

// EquityRealizedPnL is the ticker's total realized share P/L over the whole
// ledger.
func EquityRealizedPnL(l *Ledger, ticker string) Money {
	var total Money
	for e := range RealizedEquityEvents(l, ticker) {
		total = total.Add(e.PnL())
	}
	return total
}

func (b *lotBook) buy(r Row, yield func(Realized) bool) bool {
	qty := r.SignedQty
	pps := r.Total.Abs().Div(qty)
	remaining := qty
	for len(b.shorts) > 0 && remaining.GreaterThan(fifoEpsilon) {
		s := &b.shorts[0]
		use := minQuantity(remaining, s.qty)
		if !yield(Realized{Time: r.Time, Proceeds: s.pps.Mul(use), Cost: pps.Mul(use)}) {
			return false
		}
		s.qty = s.qty.Sub(use).Round(fifoRound)
		remaining = remaining.Sub(use).Round(fifoRound)
		if !s.qty.GreaterThan(fifoEpsilon) {
			b.shorts = b.shorts[1:]
		}
	}
	if remaining.GreaterThan(fifoEpsilon) {
		b.longs = append(b.longs, lot{qty: remaining, pps: pps})
	}
	return true
}

func (b *lotBook) sell(r Row, yield func(Realized) bool) bool {
	sellQty := r.SignedQty.Abs()
	pps := r.Total.Abs().Div(sellQty)
	remaining := sellQty
	var cost Money
	for len(b.longs) > 0 && remaining.GreaterThan(fifoEpsilon) {
		lt := &b.longs[0]
		use := minQuantity(remaining, lt.qty)
		cost = cost.Add(lt.pps.Mul(use))
		lt.qty = lt.qty.Sub(use).Round(fifoRound)
		remaining = remaining.Sub(use).Round(fifoRound)
		if !lt.qty.GreaterThan(fifoEpsilon) {
			b.longs = b.longs[1:]
		}
	}
	// Yield only if the sell actually matched inventory. A naked sell opens
	// a short lot silently, its P/L is realized on the covering buy.
	if cost.IsPositive() || remaining.LessThan(sellQty.Sub(fifoEpsilon)) {
		sold := sellQty.Sub(remaining)
		if !yield(Realized{Time: r.Time, Proceeds: pps.Mul(sold), Cost: cost}) {
			return false
		}
	}
	if remaining.GreaterThan(fifoEpsilon) {
		b.shorts = append(b.shorts, lot{qty: remaining, pps: pps})
	}
	return true
}

func minQuantity(a, b Quantity) Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}
