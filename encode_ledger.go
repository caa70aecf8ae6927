package wheelhouse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/wheelhouse/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountWire decodes a money value from its two wire fields.
type amountWire struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountWire) Money() Money {
	cur := a.Currency
	if cur == "" {
		cur = "USD"
	}
	return M(a.Amount, cur)
}

// rowWire mirrors Row on the wire. Quantity and signedQty are stored as
// adjusted by the importer: a decoded ledger must not re-run split
// adjustment, that already happened once at import.
type rowWire struct {
	Time        string     `json:"time"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	SubType     string     `json:"subType"`
	Instrument  string     `json:"instrument"`
	Symbol      string     `json:"symbol"`
	Underlying  string     `json:"underlying"`
	Quantity    Quantity   `json:"quantity"`
	SignedQty   Quantity   `json:"signedQty"`
	Total       amountWire `json:"total"`
	Commissions amountWire `json:"commissions"`
	Fees        amountWire `json:"fees"`
	Strike      amountWire `json:"strike"`
	CallPut     string     `json:"callPut"`
	Expiration  date.Date  `json:"expiration"`
	Root        string     `json:"root"`
	Order       string     `json:"order"`
}

// MarshalJSON writes the row with a stable key order so encoded ledgers diff
// cleanly. Classification fields (sub kind, ticker) are not persisted, they
// re-derive on load.
func (r Row) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", r.Time.UTC().Format(time.RFC3339))
	w.Optional("action", r.Action)
	w.Optional("description", r.Description)
	w.Append("type", r.Type)
	w.Optional("subType", r.SubType)
	w.Optional("instrument", r.Instrument)
	w.Optional("symbol", r.Symbol)
	w.Optional("underlying", r.Underlying)
	if !r.Quantity.IsZero() {
		w.Append("quantity", r.Quantity)
	}
	if !r.SignedQty.IsZero() {
		w.Append("signedQty", r.SignedQty)
	}
	w.Append("total", r.Total)
	if !r.Commissions.IsZero() {
		w.Append("commissions", r.Commissions)
	}
	if !r.Fees.IsZero() {
		w.Append("fees", r.Fees)
	}
	if !r.Strike.IsZero() {
		w.Append("strike", r.Strike)
	}
	w.Optional("callPut", r.CallPut)
	if !r.Expiration.IsZero() {
		w.Append("expiration", r.Expiration)
	}
	w.Optional("root", r.Root)
	w.Optional("order", r.Order)
	return w.MarshalJSON()
}

// EncodeRow marshals a single row and writes it as one JSONL line.
func EncodeRow(w io.Writer, r Row) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger to w in JSONL format, one row per line in
// time order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	l.stableSort()
	for _, r := range l.Rows() {
		if err := EncodeRow(w, r); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger reads a JSONL stream written by EncodeLedger and returns the
// sorted ledger. Sub kind and ticker are re-derived from the persisted text
// fields.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var wire rowWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := parseRowTime(wire.Time)
		if err != nil {
			return nil, fmt.Errorf("line %d: field \"time\": %w", line, err)
		}
		ledger.Append(Row{
			Time:        ts,
			Action:      wire.Action,
			Description: wire.Description,
			Type:        wire.Type,
			SubType:     wire.SubType,
			Sub:         ParseSubKind(wire.SubType),
			Instrument:  wire.Instrument,
			Symbol:      wire.Symbol,
			Underlying:  wire.Underlying,
			Ticker:      DeriveTicker(wire.Underlying, wire.Symbol),
			Quantity:    wire.Quantity,
			SignedQty:   wire.SignedQty,
			Total:       wire.Total.Money(),
			Commissions: wire.Commissions.Money(),
			Fees:        wire.Fees.Money(),
			Strike:      wire.Strike.Money(),
			CallPut:     wire.CallPut,
			Expiration:  wire.Expiration,
			Root:        wire.Root,
			Order:       wire.Order,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	ledger.stableSort()
	return ledger, nil
}
