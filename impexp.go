package wheelhouse

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/wheelhouse/date"
	"github.com/shopspring/decimal"
)

// this file contains the functions to import broker history exports, CSV and
// JSON. Both importers end in the same pipeline: normalize rows, sort, detect
// corporate actions, rescale pre-split lots.

// rowTimeLayouts are the timestamp formats seen in broker exports, tried in
// order. All values are normalized to UTC.
var rowTimeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseRowTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range rowTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q, the export should carry ISO 8601 timestamps", s)
}

// parseAmount parses a broker currency string like "$1,234.56" or "--".
// Blank and placeholder values parse to zero.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" || cleaned == "--" {
		return decimal.Zero, nil
	}
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expected a currency amount like $1,234.56 or a plain number, got %q", s)
	}
	return d, nil
}

// expirationLayouts are the date formats the Expiration Date column shows up
// in. An unparseable value leaves the expiration unknown rather than failing
// the import.
var expirationLayouts = []string{"1/2/06", "2006-01-02", "1/2/2006"}

func parseExpiration(s string) date.Date {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return date.Date{}
	}
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return date.FromTime(t)
		}
	}
	return date.Date{}
}

// ImportCSV reads a broker history CSV export and returns the normalized
// ledger together with the corporate actions detected in it.
func ImportCSV(r io.Reader) (*Ledger, []SplitEvent, []ZeroCostRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot read export: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, nil, nil, fmt.Errorf("export is not valid UTF-8, re-export it without opening it in a spreadsheet first")
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot parse the file as a CSV: %w", err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, nil, nil, &MissingColumnsError{Columns: missing}
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid CSV record on line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row, err := normalizeRow(field)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("the export has column headers but no data rows")
	}

	return finishImport(rows)
}

// normalizeRow builds one Row from raw column values accessed through field.
func normalizeRow(field func(string) string) (Row, error) {
	ts, err := parseRowTime(field("Date"))
	if err != nil {
		return Row{}, fmt.Errorf("column \"Date\": %w", err)
	}

	numbers := make(map[string]decimal.Decimal, 5)
	for _, name := range []string{"Quantity", "Total", "Commissions", "Fees", "Strike Price"} {
		d, err := parseAmount(field(name))
		if err != nil {
			return Row{}, fmt.Errorf("column %q: %w", name, err)
		}
		numbers[name] = d
	}

	action := field("Action")
	description := field("Description")
	qty := Q(numbers["Quantity"])

	r := Row{
		Time:        ts,
		Action:      action,
		Description: description,
		Type:        field("Type"),
		SubType:     field("Sub Type"),
		Sub:         ParseSubKind(field("Sub Type")),
		Instrument:  field("Instrument Type"),
		Symbol:      field("Symbol"),
		Underlying:  field("Underlying Symbol"),
		Ticker:      DeriveTicker(field("Underlying Symbol"), field("Symbol")),
		Quantity:    qty,
		SignedQty:   SignedQuantity(action, description, qty),
		Total:       M(numbers["Total"], "USD"),
		Commissions: M(numbers["Commissions"], "USD"),
		Fees:        M(numbers["Fees"], "USD"),
		Strike:      M(numbers["Strike Price"], "USD"),
		CallPut:     field("Call or Put"),
		Expiration:  parseExpiration(field("Expiration Date")),
		Root:        field("Root Symbol"),
		Order:       field("Order #"),
	}
	return r, nil
}

// finishImport is the shared tail of both importers: sort, detect corporate
// actions, rescale pre-split lots.
func finishImport(rows []Row) (*Ledger, []SplitEvent, []ZeroCostRow, error) {
	ledger := NewLedger()
	ledger.Append(rows...)

	splits, zeroCost := DetectCorporateActions(ledger)
	ApplySplitAdjustments(ledger, splits)

	return ledger, splits, zeroCost, nil
}

// ImportJSON reads rows from the broker's JSON transactions feed. Both the
// enveloped form {"data":{"items":[...]}} and a bare array are accepted.
// Items use the feed's kebab-case keys; option fields missing from an item
// are recovered from the OCC symbol when possible.
func ImportJSON(r io.Reader) (*Ledger, []SplitEvent, []ZeroCostRow, error) {
	var jobj any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, nil, nil, fmt.Errorf("cannot parse the file as JSON: %w", err)
	}

	items := jobj
	if jval, err := jsonpath.Get("$.data.items", jobj); err == nil {
		items = jval
	}
	list, ok := items.([]any)
	if !ok {
		return nil, nil, nil, fmt.Errorf("no transaction items found, expected a JSON array or a data.items envelope")
	}
	if len(list) == 0 {
		return nil, nil, nil, fmt.Errorf("the transaction feed has no items")
	}

	var rows []Row
	for i, item := range list {
		row, err := rowFromJSON(item)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	return finishImport(rows)
}

// jstring extracts a string field from a feed item, tolerating numbers.
func jstring(item any, key string) string {
	jval, err := jsonpath.Get("$['"+key+"']", item)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// jnumber extracts a numeric field from a feed item. The feed serves numbers
// both as JSON numbers and as strings, so both are accepted.
func jnumber(item any, key string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get("$['"+key+"']", item)
	if err != nil {
		return decimal.Zero, nil // absent field reads as zero
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return parseAmount(v)
	default:
		return decimal.Zero, fmt.Errorf("field %q is neither a number nor a string: %v", key, jval)
	}
}

// rowFromJSON builds one Row from a transaction feed item.
func rowFromJSON(item any) (Row, error) {
	ts, err := parseRowTime(jstring(item, "executed-at"))
	if err != nil {
		return Row{}, fmt.Errorf("field \"executed-at\": %w", err)
	}

	qtyDec, err := jnumber(item, "quantity")
	if err != nil {
		return Row{}, err
	}
	value, err := jnumber(item, "value")
	if err != nil {
		return Row{}, err
	}
	// The feed carries magnitudes with a separate value-effect field.
	// A Debit is cash out, so it flips the sign.
	if strings.EqualFold(jstring(item, "value-effect"), "Debit") {
		value = value.Neg()
	}
	commission, err := jnumber(item, "commission")
	if err != nil {
		return Row{}, err
	}
	fees, err := jnumber(item, "fees")
	if err != nil {
		return Row{}, err
	}
	strike, err := jnumber(item, "strike-price")
	if err != nil {
		return Row{}, err
	}

	action := jstring(item, "action")
	description := jstring(item, "description")
	symbol := jstring(item, "symbol")
	underlying := jstring(item, "underlying-symbol")
	subType := jstring(item, "transaction-sub-type")
	instrument := jstring(item, "instrument-type")
	callPut := jstring(item, "call-or-put")
	expiration := parseExpiration(jstring(item, "expiration-date"))
	root := jstring(item, "root-symbol")

	// An option item may omit the contract fields; the OCC symbol encodes
	// them all.
	if strings.Contains(instrument, "Option") {
		if occ, ok := parseOCCSymbol(symbol); ok {
			if strike.IsZero() {
				strike = occ.strike
			}
			if callPut == "" {
				callPut = occ.callPut
			}
			if expiration.IsZero() {
				expiration = occ.expiration
			}
			if root == "" {
				root = occ.root
			}
		}
	}

	qty := Q(qtyDec)
	r := Row{
		Time:        ts,
		Action:      action,
		Description: description,
		Type:        jstring(item, "transaction-type"),
		SubType:     subType,
		Sub:         ParseSubKind(subType),
		Instrument:  instrument,
		Symbol:      symbol,
		Underlying:  underlying,
		Ticker:      DeriveTicker(underlying, symbol),
		Quantity:    qty,
		SignedQty:   SignedQuantity(action, description, qty),
		Total:       M(value, "USD"),
		Commissions: M(commission, "USD"),
		Fees:        M(fees, "USD"),
		Strike:      M(strike, "USD"),
		CallPut:     callPut,
		Expiration:  expiration,
		Root:        root,
		Order:       jstring(item, "order-id"),
	}
	return r, nil
}

// occContract is the option contract encoded in an OCC symbol like
// "AAPL  240419P00170000": padded root, yymmdd expiration, C or P, strike in
// thousandths.
type occContract struct {
	root       string
	expiration date.Date
	callPut    string
	strike     decimal.Decimal
}

func parseOCCSymbol(symbol string) (occContract, bool) {
	// root is everything before the first space run; the tail is fixed width.
	i := strings.IndexByte(symbol, ' ')
	if i <= 0 {
		return occContract{}, false
	}
	root := symbol[:i]
	tail := strings.TrimLeft(symbol[i:], " ")
	if len(tail) != 15 {
		return occContract{}, false
	}
	yy, errY := strconv.Atoi(tail[0:2])
	mm, errM := strconv.Atoi(tail[2:4])
	dd, errD := strconv.Atoi(tail[4:6])
	if errY != nil || errM != nil || errD != nil {
		return occContract{}, false
	}
	var callPut string
	switch tail[6] {
	case 'C':
		callPut = "CALL"
	case 'P':
		callPut = "PUT"
	default:
		return occContract{}, false
	}
	milli, err := strconv.ParseInt(tail[7:], 10, 64)
	if err != nil {
		return occContract{}, false
	}
	return occContract{
		root:       root,
		expiration: date.New(2000+yy, time.Month(mm), dd),
		callPut:    callPut,
		strike:     decimal.New(milli, -3),
	}, true
}
