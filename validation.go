package wheelhouse

import (
	"fmt"
	"sort"
	"strings"
)

// RequiredColumns lists the header columns a broker history export must carry
// before import is attempted. Extra columns are ignored.
var RequiredColumns = []string{
	"Date",
	"Action",
	"Description",
	"Type",
	"Sub Type",
	"Instrument Type",
	"Symbol",
	"Underlying Symbol",
	"Quantity",
	"Total",
	"Commissions",
	"Fees",
	"Strike Price",
	"Call or Put",
	"Expiration Date",
	"Root Symbol",
	"Order #",
}

// MissingColumnsError reports required columns absent from an export header.
// Its message is safe to show to the user as-is.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("this doesn't look like a broker history export, missing columns: %s",
		strings.Join(e.Columns, ", "))
}

// missingColumns returns the required columns not present in header, sorted.
func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}
