// =============================================================================
// Uruguay Card Payments - Cleaner Module
// =============================================================================
//
// This module turns a loaded table into typed records: it normalises headers,
// applies the cleaning rules and coerces numbers. Values that cannot be parsed
// become NaN or missing, never an error.
//
// =============================================================================

package cleaner

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/uycards/annual-summary/internal/types"
)

// Normalised names of the columns the pipeline reads.
const (
	ColumnYear             = "year"
	ColumnSemester         = "semester"
	ColumnPaymentMethod    = "payment_method"
	ColumnAmountMillion    = "amount_million"
	ColumnTransactionCount = "transaction_count"
)

// fractionalAmount matches a "." group that cannot be a thousands group,
// e.g. "12.5" or "3.75". The default rules turn these into 125 and 375.
var fractionalAmount = regexp.MustCompile(`\.(\d{1,2}|\d{4,})$`)

// Stats counts what the cleaner could not use as-is.
type Stats struct {
	// SuspiciousAmounts is the number of amounts that looked fractional
	// before the "." was stripped.
	SuspiciousAmounts int

	// UnparseableAmounts and UnparseableCounts are values that became NaN.
	UnparseableAmounts int
	UnparseableCounts  int
}

// NormalizeHeader trims a column name, removes its spaces and lower-cases it.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(header), " ", ""))
}

// NormalizeTable returns a copy of table with normalised headers and row keys.
// Headers are visited in file order; when two of them normalise to the same
// name, the leftmost column's value is kept.
func NormalizeTable(table *types.Table) *types.Table {
	out := &types.Table{
		Headers:    make([]string, len(table.Headers)),
		Rows:       make([]map[string]string, len(table.Rows)),
		SourceFile: table.SourceFile,
	}

	for i, header := range table.Headers {
		out.Headers[i] = NormalizeHeader(header)
	}

	for i, row := range table.Rows {
		normalized := make(map[string]string, len(row))
		for j, header := range table.Headers {
			key := out.Headers[j]
			if _, taken := normalized[key]; taken {
				continue
			}
			normalized[key] = row[header]
		}
		out.Rows[i] = normalized
	}

	return out
}

// Clean applies the transformer to every row of a normalised table and
// coerces the result into records. Unparseable numbers become NaN (amount,
// count) or missing (year, semester); they are never an error.
func Clean(table *types.Table, t *Transformer) ([]types.Record, Stats, error) {
	var stats Stats
	records := make([]types.Record, 0, len(table.Rows))

	for i, row := range table.Rows {
		rawAmount := row[ColumnAmountMillion]
		if t.HasRule(ColumnAmountMillion) && fractionalAmount.MatchString(strings.TrimSpace(rawAmount)) {
			stats.SuspiciousAmounts++
		}

		amount, err := t.Transform(ColumnAmountMillion, rawAmount)
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i+1, err)
		}
		count, err := t.Transform(ColumnTransactionCount, row[ColumnTransactionCount])
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i+1, err)
		}
		method, err := t.Transform(ColumnPaymentMethod, row[ColumnPaymentMethod])
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i+1, err)
		}

		record := types.Record{
			Year:             ParseInt(row[ColumnYear]),
			Semester:         ParseInt(row[ColumnSemester]),
			PaymentMethod:    strings.TrimSpace(method),
			AmountMillion:    ParseNumber(amount),
			TransactionCount: ParseNumber(count),
			RowNumber:        i + 1,
		}

		if math.IsNaN(record.AmountMillion) {
			stats.UnparseableAmounts++
		}
		if math.IsNaN(record.TransactionCount) {
			stats.UnparseableCounts++
		}

		records = append(records, record)
	}

	return records, stats, nil
}

// ParseNumber parses a cleaned numeric string. Anything that is not a plain
// decimal number yields NaN.
func ParseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.NaN()
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return math.NaN()
	}

	f, _ := d.Float64()
	return f
}

// ParseInt parses an integral value such as "2020" or "2020.0".
func ParseInt(value string) types.NullInt {
	f := ParseNumber(value)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return types.NullInt{}
	}
	return types.Int(int(f))
}
