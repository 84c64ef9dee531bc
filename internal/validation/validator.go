// =============================================================================
// Uruguay Card Payments - Validation
// =============================================================================
//
// This module enforces the few hard requirements of the input:
//   1. The five required columns are present (fatal otherwise)
//   2. At least one Debit Card / Credit Card row remains (fatal otherwise)
//   3. Rows with a non-positive or missing transaction count are dropped,
//      which keeps every average-ticket division well defined
//
// Everything else is tolerated: unparseable numbers stay NaN and flow into
// the aggregates as zeros.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uycards/annual-summary/internal/cleaner"
	"github.com/uycards/annual-summary/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoPaymentRows is returned when no Debit Card / Credit Card rows remain.
	ErrNoPaymentRows = errors.New("no Debit Card / Credit Card rows after filtering")

	// ErrNoPositiveCounts is returned when every remaining row has a
	// non-positive or missing transaction count.
	ErrNoPositiveCounts = errors.New("no rows with a positive transaction_count")
)

// RequiredColumns are the normalised column names the pipeline needs.
var RequiredColumns = []string{
	cleaner.ColumnYear,
	cleaner.ColumnSemester,
	cleaner.ColumnPaymentMethod,
	cleaner.ColumnAmountMillion,
	cleaner.ColumnTransactionCount,
}

// MissingColumnsError names the required columns absent from the input.
type MissingColumnsError struct {
	// Missing is sorted alphabetically.
	Missing []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("input is missing required columns: {%s}", strings.Join(e.Missing, ", "))
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// RequireColumns checks the normalised headers for the required columns.
//
// RETURNS:
//   - nil when every required column is present.
//   - A *MissingColumnsError listing the absent columns otherwise.
func RequireColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[header] = true
	}

	var missing []string
	for _, column := range RequiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return &MissingColumnsError{Missing: missing}
}

// IsTrackedMethod reports whether method is one of the two card methods.
func IsTrackedMethod(method string) bool {
	return method == types.DebitCard || method == types.CreditCard
}

// FilterPaymentMethods keeps only Debit Card and Credit Card rows.
//
// RETURNS:
//   - The kept records in input order.
//   - ErrNoPaymentRows if nothing is left.
func FilterPaymentMethods(records []types.Record) ([]types.Record, error) {
	kept := make([]types.Record, 0, len(records))
	for _, record := range records {
		if IsTrackedMethod(record.PaymentMethod) {
			kept = append(kept, record)
		}
	}

	if len(kept) == 0 {
		return nil, ErrNoPaymentRows
	}

	return kept, nil
}

// DropNonPositiveCounts removes rows whose transaction count is not > 0.
// NaN counts compare false and are dropped too.
//
// RETURNS:
//   - The kept records in input order.
//   - The number of dropped rows.
func DropNonPositiveCounts(records []types.Record) ([]types.Record, int) {
	kept := make([]types.Record, 0, len(records))
	for _, record := range records {
		if record.TransactionCount > 0 {
			kept = append(kept, record)
		}
	}
	return kept, len(records) - len(kept)
}
