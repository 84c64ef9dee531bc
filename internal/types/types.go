// =============================================================================
// Uruguay Card Payments - Shared Types
// =============================================================================
//
// This package contains the tables passed between pipeline stages. Keeping
// them here avoids import cycles between:
//   - csvparser / xlsxparser (produce Table)
//   - cleaner / validation    (produce and filter Record)
//   - analysis                (produce aggregates, wide rows, CAGR rows)
//   - csvwriter / charts      (consume the derived tables)
//
// =============================================================================

package types

import "math"

// =============================================================================
// PAYMENT METHODS
// =============================================================================

const (
	// DebitCard is the payment_method value for debit card rows.
	DebitCard = "Debit Card"

	// CreditCard is the payment_method value for credit card rows.
	CreditCard = "Credit Card"
)

// PaymentMethods lists the tracked methods in output order.
var PaymentMethods = []string{DebitCard, CreditCard}

// =============================================================================
// RAW TABLE
// =============================================================================

// Table is a loaded input sheet before any cleaning.
type Table struct {
	// Headers contains the column headers in file order.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// SourceFile is the path the table was loaded from.
	SourceFile string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// =============================================================================
// CLEANED RECORDS
// =============================================================================

// NullInt is an integer that may be missing.
type NullInt struct {
	Value int
	Valid bool
}

// Int returns a valid NullInt holding v.
func Int(v int) NullInt {
	return NullInt{Value: v, Valid: true}
}

// Record is one cleaned year/semester/method row.
//
// AmountMillion and TransactionCount are NaN when the source value could not
// be parsed.
type Record struct {
	Year             NullInt
	Semester         NullInt
	PaymentMethod    string
	AmountMillion    float64
	TransactionCount float64

	// RowNumber is the 1-based data row in the source file.
	RowNumber int
}

// =============================================================================
// DERIVED TABLES
// =============================================================================

// AnnualAggregate is the (year, payment method) long-form summary.
type AnnualAggregate struct {
	Year                 int
	PaymentMethod        string
	AmountMillionYear    float64
	TransactionCountYear float64
	AvgAmountUSDYear     float64
}

// AnnualRow is one year of the wide annual table. Absent (year, method)
// combinations are zero; shares are NaN when the total is zero.
type AnnualRow struct {
	Year                int
	AmountMillionDebit  float64
	AmountMillionCredit float64
	TxCountDebit        float64
	TxCountCredit       float64
	AvgUSDDebit         float64
	AvgUSDCredit        float64
	TotalAmountMillion  float64
	ShareDebit          float64
	ShareCredit         float64
}

// Amount returns the amount for the given payment method.
func (r AnnualRow) Amount(method string) float64 {
	switch method {
	case DebitCard:
		return r.AmountMillionDebit
	case CreditCard:
		return r.AmountMillionCredit
	}
	return 0
}

// AvgUSD returns the average ticket for the given payment method.
func (r AnnualRow) AvgUSD(method string) float64 {
	switch method {
	case DebitCard:
		return r.AvgUSDDebit
	case CreditCard:
		return r.AvgUSDCredit
	}
	return 0
}

// Share returns the share of total for the given payment method.
func (r AnnualRow) Share(method string) float64 {
	switch method {
	case DebitCard:
		return r.ShareDebit
	case CreditCard:
		return r.ShareCredit
	}
	return math.NaN()
}

// AnnualTable is the wide annual table, ordered by year.
type AnnualTable struct {
	Rows []AnnualRow

	// Methods holds the payment methods observed anywhere in the data.
	Methods map[string]bool
}

// HasMethod reports whether the method was observed in the input.
func (t *AnnualTable) HasMethod(method string) bool {
	return t.Methods[method]
}

// Years returns the table's years in order.
func (t *AnnualTable) Years() []int {
	years := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		years[i] = row.Year
	}
	return years
}

// UpTo returns a copy of the table restricted to years <= maxYear.
func (t *AnnualTable) UpTo(maxYear int) *AnnualTable {
	out := &AnnualTable{Methods: t.Methods}
	for _, row := range t.Rows {
		if row.Year <= maxYear {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Between returns a copy of the table restricted to from <= year <= to.
func (t *AnnualTable) Between(from, to int) *AnnualTable {
	out := &AnnualTable{Methods: t.Methods}
	for _, row := range t.Rows {
		if row.Year >= from && row.Year <= to {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// IsEmpty reports whether the table has no rows.
func (t *AnnualTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// YearValue is one point of a yearly series.
type YearValue struct {
	Year  int
	Value float64
}

// CAGRRecord is one row of the growth-rate table.
type CAGRRecord struct {
	Metric string
	CAGR   float64
}

// SemesterAmount is the per-semester amount of both methods, used by the
// semester bar chart.
type SemesterAmount struct {
	Year     int
	Semester int
	Label    string
	Debit    float64
	Credit   float64
}
