// =============================================================================
// Uruguay Card Payments - Annual Pivot
// =============================================================================
//
// Wide per-year table with zero fill and amount shares.
//
// =============================================================================

package analysis

import (
	"math"
	"sort"

	"github.com/uycards/annual-summary/internal/types"
)

// Pivot reshapes the long aggregates into one wide row per year.
//
// Fill rules:
//   - a (year, method) combination with no aggregate has amount, count and
//     average ticket 0;
//   - total is the sum of both method amounts;
//   - each share is amount / total, and NaN for both methods when the total
//     is 0.
//
// With a positive total the two shares add up to 1.
func Pivot(aggregates []types.AnnualAggregate) *types.AnnualTable {
	table := &types.AnnualTable{Methods: make(map[string]bool)}
	byYear := make(map[int]*types.AnnualRow)

	for _, agg := range aggregates {
		row, ok := byYear[agg.Year]
		if !ok {
			row = &types.AnnualRow{Year: agg.Year}
			byYear[agg.Year] = row
		}

		switch agg.PaymentMethod {
		case types.DebitCard:
			row.AmountMillionDebit = agg.AmountMillionYear
			row.TxCountDebit = agg.TransactionCountYear
			row.AvgUSDDebit = agg.AvgAmountUSDYear
		case types.CreditCard:
			row.AmountMillionCredit = agg.AmountMillionYear
			row.TxCountCredit = agg.TransactionCountYear
			row.AvgUSDCredit = agg.AvgAmountUSDYear
		default:
			continue
		}
		table.Methods[agg.PaymentMethod] = true
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	table.Rows = make([]types.AnnualRow, 0, len(years))
	for _, year := range years {
		row := byYear[year]
		row.TotalAmountMillion = row.AmountMillionDebit + row.AmountMillionCredit
		if row.TotalAmountMillion != 0 {
			row.ShareDebit = row.AmountMillionDebit / row.TotalAmountMillion
			row.ShareCredit = row.AmountMillionCredit / row.TotalAmountMillion
		} else {
			row.ShareDebit = math.NaN()
			row.ShareCredit = math.NaN()
		}
		table.Rows = append(table.Rows, *row)
	}

	return table
}

// SplitAtMidpoint splits the table at (first year + last year) / 2. The
// midpoint year belongs to both halves so the two charts join up.
func SplitAtMidpoint(table *types.AnnualTable) (early, late *types.AnnualTable) {
	if table.IsEmpty() {
		return &types.AnnualTable{Methods: table.Methods}, &types.AnnualTable{Methods: table.Methods}
	}

	first := table.Rows[0].Year
	last := table.Rows[len(table.Rows)-1].Year
	split := floorDiv(first+last, 2)

	return table.UpTo(split), table.Between(split, last)
}

// floorDiv rounds toward negative infinity, unlike Go's "/".
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
