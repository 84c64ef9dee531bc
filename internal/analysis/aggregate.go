// =============================================================================
// Uruguay Card Payments - Annual Aggregation
// =============================================================================
//
// Sums semester rows into (year, payment method) totals.
//
// =============================================================================

package analysis

import (
	"math"
	"sort"

	"github.com/uycards/annual-summary/internal/types"
)

type yearMethod struct {
	year   int
	method string
}

// Aggregate sums semesters into one row per (year, payment method).
//
// The average ticket is weighted: Σamount × 1e6 / Σcount, not the mean of the
// semester averages. Missing amounts add nothing to the sum. Records without
// a year are skipped. Rows come out ordered by year, then method name.
//
// Callers must drop non-positive counts first so every group has Σcount > 0.
func Aggregate(records []types.Record) []types.AnnualAggregate {
	groups := make(map[yearMethod]*types.AnnualAggregate)

	for _, record := range records {
		if !record.Year.Valid {
			continue
		}

		key := yearMethod{year: record.Year.Value, method: record.PaymentMethod}
		agg, ok := groups[key]
		if !ok {
			agg = &types.AnnualAggregate{Year: key.year, PaymentMethod: key.method}
			groups[key] = agg
		}

		agg.AmountMillionYear += nanToZero(record.AmountMillion)
		agg.TransactionCountYear += nanToZero(record.TransactionCount)
	}

	out := make([]types.AnnualAggregate, 0, len(groups))
	for _, agg := range groups {
		agg.AvgAmountUSDYear = agg.AmountMillionYear * 1_000_000 / agg.TransactionCountYear
		out = append(out, *agg)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].PaymentMethod < out[j].PaymentMethod
	})

	return out
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
