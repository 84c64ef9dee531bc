// =============================================================================
// Uruguay Card Payments - Growth Rates
// =============================================================================
//
// Compound annual growth rates of the amount series.
//
// =============================================================================

package analysis

import (
	"math"
	"sort"

	"github.com/uycards/annual-summary/internal/types"
)

// Metric names of the growth-rate table.
const (
	MetricAmountDebit  = "amount_million_debit"
	MetricAmountCredit = "amount_million_credit"
	MetricTotalAmount  = "total_amount_million"
)

// CAGR returns the compound annual growth rate of a yearly series:
//
//	(last / first) ^ (1 / (lastYear - firstYear)) - 1
//
// NaN values are dropped first. The result is NaN when fewer than two points
// remain, when the years span zero, or when the first value is not positive.
func CAGR(points []types.YearValue) float64 {
	series := make([]types.YearValue, 0, len(points))
	for _, p := range points {
		if !math.IsNaN(p.Value) {
			series = append(series, p)
		}
	}

	if len(series) < 2 {
		return math.NaN()
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Year < series[j].Year })

	first := series[0]
	last := series[len(series)-1]
	span := last.Year - first.Year

	if first.Value <= 0 || span <= 0 {
		return math.NaN()
	}

	return math.Pow(last.Value/first.Value, 1/float64(span)) - 1
}

// GrowthRates computes the three reported CAGRs over the years up to and
// including latestFullYear. Per-method series use the zero-filled pivot
// values, so a method missing in the first year yields NaN. A method never
// observed yields NaN.
func GrowthRates(table *types.AnnualTable, latestFullYear int) []types.CAGRRecord {
	window := table.UpTo(latestFullYear)

	return []types.CAGRRecord{
		{Metric: MetricAmountDebit, CAGR: methodCAGR(window, types.DebitCard)},
		{Metric: MetricAmountCredit, CAGR: methodCAGR(window, types.CreditCard)},
		{Metric: MetricTotalAmount, CAGR: CAGR(series(window, func(r types.AnnualRow) float64 {
			return r.TotalAmountMillion
		}))},
	}
}

func methodCAGR(table *types.AnnualTable, method string) float64 {
	if !table.HasMethod(method) {
		return math.NaN()
	}
	return CAGR(series(table, func(r types.AnnualRow) float64 { return r.Amount(method) }))
}

func series(table *types.AnnualTable, value func(types.AnnualRow) float64) []types.YearValue {
	points := make([]types.YearValue, len(table.Rows))
	for i, row := range table.Rows {
		points[i] = types.YearValue{Year: row.Year, Value: value(row)}
	}
	return points
}
