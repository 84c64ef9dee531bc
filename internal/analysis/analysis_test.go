package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uycards/annual-summary/internal/types"
)

func rec(year, semester int, method string, amount, count float64) types.Record {
	return types.Record{
		Year:             types.Int(year),
		Semester:         types.Int(semester),
		PaymentMethod:    method,
		AmountMillion:    amount,
		TransactionCount: count,
	}
}

// =============================================================================
// COMPLETENESS
// =============================================================================

func TestCompleteness(t *testing.T) {
	records := []types.Record{
		rec(2023, 1, types.DebitCard, 1, 1),
		rec(2023, 2, types.DebitCard, 1, 1),
		rec(2024, 1, types.DebitCard, 1, 1),
		rec(2024, 2, types.CreditCard, 1, 1),
		rec(2025, 1, types.DebitCard, 1, 1),
		{Year: types.Int(2026), PaymentMethod: types.DebitCard},
		{Semester: types.Int(2), PaymentMethod: types.DebitCard},
	}

	c := NewCompleteness(records)

	latest, ok := c.LatestFullYear()
	require.True(t, ok)
	assert.Equal(t, 2024, latest)

	assert.Equal(t, []int{2023, 2024, 2025, 2026}, c.Years())
	assert.True(t, c.IsFull(2023))
	assert.False(t, c.IsFull(2025))
	assert.True(t, c.IsPartial(2025))
	assert.False(t, c.IsPartial(2026), "unknown semester is not labelled partial")

	assert.Equal(t, []string{"2023", "2024", "2025 (1st semester)", "2026", "1999"},
		c.YearLabels([]int{2023, 2024, 2025, 2026, 1999}))
}

func TestCompleteness_FallsBackToLatestYear(t *testing.T) {
	c := NewCompleteness([]types.Record{
		rec(2019, 1, types.DebitCard, 1, 1),
		rec(2020, 1, types.DebitCard, 1, 1),
	})

	latest, ok := c.LatestFullYear()
	require.True(t, ok)
	assert.Equal(t, 2020, latest)
}

func TestCompleteness_NoYears(t *testing.T) {
	_, ok := NewCompleteness([]types.Record{{PaymentMethod: types.DebitCard}}).LatestFullYear()
	assert.False(t, ok)
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestAggregate_WeightedAverage(t *testing.T) {
	aggs := Aggregate([]types.Record{
		rec(2020, 1, types.DebitCard, 100, 10),
		rec(2020, 2, types.DebitCard, 300, 30),
	})

	require.Len(t, aggs, 1)
	assert.Equal(t, types.AnnualAggregate{
		Year:                 2020,
		PaymentMethod:        types.DebitCard,
		AmountMillionYear:    400,
		TransactionCountYear: 40,
		AvgAmountUSDYear:     1e7,
	}, aggs[0])
}

func TestAggregate_SumOfAmountsOverSumOfCounts(t *testing.T) {
	aggs := Aggregate([]types.Record{
		rec(2021, 1, types.CreditCard, 100, 10),
		rec(2021, 2, types.CreditCard, 100, 40),
	})

	require.Len(t, aggs, 1)
	// 200e6 / 50, not the mean of 10e6 and 2.5e6.
	assert.InDelta(t, 4e6, aggs[0].AvgAmountUSDYear, 1e-6)
}

func TestAggregate_OrderingAndMissingValues(t *testing.T) {
	aggs := Aggregate([]types.Record{
		rec(2021, 1, types.DebitCard, 5, 1),
		rec(2020, 1, types.DebitCard, math.NaN(), 2),
		rec(2020, 2, types.CreditCard, 7, 1),
		{PaymentMethod: types.DebitCard, AmountMillion: 99, TransactionCount: 1},
	})

	require.Len(t, aggs, 3)
	assert.Equal(t, 2020, aggs[0].Year)
	assert.Equal(t, types.CreditCard, aggs[0].PaymentMethod)
	assert.Equal(t, types.DebitCard, aggs[1].PaymentMethod)
	assert.Equal(t, 0.0, aggs[1].AmountMillionYear, "missing amount adds nothing")
	assert.Equal(t, 0.0, aggs[1].AvgAmountUSDYear)
	assert.Equal(t, 2021, aggs[2].Year)
}

// =============================================================================
// PIVOT
// =============================================================================

func TestPivot_ZeroFillAndShares(t *testing.T) {
	table := Pivot([]types.AnnualAggregate{
		{Year: 2019, PaymentMethod: types.DebitCard, AmountMillionYear: 300, TransactionCountYear: 30, AvgAmountUSDYear: 1e7},
		{Year: 2019, PaymentMethod: types.CreditCard, AmountMillionYear: 100, TransactionCountYear: 5, AvgAmountUSDYear: 2e7},
		{Year: 2020, PaymentMethod: types.DebitCard, AmountMillionYear: 50, TransactionCountYear: 5, AvgAmountUSDYear: 1e7},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []int{2019, 2020}, table.Years())
	assert.True(t, table.HasMethod(types.DebitCard))
	assert.True(t, table.HasMethod(types.CreditCard))

	first := table.Rows[0]
	assert.Equal(t, 400.0, first.TotalAmountMillion)
	assert.InDelta(t, 0.75, first.ShareDebit, 1e-12)
	assert.InDelta(t, 0.25, first.ShareCredit, 1e-12)

	second := table.Rows[1]
	assert.Equal(t, 0.0, second.AmountMillionCredit)
	assert.Equal(t, 0.0, second.TxCountCredit)
	assert.Equal(t, 0.0, second.AvgUSDCredit)
	assert.Equal(t, 1.0, second.ShareDebit)
	assert.Equal(t, 0.0, second.ShareCredit)
}

func TestPivot_SharesSumToOne(t *testing.T) {
	aggs := []types.AnnualAggregate{}
	for year := 2010; year < 2020; year++ {
		aggs = append(aggs,
			types.AnnualAggregate{Year: year, PaymentMethod: types.DebitCard, AmountMillionYear: float64(year%7) * 13.3},
			types.AnnualAggregate{Year: year, PaymentMethod: types.CreditCard, AmountMillionYear: float64(year%5)*91.1 + 0.7},
		)
	}

	for _, row := range Pivot(aggs).Rows {
		require.Greater(t, row.TotalAmountMillion, 0.0)
		assert.InDelta(t, 1.0, row.ShareDebit+row.ShareCredit, 1e-12, "year %d", row.Year)
	}
}

func TestPivot_ZeroTotalGivesNaNShares(t *testing.T) {
	table := Pivot([]types.AnnualAggregate{
		{Year: 2020, PaymentMethod: types.DebitCard, TransactionCountYear: 3},
	})

	require.Len(t, table.Rows, 1)
	assert.True(t, math.IsNaN(table.Rows[0].ShareDebit))
	assert.True(t, math.IsNaN(table.Rows[0].ShareCredit))
	assert.False(t, table.HasMethod(types.CreditCard))
}

func TestSplitAtMidpoint(t *testing.T) {
	var aggs []types.AnnualAggregate
	for year := 2015; year <= 2025; year++ {
		aggs = append(aggs, types.AnnualAggregate{Year: year, PaymentMethod: types.DebitCard, AmountMillionYear: 1})
	}

	early, late := SplitAtMidpoint(Pivot(aggs))
	assert.Equal(t, []int{2015, 2016, 2017, 2018, 2019, 2020}, early.Years())
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024, 2025}, late.Years())

	early, late = SplitAtMidpoint(&types.AnnualTable{})
	assert.True(t, early.IsEmpty())
	assert.True(t, late.IsEmpty())
}

// =============================================================================
// CAGR
// =============================================================================

func TestCAGR(t *testing.T) {
	got := CAGR([]types.YearValue{{Year: 2015, Value: 100}, {Year: 2025, Value: 200}})
	assert.InDelta(t, 0.0718, got, 1e-4)
	assert.InDelta(t, math.Pow(2, 0.1)-1, got, 1e-12)
}

func TestCAGR_UsesEndpointsAfterSorting(t *testing.T) {
	got := CAGR([]types.YearValue{
		{Year: 2022, Value: 400},
		{Year: 2020, Value: 100},
		{Year: 2021, Value: math.NaN()},
		{Year: 2021, Value: 5000},
	})
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestCAGR_NaNCases(t *testing.T) {
	tests := map[string][]types.YearValue{
		"empty":          nil,
		"single point":   {{Year: 2020, Value: 10}},
		"zero span":      {{Year: 2020, Value: 10}, {Year: 2020, Value: 20}},
		"zero first":     {{Year: 2019, Value: 0}, {Year: 2020, Value: 20}},
		"negative first": {{Year: 2019, Value: -5}, {Year: 2020, Value: 20}},
		"only NaN left":  {{Year: 2019, Value: math.NaN()}, {Year: 2020, Value: 20}},
	}

	for name, points := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, math.IsNaN(CAGR(points)))
		})
	}
}

func TestGrowthRates_WindowedToLatestFullYear(t *testing.T) {
	table := Pivot([]types.AnnualAggregate{
		{Year: 2015, PaymentMethod: types.DebitCard, AmountMillionYear: 100},
		{Year: 2015, PaymentMethod: types.CreditCard, AmountMillionYear: 100},
		{Year: 2025, PaymentMethod: types.DebitCard, AmountMillionYear: 200},
		{Year: 2025, PaymentMethod: types.CreditCard, AmountMillionYear: 400},
		{Year: 2026, PaymentMethod: types.DebitCard, AmountMillionYear: 1},
	})

	rates := GrowthRates(table, 2025)
	require.Len(t, rates, 3)

	assert.Equal(t, MetricAmountDebit, rates[0].Metric)
	assert.InDelta(t, math.Pow(2, 0.1)-1, rates[0].CAGR, 1e-12)
	assert.Equal(t, MetricAmountCredit, rates[1].Metric)
	assert.InDelta(t, math.Pow(4, 0.1)-1, rates[1].CAGR, 1e-12)
	assert.Equal(t, MetricTotalAmount, rates[2].Metric)
	assert.InDelta(t, math.Pow(3, 0.1)-1, rates[2].CAGR, 1e-12)
}

func TestGrowthRates_AbsentMethod(t *testing.T) {
	table := Pivot([]types.AnnualAggregate{
		{Year: 2015, PaymentMethod: types.DebitCard, AmountMillionYear: 100},
		{Year: 2016, PaymentMethod: types.DebitCard, AmountMillionYear: 110},
		{Year: 2016, PaymentMethod: types.CreditCard, AmountMillionYear: 50},
	})

	rates := GrowthRates(table, 2016)
	assert.InDelta(t, 0.1, rates[0].CAGR, 1e-12)
	assert.True(t, math.IsNaN(rates[1].CAGR), "credit is zero-filled in 2015")

	debitOnly := Pivot([]types.AnnualAggregate{
		{Year: 2015, PaymentMethod: types.DebitCard, AmountMillionYear: 100},
		{Year: 2016, PaymentMethod: types.DebitCard, AmountMillionYear: 110},
	})
	assert.True(t, math.IsNaN(GrowthRates(debitOnly, 2016)[1].CAGR))
}

// =============================================================================
// SEMESTERS
// =============================================================================

func TestSemesterAmounts(t *testing.T) {
	records := []types.Record{
		rec(2023, 2, types.CreditCard, 30, 1),
		rec(2022, 1, types.DebitCard, 10, 1),
		rec(2022, 1, types.DebitCard, 5, 1),
		rec(2022, 1, types.CreditCard, 20, 1),
		rec(2023, 1, types.DebitCard, math.NaN(), 1),
		rec(2021, 2, types.DebitCard, 99, 1),
		rec(2026, 1, types.DebitCard, 99, 1),
		{Year: types.Int(2022), PaymentMethod: types.DebitCard, AmountMillion: 1},
	}

	got := SemesterAmounts(records, 2022, 2025)
	assert.Equal(t, []types.SemesterAmount{
		{Year: 2022, Semester: 1, Label: "2022 S1", Debit: 15, Credit: 20},
		{Year: 2023, Semester: 1, Label: "2023 S1", Debit: 0, Credit: 0},
		{Year: 2023, Semester: 2, Label: "2023 S2", Debit: 0, Credit: 30},
	}, got)

	assert.Empty(t, SemesterAmounts(records, 2030, 2031))
}
