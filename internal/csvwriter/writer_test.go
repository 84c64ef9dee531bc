package csvwriter

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uycards/annual-summary/internal/types"
)

func sampleTable() *types.AnnualTable {
	return &types.AnnualTable{
		Methods: map[string]bool{types.DebitCard: true, types.CreditCard: true},
		Rows: []types.AnnualRow{
			{
				Year:                2023,
				AmountMillionDebit:  300,
				AmountMillionCredit: 100,
				TxCountDebit:        30,
				TxCountCredit:       5,
				AvgUSDDebit:         1e7,
				AvgUSDCredit:        2e7,
				TotalAmountMillion:  400,
				ShareDebit:          0.75,
				ShareCredit:         0.25,
			},
			{
				Year:        2024,
				ShareDebit:  math.NaN(),
				ShareCredit: math.NaN(),
			},
		},
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2368, "2368"},
		{0.75, "0.75"},
		{1e7, "10000000"},
		{1.0 / 3, "0.3333333333333333"},
		{-0.5, "-0.5"},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
}

func TestEncodeAnnualSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeAnnualSummary(&buf, sampleTable()))

	want := "year,amount_million_debit,amount_million_credit,tx_count_debit,tx_count_credit,avg_usd_debit,avg_usd_credit,total_amount_million,share_debit,share_credit\n" +
		"2023,300,100,30,5,10000000,20000000,400,0.75,0.25\n" +
		"2024,0,0,0,0,0,0,0,,\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeAnnualSummary_NilTableWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeAnnualSummary(&buf, nil))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestEncodeAnnualByMethod(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeAnnualByMethod(&buf, []types.AnnualAggregate{
		{Year: 2020, PaymentMethod: types.CreditCard, AmountMillionYear: 12.5, TransactionCountYear: 4, AvgAmountUSDYear: 3125000},
		{Year: 2020, PaymentMethod: types.DebitCard, AmountMillionYear: 400, TransactionCountYear: 40, AvgAmountUSDYear: 1e7},
	}))

	want := "year,payment_method,amount_million_year,transaction_count_year,avg_amount_usd_year\n" +
		"2020,Credit Card,12.5,4,3125000\n" +
		"2020,Debit Card,400,40,10000000\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeCAGR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCAGR(&buf, []types.CAGRRecord{
		{Metric: "amount_million_debit", CAGR: 0.5},
		{Metric: "amount_million_credit", CAGR: math.NaN()},
		{Metric: "total_amount_million", CAGR: 1},
	}))

	want := "metric,cagr\n" +
		"amount_million_debit,0.5\n" +
		"amount_million_credit,\n" +
		"total_amount_million,1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFiles_Deterministic(t *testing.T) {
	dir := t.TempDir()
	summary := filepath.Join(dir, "annual_summary.csv")
	byMethod := filepath.Join(dir, "annual_by_method.csv")
	cagr := filepath.Join(dir, "cagr_summary.csv")

	aggregates := []types.AnnualAggregate{
		{Year: 2023, PaymentMethod: types.DebitCard, AmountMillionYear: 300, TransactionCountYear: 30, AvgAmountUSDYear: 1e7},
	}
	rates := []types.CAGRRecord{{Metric: "total_amount_million", CAGR: 0.0717734625362931}}

	writeAll := func() [][]byte {
		require.NoError(t, WriteAnnualSummary(summary, sampleTable()))
		require.NoError(t, WriteAnnualByMethod(byMethod, aggregates))
		require.NoError(t, WriteCAGR(cagr, rates))

		var contents [][]byte
		for _, path := range []string{summary, byMethod, cagr} {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			contents = append(contents, data)
		}
		return contents
	}

	first := writeAll()
	second := writeAll()
	assert.Equal(t, first, second)
}

func TestWriteFiles_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cagr_summary.csv")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale,"), 100), 0o644))

	require.NoError(t, WriteCAGR(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "metric,cagr\n", string(data))
}

func TestWriteFiles_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "annual_summary.csv")
	err := WriteAnnualSummary(path, sampleTable())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
