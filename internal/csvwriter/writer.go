// =============================================================================
// Uruguay Card Payments - CSV Writer Module
// =============================================================================
//
// This module persists the derived tables as comma-delimited CSV files with a
// header row and LF line endings.
//
// OUTPUT FILES:
//   annual_summary.csv    one wide row per year
//   annual_by_method.csv  one row per (year, payment method)
//   cagr_summary.csv      one row per growth metric
//
// NUMBER FORMAT:
//   Floats use the shortest decimal that round-trips (no exponent). NaN is
//   written as an empty field. Files are truncated on every run, so the same
//   input always produces the same bytes.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/uycards/annual-summary/internal/types"
)

// =============================================================================
// HEADERS
// =============================================================================

// AnnualSummaryHeader is the header row of annual_summary.csv.
var AnnualSummaryHeader = []string{
	"year",
	"amount_million_debit",
	"amount_million_credit",
	"tx_count_debit",
	"tx_count_credit",
	"avg_usd_debit",
	"avg_usd_credit",
	"total_amount_million",
	"share_debit",
	"share_credit",
}

// AnnualByMethodHeader is the header row of annual_by_method.csv.
var AnnualByMethodHeader = []string{
	"year",
	"payment_method",
	"amount_million_year",
	"transaction_count_year",
	"avg_amount_usd_year",
}

// CAGRHeader is the header row of cagr_summary.csv.
var CAGRHeader = []string{"metric", "cagr"}

// =============================================================================
// FILE WRITERS
// =============================================================================

// WriteAnnualSummary writes the wide annual table to path.
func WriteAnnualSummary(path string, table *types.AnnualTable) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeAnnualSummary(w, table)
	})
}

// WriteAnnualByMethod writes the long (year, method) aggregates to path.
func WriteAnnualByMethod(path string, aggregates []types.AnnualAggregate) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeAnnualByMethod(w, aggregates)
	})
}

// WriteCAGR writes the growth-rate table to path.
func WriteCAGR(path string, rates []types.CAGRRecord) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeCAGR(w, rates)
	})
}

// writeFile creates (or truncates) path and closes it exactly once.
func writeFile(path string, encode func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if err := encode(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// ENCODERS
// =============================================================================

// EncodeAnnualSummary writes the wide annual table as CSV to w.
func EncodeAnnualSummary(w io.Writer, table *types.AnnualTable) error {
	var rows [][]string
	if table != nil {
		rows = make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, []string{
				strconv.Itoa(row.Year),
				FormatFloat(row.AmountMillionDebit),
				FormatFloat(row.AmountMillionCredit),
				FormatFloat(row.TxCountDebit),
				FormatFloat(row.TxCountCredit),
				FormatFloat(row.AvgUSDDebit),
				FormatFloat(row.AvgUSDCredit),
				FormatFloat(row.TotalAmountMillion),
				FormatFloat(row.ShareDebit),
				FormatFloat(row.ShareCredit),
			})
		}
	}
	return encode(w, AnnualSummaryHeader, rows)
}

// EncodeAnnualByMethod writes the long aggregates as CSV to w.
func EncodeAnnualByMethod(w io.Writer, aggregates []types.AnnualAggregate) error {
	rows := make([][]string, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, []string{
			strconv.Itoa(agg.Year),
			agg.PaymentMethod,
			FormatFloat(agg.AmountMillionYear),
			FormatFloat(agg.TransactionCountYear),
			FormatFloat(agg.AvgAmountUSDYear),
		})
	}
	return encode(w, AnnualByMethodHeader, rows)
}

// EncodeCAGR writes the growth-rate table as CSV to w.
func EncodeCAGR(w io.Writer, rates []types.CAGRRecord) error {
	rows := make([][]string, 0, len(rates))
	for _, rate := range rates {
		rows = append(rows, []string{rate.Metric, FormatFloat(rate.CAGR)})
	}
	return encode(w, CAGRHeader, rows)
}

func encode(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// FormatFloat renders v in plain decimal notation with the fewest digits that
// parse back to v. NaN renders as an empty string.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
