// =============================================================================
// Uruguay Card Payments - Semester Series
// =============================================================================
//
// Per-semester amounts for the post-pandemic chart.
//
// =============================================================================

package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/uycards/annual-summary/internal/types"
)

type yearSemester struct {
	year     int
	semester int
}

// SemesterAmounts sums the amount per (year, semester) and method for years
// in [fromYear, toYear]. Rows without a year or semester are skipped; a
// method absent in a semester is 0. Output is chronological and labelled
// "YYYY SN".
func SemesterAmounts(records []types.Record, fromYear, toYear int) []types.SemesterAmount {
	bySemester := make(map[yearSemester]*types.SemesterAmount)

	for _, record := range records {
		if !record.Year.Valid || !record.Semester.Valid {
			continue
		}
		if record.Year.Value < fromYear || record.Year.Value > toYear {
			continue
		}

		key := yearSemester{year: record.Year.Value, semester: record.Semester.Value}
		amount, ok := bySemester[key]
		if !ok {
			amount = &types.SemesterAmount{
				Year:     key.year,
				Semester: key.semester,
				Label:    fmt.Sprintf("%d S%d", key.year, key.semester),
			}
			bySemester[key] = amount
		}

		value := record.AmountMillion
		if math.IsNaN(value) {
			value = 0
		}

		switch record.PaymentMethod {
		case types.DebitCard:
			amount.Debit += value
		case types.CreditCard:
			amount.Credit += value
		}
	}

	out := make([]types.SemesterAmount, 0, len(bySemester))
	for _, amount := range bySemester {
		out = append(out, *amount)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Semester < out[j].Semester
	})

	return out
}
