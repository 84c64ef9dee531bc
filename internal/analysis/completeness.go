// =============================================================================
// Uruguay Card Payments - Year Completeness
// =============================================================================
//
// Decides which years are complete (data through the second semester) and
// how partial years are labelled.
//
// =============================================================================

// Package analysis turns cleaned records into the annual tables, growth
// rates and semester series the report is built from. Every function is
// pure: tables in, tables out.
package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/uycards/annual-summary/internal/types"
)

// Completeness knows, per year, the last semester present in the data.
type Completeness struct {
	maxSemester map[int]int
	years       map[int]bool
}

// NewCompleteness scans records for the highest semester of each year.
// Records without a year are ignored; a year whose semesters are all
// missing is known but has no maximum semester.
func NewCompleteness(records []types.Record) *Completeness {
	c := &Completeness{
		maxSemester: make(map[int]int),
		years:       make(map[int]bool),
	}

	for _, record := range records {
		if !record.Year.Valid {
			continue
		}
		year := record.Year.Value
		c.years[year] = true

		if !record.Semester.Valid {
			continue
		}
		if current, ok := c.maxSemester[year]; !ok || record.Semester.Value > current {
			c.maxSemester[year] = record.Semester.Value
		}
	}

	return c
}

// Years returns every year seen, ascending.
func (c *Completeness) Years() []int {
	years := make([]int, 0, len(c.years))
	for year := range c.years {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// IsFull reports whether the year has data through the second semester.
func (c *Completeness) IsFull(year int) bool {
	return c.maxSemester[year] >= 2
}

// IsPartial reports whether the year is known to stop at the first semester.
func (c *Completeness) IsPartial(year int) bool {
	semester, ok := c.maxSemester[year]
	return ok && semester < 2
}

// LatestFullYear returns the most recent full year, falling back to the most
// recent year present. ok is false when no record has a year.
func (c *Completeness) LatestFullYear() (year int, ok bool) {
	latestFull, latest := 0, 0
	haveFull, haveAny := false, false

	for y := range c.years {
		if !haveAny || y > latest {
			latest = y
			haveAny = true
		}
		if c.IsFull(y) && (!haveFull || y > latestFull) {
			latestFull = y
			haveFull = true
		}
	}

	if haveFull {
		return latestFull, true
	}
	return latest, haveAny
}

// YearLabel is the axis label for a year: "2025 (1st semester)" when only the
// first semester is present, the plain year otherwise.
func (c *Completeness) YearLabel(year int) string {
	if c.IsPartial(year) {
		return fmt.Sprintf("%d (1st semester)", year)
	}
	return strconv.Itoa(year)
}

// YearLabels maps YearLabel over years.
func (c *Completeness) YearLabels(years []int) []string {
	labels := make([]string, len(years))
	for i, year := range years {
		labels[i] = c.YearLabel(year)
	}
	return labels
}
