// =============================================================================
// Uruguay Card Payments - XLSX Parser
// =============================================================================
//
// This module reads the statistics workbook when the input is an .xlsx file
// instead of the semicolon export. The layout is the same as the CSV:
//
//   | year | semester | payment_method | amount_million | transaction_count |
//   |------|----------|----------------|----------------|-------------------|
//   | 2020 | 1        | Debit Card     | $ 2.368        | 15.288.227        |
//
// Values are read as displayed text (excelize GetRows) so the cleaner sees
// the same strings it would see in the CSV export.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/uycards/annual-summary/internal/types"
)

// ErrNoSheet is returned when the workbook has no usable worksheet.
var ErrNoSheet = errors.New("workbook has no worksheet")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first worksheet of a workbook.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//
// RETURNS:
//   - The table with row 1 as headers.
//   - An error if the workbook cannot be opened or read.
func Parse(filePath string) (*types.Table, error) {
	return ParseSheet(filePath, "")
}

// ParseSheet reads the named worksheet. An empty sheet name selects the
// first sheet in the workbook.
func ParseSheet(filePath, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("%s: %w", filePath, ErrNoSheet)
	}

	// Raw values skip number formats, so 15288227 styled "#,##0" is not
	// read as "15,288,227".
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	table := &types.Table{SourceFile: filePath, Rows: []map[string]string{}}
	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = parseHeaderRow(rows[0])

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		table.Rows = append(table.Rows, parseRow(row, table.Headers))
	}

	return table, nil
}

// parseHeaderRow trims the header cells and names blank ones by position.
func parseHeaderRow(row []string) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		header := strings.TrimSpace(cell)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}
	return headers
}

// parseRow maps one worksheet row onto the headers. GetRows drops trailing
// empty cells, so short rows are padded.
func parseRow(row []string, headers []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			values[header] = strings.TrimSpace(row[i])
		} else {
			values[header] = ""
		}
	}
	return values
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
