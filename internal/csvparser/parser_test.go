package csvparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uycards/annual-summary/internal/config"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestParse_SemicolonExport(t *testing.T) {
	path := writeCSV(t, "\uFEFFyear;semester;payment_method;amount_million;transaction_count\n"+
		"2020;1;Debit Card;$ 2.368;15.288.227\n"+
		"\n"+
		"2020;2;Credit Card;$ 700;46.883.811\n")

	table, err := Parse(path, config.DefaultConfig().CSVSettings)
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "semester", "payment_method", "amount_million", "transaction_count"}, table.Headers)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "$ 2.368", table.Rows[0]["amount_million"])
	assert.Equal(t, "15.288.227", table.Rows[0]["transaction_count"])
	assert.Equal(t, "Credit Card", table.Rows[1]["payment_method"])
	assert.Equal(t, path, table.SourceFile)
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	path := writeCSV(t, "year;semester;payment_method\n2021;1\n")

	table, err := Parse(path, config.DefaultConfig().CSVSettings)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "", table.Rows[0]["payment_method"])
}

func TestParse_EmptyHeaderGetsPositionalName(t *testing.T) {
	path := writeCSV(t, "year;;semester\n2021;x;1\n")

	table, err := Parse(path, config.DefaultConfig().CSVSettings)
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "Column_2", "semester"}, table.Headers)
}

func TestParse_MultiLineHeader(t *testing.T) {
	path := writeCSV(t, "amount;transaction\nmillion;count\n$ 5;10\n")

	settings := config.CSVSettings{Delimiter: ";", HeaderRows: 2, DataStartRow: 3}
	table, err := Parse(path, settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"amount million", "transaction count"}, table.Headers)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "$ 5", table.Rows[0]["amount million"])
}

func TestParse_CommaDelimiter(t *testing.T) {
	path := writeCSV(t, "year,semester\n2019,2\n")

	table, err := Parse(path, config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)
	assert.Equal(t, "2", table.Rows[0]["semester"])
}

func TestParse_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), config.DefaultConfig().CSVSettings)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(writeCSV(t, ""), config.DefaultConfig().CSVSettings)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestGetUniqueValues(t *testing.T) {
	path := writeCSV(t, "payment_method\nDebit Card\nCredit Card\nDebit Card\nCash\n")

	table, err := Parse(path, config.DefaultConfig().CSVSettings)
	require.NoError(t, err)
	assert.Equal(t, []string{"Debit Card", "Credit Card", "Cash"}, GetUniqueValues(table, "payment_method"))
}
