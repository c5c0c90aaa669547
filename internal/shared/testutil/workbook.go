package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// RetailSheet is the sheet name used by the published Online Retail workbook.
const RetailSheet = "Online Retail"

// RetailHeader is the header row of the Online Retail workbook.
var RetailHeader = []interface{}{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// WriteWorkbook saves the given rows on one sheet of a new workbook inside
// t.TempDir and returns its path. The first row is written to A1, so pass
// RetailHeader first for a well-formed file.
func WriteWorkbook(t *testing.T, sheet string, rows ...[]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	} else {
		sheet = "Sheet1"
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// RetailWorkbook writes RetailHeader followed by rows on the RetailSheet sheet.
func RetailWorkbook(t *testing.T, rows ...[]interface{}) string {
	t.Helper()
	return WriteWorkbook(t, RetailSheet, append([][]interface{}{RetailHeader}, rows...)...)
}
