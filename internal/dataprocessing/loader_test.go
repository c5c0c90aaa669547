package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retaileda/internal/errors"
	"retaileda/internal/shared/testutil"
	"retaileda/pkg/contracts/domain"
)

func TestLoader_Load(t *testing.T) {
	invoiceDate := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	path := testutil.RetailWorkbook(t,
		[]interface{}{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 6, invoiceDate, 2.55, 17850, "United Kingdom"},
		[]interface{}{},
		[]interface{}{"536366", "22633", "HAND WARMER UNION JACK", 6, "2010-12-01 08:28:00", 1.85, "17850.0", "United Kingdom"},
		[]interface{}{"536367", "84879", "ASSORTED COLOUR BIRD ORNAMENT", 32, "2010-12-01 08:34:00", 1.69, nil, "United Kingdom"},
	)

	loader := NewLoader(nil, "")
	table, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, testutil.RetailSheet, table.Sheet)
	require.Equal(t, 3, table.Len())

	first := table.Records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "536365", first.Get(domain.ColInvoiceNo))
	assert.Equal(t, "6", first.Get(domain.ColQuantity))
	assert.Equal(t, "2.55", first.Get(domain.ColUnitPrice))
	assert.Equal(t, "17850", first.Get(domain.ColCustomerID))

	// Dates are kept as raw serials; the enricher converts them.
	ts, err := parseTimestamp(first.Get(domain.ColInvoiceDate))
	require.NoError(t, err)
	assert.True(t, invoiceDate.Equal(ts), "got %s", ts)

	assert.Equal(t, 4, table.Records[1].Row, "blank row is skipped but counted")
	assert.Equal(t, "17850.0", table.Records[1].Get(domain.ColCustomerID))
	assert.Empty(t, table.Records[2].Get(domain.ColCustomerID))
}

func TestLoader_Load_HeaderVariants(t *testing.T) {
	path := testutil.WriteWorkbook(t, "Data",
		[]interface{}{"Country", "invoice_no", "Stock Code", "DESCRIPTION", "quantity", "Invoice Date", "Unit Price", "Customer ID"},
		[]interface{}{"France", "536370", "22728", "ALARM CLOCK BAKELIKE PINK", 24, "2010-12-01 08:45:00", 3.75, 12583},
	)

	table, err := NewLoader(nil, "Data").Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	rec := table.Records[0]
	assert.Equal(t, "536370", rec.Get(domain.ColInvoiceNo))
	assert.Equal(t, "France", rec.Get(domain.ColCountry))
	assert.Equal(t, "12583", rec.Get(domain.ColCustomerID))
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		sheet    string
		setup    func(t *testing.T) string
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "Online Retail.xlsx")
			},
			wantType: apperrors.ErrTypeFileNotFound,
		},
		{
			name: "not a workbook",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "corrupt.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("definitely not a zip archive"), 0644))
				return path
			},
			wantType: apperrors.ErrTypeFileFormat,
		},
		{
			name: "missing columns",
			setup: func(t *testing.T) string {
				return testutil.WriteWorkbook(t, "",
					[]interface{}{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice"},
					[]interface{}{"536365", "85123A", "HEART", 6, "2010-12-01 08:26:00", 2.55},
				)
			},
			wantType: apperrors.ErrTypeFileFormat,
			wantMsg:  "CustomerID, Country",
		},
		{
			name:  "unknown sheet",
			sheet: "Sales",
			setup: func(t *testing.T) string {
				return testutil.RetailWorkbook(t)
			},
			wantType: apperrors.ErrTypeFileFormat,
			wantMsg:  `sheet "Sales" not found`,
		},
		{
			name: "empty sheet",
			setup: func(t *testing.T) string {
				return testutil.WriteWorkbook(t, "")
			},
			wantType: apperrors.ErrTypeFileFormat,
			wantMsg:  "no header row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil, tt.sheet).Load(context.Background(), tt.setup(t))
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoader_Load_HeaderOnly(t *testing.T) {
	table, err := NewLoader(nil, "").Load(context.Background(), testutil.RetailWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
