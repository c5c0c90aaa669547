package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "retaileda/internal/errors"
)

func TestWorkbookWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path, err := NewWorkbookWriter(dir, nil).Write(context.Background(), sampleAggregates())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SummaryWorkbook), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"totals", "monthly_sales", "sales_by_month", "weekday_sales",
		"top_products", "top_countries", "top_customers",
	}, f.GetSheetList())

	revenue, err := f.GetCellValue("totals", "B6")
	require.NoError(t, err)
	assert.Equal(t, "87.9", revenue)

	rows, err := f.GetRows("weekday_sales")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"weekday", "total_sales", "transactions"}, rows[0])
	assert.Equal(t, []string{"Saturday", "47.7", "2"}, rows[6])

	country, err := f.GetCellValue("top_countries", "B2")
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", country)
}

func TestWorkbookWriter_Write_StorageError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	_, err := NewWorkbookWriter(missing, nil).Write(context.Background(), sampleAggregates())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}
