package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retaileda/internal/shared/testutil"
	"retaileda/pkg/contracts/domain"
)

// rawRow builds a record from cells in workbook column order.
func rawRow(row int, cells ...string) domain.RawRecord {
	rec := domain.RawRecord{Row: row}
	copy(rec.Cells[:], cells)
	return rec
}

func rawTable(records ...domain.RawRecord) *domain.RawTable {
	return &domain.RawTable{Source: "retail.xlsx", Sheet: "Online Retail", Records: records}
}

func TestDeduplicate(t *testing.T) {
	a := rawRow(2, "536365", "85123A", "HEART", "6", "40513.35", "2.55", "17850", "United Kingdom")
	b := rawRow(3, "536366", "22633", "HAND WARMER", "6", "40513.35", "1.85", "17850", "United Kingdom")
	aAgain := a
	aAgain.Row = 4

	deduped := Deduplicate(rawTable(a, b, aAgain, b))
	require.Equal(t, 2, deduped.Len())
	assert.Equal(t, 2, deduped.Records[0].Row, "first occurrence wins")
	assert.Equal(t, 3, deduped.Records[1].Row)
	assert.Equal(t, "retail.xlsx", deduped.Source)

	again := Deduplicate(deduped)
	assert.Equal(t, deduped.Records, again.Records, "deduplication is idempotent")
}

func TestDropMissing(t *testing.T) {
	table := rawTable(
		rawRow(2, "536365", "85123A", "HEART", "6", "40513.35", "2.55", "17850", "United Kingdom"),
		rawRow(3, "536366", "22633", "HAND WARMER", "6", "40513.35", "1.85", "", "United Kingdom"),
		rawRow(4, "536367", "84879", "   ", "32", "40513.36", "1.69", "13047", "United Kingdom"),
	)

	out := DropMissing(table)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, 2, out.Records[0].Row)
	assert.Equal(t, 3, table.Len(), "input is not modified")
}

func TestNormalizeCustomerID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14646.0", "14646"},
		{"14646", "14646"},
		{" 14646.00 ", "14646"},
		{"1.4646E4", "14646"},
		{"00123", "00123"},
		{"12345.5", "12345.5"},
		{"C-100", "C-100"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCustomerID(tt.in))
		})
	}
}

func TestCleaner_Clean(t *testing.T) {
	dup := rawRow(2, "536365", "85123A", "HEART", "6", "40513.35", "2.55", "14646.0", "Netherlands")
	dupAgain := dup
	dupAgain.Row = 3

	table := rawTable(
		dup,
		dupAgain,
		rawRow(4, "536366", "22633", "HAND WARMER", "6", "40513.35", "1.85", "", "United Kingdom"),
		rawRow(5, "536367", "84879", "BIRD ORNAMENT", "32", "40513.36", "1.69", "13047", "United Kingdom"),
	)

	logger, handler := testutil.NewTestLogger()
	cleaned, stats := NewCleaner(logger).Clean(context.Background(), table)

	assert.Equal(t, domain.CleanStats{Input: 4, Duplicates: 1, Missing: 1, Output: 2}, stats)
	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "14646", cleaned.Records[0].Get(domain.ColCustomerID))
	assert.Equal(t, "14646.0", table.Records[0].Get(domain.ColCustomerID), "input is not modified")

	for _, rec := range cleaned.Records {
		for _, col := range domain.Columns() {
			assert.NotEmpty(t, rec.Get(col), "row %d column %s", rec.Row, col)
		}
	}
	assert.LessOrEqual(t, cleaned.Len(), table.Len())

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "table cleaned")
}

func TestCleaner_Clean_Empty(t *testing.T) {
	cleaned, stats := NewCleaner(nil).Clean(context.Background(), rawTable())
	assert.Equal(t, 0, cleaned.Len())
	assert.Equal(t, domain.CleanStats{}, stats)
}
