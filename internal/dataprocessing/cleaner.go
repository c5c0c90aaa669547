package dataprocessing

import (
	"context"
	"log/slog"

	"retaileda/pkg/contracts/domain"
)

// Cleaner removes duplicate and incomplete rows from a raw table.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean deduplicates, drops rows with missing cells and normalizes customer
// identifiers, in that order. The input table is not modified.
func (c *Cleaner) Clean(ctx context.Context, table *domain.RawTable) (*domain.RawTable, domain.CleanStats) {
	stats := domain.CleanStats{Input: table.Len()}

	deduped := Deduplicate(table)
	stats.Duplicates = stats.Input - deduped.Len()

	complete := DropMissing(deduped)
	stats.Missing = deduped.Len() - complete.Len()

	cleaned := NormalizeCustomerIDs(complete)
	stats.Output = cleaned.Len()

	c.logger.InfoContext(ctx, "table cleaned",
		slog.Int("input_rows", stats.Input),
		slog.Int("duplicates_removed", stats.Duplicates),
		slog.Int("incomplete_removed", stats.Missing),
		slog.Int("output_rows", stats.Output))

	return cleaned, stats
}

// Deduplicate keeps the first occurrence of every distinct row, preserving order.
func Deduplicate(table *domain.RawTable) *domain.RawTable {
	out := emptyLike(table)
	if table == nil {
		return out
	}
	seen := make(map[[domain.NumColumns]string]struct{}, len(table.Records))
	for _, rec := range table.Records {
		if _, dup := seen[rec.Cells]; dup {
			continue
		}
		seen[rec.Cells] = struct{}{}
		out.Records = append(out.Records, rec)
	}
	return out
}

// DropMissing removes every row that has at least one empty cell.
func DropMissing(table *domain.RawTable) *domain.RawTable {
	out := emptyLike(table)
	if table == nil {
		return out
	}
	for _, rec := range table.Records {
		if hasMissing(rec) {
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out
}

// NormalizeCustomerIDs rewrites CustomerID cells in their canonical text form.
func NormalizeCustomerIDs(table *domain.RawTable) *domain.RawTable {
	out := emptyLike(table)
	if table == nil {
		return out
	}
	out.Records = make([]domain.RawRecord, len(table.Records))
	for i, rec := range table.Records {
		rec.Cells[domain.ColCustomerID] = normalizeCustomerID(rec.Cells[domain.ColCustomerID])
		out.Records[i] = rec
	}
	return out
}

func hasMissing(rec domain.RawRecord) bool {
	for _, cell := range rec.Cells {
		if isMissing(cell) {
			return true
		}
	}
	return false
}

func emptyLike(table *domain.RawTable) *domain.RawTable {
	if table == nil {
		return &domain.RawTable{}
	}
	return &domain.RawTable{Source: table.Source, Sheet: table.Sheet}
}
