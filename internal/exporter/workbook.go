package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "retaileda/internal/errors"
	"retaileda/pkg/contracts/domain"
)

// SummaryWorkbook is the file name of the workbook export.
const SummaryWorkbook = "summary.xlsx"

// WorkbookWriter writes every aggregate into one Excel workbook, one sheet each.
type WorkbookWriter struct {
	dir    string
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer rooted at dir
func NewWorkbookWriter(dir string, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{dir: dir, logger: logger}
}

// Write saves <dir>/summary.xlsx. The first sheet holds the totals.
func (w *WorkbookWriter) Write(ctx context.Context, agg domain.Aggregates) (string, error) {
	path := filepath.Join(w.dir, SummaryWorkbook)

	f := excelize.NewFile()
	defer f.Close()

	totals := Table{
		Name:    "totals",
		Headers: []string{"metric", "value"},
		Rows: [][]interface{}{
			{"transactions", agg.Totals.Transactions},
			{"invoices", agg.Totals.Invoices},
			{"customers", agg.Totals.Customers},
			{"returns", agg.Totals.Returns},
			{"revenue", agg.Totals.Revenue},
		},
	}
	if err := f.SetSheetName("Sheet1", totals.Name); err != nil {
		return "", apperrors.NewStorageError("failed to name totals sheet", err)
	}
	if err := writeSheet(f, totals); err != nil {
		return "", err
	}

	for _, table := range AggregateTables(agg) {
		if _, err := f.NewSheet(table.Name); err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to add sheet %s", table.Name), err)
		}
		if err := writeSheet(f, table); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "aggregates exported to workbook",
		slog.String("path", path),
		slog.Int("sheets", len(f.GetSheetList())))
	return path, nil
}

func writeSheet(f *excelize.File, table Table) error {
	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s header", table.Name), err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = sheetCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell reference", err)
		}
		if err := f.SetSheetRow(table.Name, cell, &cells); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write %s row %d", table.Name, i+1), err)
		}
	}
	return nil
}
