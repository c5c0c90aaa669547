package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "retaileda/internal/errors"
	"retaileda/internal/validation"
	"retaileda/pkg/contracts/domain"
)

// Loader reads the retail workbook into a RawTable.
type Loader struct {
	logger    *slog.Logger
	validator *validation.FileValidator
	sheet     string
}

// NewLoader creates a loader. An empty sheet selects the first sheet of the workbook.
func NewLoader(logger *slog.Logger, sheet string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		sheet:     sheet,
	}
}

// Load opens the workbook at path and returns every non-empty data row.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RawTable, error) {
	if err := l.validator.ValidateWorkbook(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFileFormatError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheet, err := l.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, apperrors.NewFileFormatError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	defer rows.Close()

	table := &domain.RawTable{Source: path, Sheet: sheet}
	var columnMap [domain.NumColumns]int
	headerFound := false
	rowNum := 0

	for rows.Next() {
		rowNum++
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.NewFileFormatError(fmt.Sprintf("failed to read row %d", rowNum), err)
		}
		if isBlankRow(cells) {
			continue
		}

		if !headerFound {
			columnMap, err = mapHeader(cells)
			if err != nil {
				return nil, err
			}
			headerFound = true
			l.logger.DebugContext(ctx, "header row found",
				slog.Int("row_number", rowNum),
				slog.Any("columns", cells))
			continue
		}

		record := domain.RawRecord{Row: rowNum}
		for col, idx := range columnMap {
			if idx < len(cells) {
				record.Cells[col] = cells[idx]
			}
		}
		table.Records = append(table.Records, record)
	}
	if err := rows.Error(); err != nil {
		return nil, apperrors.NewFileFormatError(fmt.Sprintf("failed to iterate sheet %q", sheet), err)
	}

	if !headerFound {
		return nil, apperrors.NewFileFormatError(fmt.Sprintf("sheet %q has no header row", sheet), nil)
	}

	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Records)))

	return table, nil
}

// resolveSheet returns the configured sheet, or the first one in the workbook.
func (l *Loader) resolveSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if l.sheet != "" {
		for _, name := range sheets {
			if name == l.sheet {
				return name, nil
			}
		}
		return "", apperrors.NewFileFormatError(
			fmt.Sprintf("sheet %q not found in workbook", l.sheet), nil).
			WithContext("sheets", sheets)
	}
	if len(sheets) == 0 {
		return "", apperrors.NewFileFormatError("workbook has no sheets", nil)
	}
	return sheets[0], nil
}

// mapHeader locates each raw column in the header row.
func mapHeader(header []string) ([domain.NumColumns]int, error) {
	var columnMap [domain.NumColumns]int
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, dup := positions[key]; !dup && key != "" {
			positions[key] = i
		}
	}

	var missing []string
	for _, col := range domain.Columns() {
		idx, ok := positions[normalizeHeader(col.String())]
		if !ok {
			missing = append(missing, col.String())
			continue
		}
		columnMap[col] = idx
	}
	if len(missing) > 0 {
		return columnMap, apperrors.NewFileFormatError(
			fmt.Sprintf("missing expected columns: %s", strings.Join(missing, ", ")), nil)
	}
	return columnMap, nil
}

// normalizeHeader folds case and drops spaces and underscores: "Customer ID" == "CustomerID".
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "").Replace(s)
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
