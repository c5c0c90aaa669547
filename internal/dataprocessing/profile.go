package dataprocessing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"retaileda/pkg/contracts/domain"
)

// Profile returns the shape, per-column missing counts and inferred column
// kinds of a raw table.
func Profile(table *domain.RawTable) domain.TableProfile {
	profile := domain.TableProfile{
		Rows:    table.Len(),
		Columns: make([]domain.ColumnProfile, 0, domain.NumColumns),
	}

	for _, col := range domain.Columns() {
		cp := domain.ColumnProfile{Name: col.String()}
		var values []string
		if table != nil {
			for _, rec := range table.Records {
				cell := rec.Get(col)
				if isMissing(cell) {
					cp.Missing++
					continue
				}
				values = append(values, cell)
			}
		}
		cp.Kind = inferKind(col, values)
		profile.Columns = append(profile.Columns, cp)
	}
	return profile
}

// inferKind picks the narrowest kind that fits every present value.
// Only InvoiceDate is ever reported as datetime; elsewhere an Excel serial is just a number.
func inferKind(col domain.Column, values []string) domain.ValueKind {
	if len(values) == 0 {
		return domain.KindEmpty
	}

	if col == domain.ColInvoiceDate {
		allDates := true
		for _, v := range values {
			if _, err := parseTimestamp(v); err != nil {
				allDates = false
				break
			}
		}
		if allDates {
			return domain.KindDatetime
		}
	}

	kind := domain.KindInteger
	for _, v := range values {
		s := strings.TrimSpace(v)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			continue
		}
		if _, err := decimal.NewFromString(s); err == nil {
			kind = domain.KindDecimal
			continue
		}
		return domain.KindText
	}
	return kind
}
