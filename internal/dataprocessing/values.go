package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// timestampLayouts are the textual InvoiceDate forms accepted besides Excel serials.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"2006-01-02",
}

// parseTimestamp accepts an Excel date serial or one of timestampLayouts.
// Serials are rounded to the second to absorb floating point drift.
func parseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 || math.IsInf(serial, 0) || math.IsNaN(serial) {
			return time.Time{}, fmt.Errorf("serial %v out of range", serial)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t.Round(time.Second), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseQuantity accepts integers, including integral decimals such as "6.0".
func parseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if q, err := strconv.ParseInt(s, 10, 64); err == nil {
		return q, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("quantity %s is not a whole number", s)
	}
	return d.IntPart(), nil
}

// parsePrice parses a non-negative unit price.
func parsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("unit price %s is negative", d)
	}
	return d, nil
}

// normalizeCustomerID renders numeric identifiers without a fractional part,
// so a cell read as "14646.0" or "1.4646E4" becomes "14646". Zero-padded and
// non-numeric identifiers are returned trimmed but otherwise unchanged.
func normalizeCustomerID(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return s
	}
	return d.String()
}

// isMissing reports whether a raw cell holds no value.
func isMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
