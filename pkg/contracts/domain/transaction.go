package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column identifies one of the eight raw columns of the retail workbook.
type Column int

const (
	ColInvoiceNo Column = iota
	ColStockCode
	ColDescription
	ColQuantity
	ColInvoiceDate
	ColUnitPrice
	ColCustomerID
	ColCountry

	// NumColumns is the number of raw columns every record carries.
	NumColumns = 8
)

var columnHeaders = [NumColumns]string{
	"InvoiceNo",
	"StockCode",
	"Description",
	"Quantity",
	"InvoiceDate",
	"UnitPrice",
	"CustomerID",
	"Country",
}

// String returns the workbook header name of the column.
func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return "Unknown"
	}
	return columnHeaders[c]
}

// Columns lists the raw columns in workbook order.
func Columns() []Column {
	cols := make([]Column, NumColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// RawRecord is one data row of the workbook before type conversion.
// Cells are kept as read; an empty cell means the value is missing.
type RawRecord struct {
	Row   int               `json:"row"`
	Cells [NumColumns]string `json:"cells"`
}

// Get returns the cell for the given column.
func (r RawRecord) Get(c Column) string {
	return r.Cells[c]
}

// RawTable is the working table between the Loader and the Enricher.
type RawTable struct {
	Source  string      `json:"source"`
	Sheet   string      `json:"sheet"`
	Records []RawRecord `json:"records"`
}

// Len returns the number of rows in the table.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Transaction is a typed, enriched invoice line.
type Transaction struct {
	InvoiceNo   string          `json:"invoice_no"`
	StockCode   string          `json:"stock_code"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	InvoiceDate time.Time       `json:"invoice_date"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CustomerID  string          `json:"customer_id"`
	Country     string          `json:"country"`

	// Derived by the enricher.
	TotalSales decimal.Decimal `json:"total_sales"`
	Month      time.Month      `json:"month"`
	Weekday    time.Weekday    `json:"weekday"`
}

// IsReturn reports whether the line is a refund or cancellation.
func (t Transaction) IsReturn() bool {
	return t.Quantity < 0
}

// CleanStats summarizes what the cleaner removed.
type CleanStats struct {
	Input      int `json:"input"`
	Duplicates int `json:"duplicates"`
	Missing    int `json:"missing"`
	Output     int `json:"output"`
}

// ValueKind is the inferred type of a raw column.
type ValueKind string

const (
	KindEmpty    ValueKind = "empty"
	KindInteger  ValueKind = "integer"
	KindDecimal  ValueKind = "decimal"
	KindDatetime ValueKind = "datetime"
	KindText     ValueKind = "text"
)

// ColumnProfile describes one column of a table.
type ColumnProfile struct {
	Name    string    `json:"name"`
	Missing int       `json:"missing"`
	Kind    ValueKind `json:"kind"`
}

// TableProfile is the shape, null count and type listing of a table.
type TableProfile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}
