package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"retaileda/pkg/contracts/domain"
)

// Table is one aggregate laid out as rows, shared by the CSV and workbook writers.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// AggregateTables lays out every tabular aggregate in export order.
func AggregateTables(agg domain.Aggregates) []Table {
	monthly := Table{Name: "monthly_sales", Headers: []string{"period_end", "total_sales", "transactions"}}
	for _, p := range agg.MonthlyTrend {
		monthly.Rows = append(monthly.Rows, []interface{}{p.PeriodEnd, p.Total, p.Count})
	}

	byMonth := Table{Name: "sales_by_month", Headers: []string{"month", "total_sales", "transactions"}}
	for _, kv := range agg.SalesByMonth {
		byMonth.Rows = append(byMonth.Rows, []interface{}{kv.Key, kv.Value, kv.Count})
	}

	weekday := Table{Name: "weekday_sales", Headers: []string{"weekday", "total_sales", "transactions"}}
	for _, d := range agg.WeekdaySales {
		weekday.Rows = append(weekday.Rows, []interface{}{d.Weekday.String(), d.Total, d.Count})
	}

	return []Table{
		monthly,
		byMonth,
		weekday,
		rankingTable("top_products", "description", "quantity", agg.TopProducts),
		rankingTable("top_countries", "country", "total_sales", agg.TopCountries),
		rankingTable("top_customers", "customer_id", "total_sales", agg.TopCustomers),
	}
}

func rankingTable(name, keyHeader, valueHeader string, ranked []domain.KeyedValue) Table {
	t := Table{Name: name, Headers: []string{"rank", keyHeader, valueHeader, "transactions"}}
	for i, kv := range ranked {
		t.Rows = append(t.Rows, []interface{}{i + 1, kv.Key, kv.Value, kv.Count})
	}
	return t
}

// Records formats every row as text for CSV output.
func (t Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = formatCell(cell)
		}
		records[i] = rec
	}
	return records
}

// formatCell renders money with two decimals and dates as ISO days.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.StringFixed(2)
	case time.Time:
		return val.Format("2006-01-02")
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	default:
		return ""
	}
}

// sheetCell converts a cell into a value excelize stores natively.
func sheetCell(v interface{}) interface{} {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.Round(2).InexactFloat64()
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return val
	}
}
