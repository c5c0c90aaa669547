package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"retaileda/pkg/contracts/domain"
)

// Data is everything one run prints.
type Data struct {
	RunID        string
	Source       string
	Sheet        string
	RawProfile   domain.TableProfile
	CleanStats   domain.CleanStats
	CleanProfile domain.TableProfile
	Aggregates   domain.Aggregates
	Artifacts    []string
}

// TableConfig sets the column widths of the printed tables.
type TableConfig struct {
	LabelWidth int
	ValueWidth int
}

// DefaultTableConfig returns widths that fit product descriptions of the Online Retail set.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 36,
		ValueWidth: 16,
	}
}

// Reporter renders the run summary as plain text.
type Reporter struct {
	writer  io.Writer
	config  TableConfig
	printer *message.Printer
	tmpl    *template.Template
}

// NewReporter creates a reporter writing to writer, or stdout when nil.
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := &Reporter{
		writer:  writer,
		config:  DefaultTableConfig(),
		printer: message.NewPrinter(language.English),
	}
	r.tmpl = template.Must(template.New("report").Funcs(r.funcs()).Parse(reportTemplate))
	return r
}

// Render writes the report for data.
func (r *Reporter) Render(data *Data) error {
	if err := r.tmpl.Execute(r.writer, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// SaturdayLine is the one-line result of the Saturday sales check.
func (r *Reporter) SaturdayLine(s domain.SaturdayReport) string {
	if s.Empty {
		return "No sales on Saturday."
	}
	return r.printer.Sprintf("Saturday sales: %d transactions totalling %s",
		s.Transactions, r.money(s.Total))
}

func (r *Reporter) money(d decimal.Decimal) string {
	return r.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (r *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"money": r.money,
		"count": func(n int) string {
			return r.printer.Sprintf("%d", n)
		},
		"quantity": func(d decimal.Decimal) string {
			return r.printer.Sprintf("%d", d.IntPart())
		},
		"float": func(f float64) string {
			return r.printer.Sprintf("%.2f", f)
		},
		"row": func(label string, values ...string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "  %-*s", r.config.LabelWidth, truncate(label, r.config.LabelWidth))
			for _, v := range values {
				fmt.Fprintf(&b, " %*s", r.config.ValueWidth, v)
			}
			return strings.TrimRight(b.String(), " ")
		},
		"month": func(kv domain.MonthPoint) string {
			return kv.PeriodEnd.Format("2006-01-02")
		},
		"saturday": r.SaturdayLine,
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

const reportTemplate = `Online Retail exploratory analysis
Source: {{.Source}} (sheet {{.Sheet}})
{{- if .RunID}}
Run: {{.RunID}}{{end}}

=== Raw data ===
{{template "profile" .RawProfile}}
=== Cleaning ===
{{row "rows read" (count .CleanStats.Input)}}
{{row "duplicates removed" (count .CleanStats.Duplicates)}}
{{row "rows with missing values removed" (count .CleanStats.Missing)}}
{{row "rows kept" (count .CleanStats.Output)}}

=== Cleaned data ===
{{template "profile" .CleanProfile}}
=== Summary statistics ===
{{row "" "count" "mean" "std" "min" "25%" "50%" "75%" "max"}}
{{range .Aggregates.Describe}}{{row .Name (count .Count) (float .Mean) (float .Std) (float .Min) (float .Q25) (float .Q50) (float .Q75) (float .Max)}}
{{end}}
=== Totals ===
{{with .Aggregates.Totals}}{{row "transactions" (count .Transactions)}}
{{row "invoices" (count .Invoices)}}
{{row "customers" (count .Customers)}}
{{row "returns" (count .Returns)}}
{{row "revenue" (money .Revenue)}}
{{end}}
=== Monthly sales trend ===
{{range .Aggregates.MonthlyTrend}}{{row (month .) (money .Total) (count .Count)}}
{{else}}  no transactions
{{end}}
=== Sales by month ===
{{range .Aggregates.SalesByMonth}}{{row .Key (money .Value)}}
{{else}}  no transactions
{{end}}
=== Sales by day of the week ===
{{range .Aggregates.WeekdaySales}}{{row .Weekday.String (money .Total) (count .Count)}}
{{end}}
=== Top products by quantity ===
{{range .Aggregates.TopProducts}}{{row .Key (quantity .Value)}}
{{else}}  none
{{end}}
=== Top countries by sales ===
{{range .Aggregates.TopCountries}}{{row .Key (money .Value)}}
{{else}}  none
{{end}}
=== Top customers by sales ===
{{range .Aggregates.TopCustomers}}{{row .Key (money .Value)}}
{{else}}  none
{{end}}
=== Saturday sales ===
{{saturday .Aggregates.Saturday}}
{{if .Artifacts}}
=== Files written ===
{{range .Artifacts}}  {{.}}
{{end}}{{end}}
{{- define "profile"}}{{row "rows" (count .Rows)}}
{{row "columns" (count (len .Columns))}}
{{row "column" "missing" "type"}}
{{range .Columns}}{{row .Name (count .Missing) (printf "%s" .Kind)}}
{{end}}{{end}}`
