package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"retaileda/pkg/contracts/domain"
)

// DefaultTopN is the length of the top-N rankings when none is configured.
const DefaultTopN = 10

// Aggregator computes every analysis result over a set of transactions.
type Aggregator struct {
	logger *slog.Logger
	topN   int
}

// NewAggregator creates an aggregator producing rankings of length topN.
func NewAggregator(logger *slog.Logger, topN int) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Aggregator{logger: logger, topN: topN}
}

// Aggregate computes the aggregates. Each result is independent of the others.
func (a *Aggregator) Aggregate(ctx context.Context, txns []domain.Transaction) domain.Aggregates {
	agg := domain.Aggregates{
		Totals:       ComputeTotals(txns),
		Describe:     Describe(txns),
		MonthlyTrend: MonthlyTrend(txns),
		SalesByMonth: SalesByMonth(txns),
		WeekdaySales: WeekdaySales(txns),
		TopProducts:  TopProducts(txns, a.topN),
		TopCountries: TopCountries(txns, a.topN),
		TopCustomers: TopCustomers(txns, a.topN),
		Saturday:     Saturday(txns),
	}

	a.logger.InfoContext(ctx, "aggregates computed",
		slog.Int("transactions", agg.Totals.Transactions),
		slog.Int("months", len(agg.MonthlyTrend)),
		slog.String("revenue", agg.Totals.Revenue.StringFixed(2)),
		slog.Bool("saturday_sales", !agg.Saturday.Empty))
	return agg
}

// MonthlyTrend sums total sales per calendar month from the first to the last
// month present. Months without transactions are included with a zero total.
func MonthlyTrend(txns []domain.Transaction) []domain.MonthPoint {
	if len(txns) == 0 {
		return nil
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[time.Time]*bucket)
	first, last := monthStart(txns[0].InvoiceDate), monthStart(txns[0].InvoiceDate)
	for _, t := range txns {
		m := monthStart(t.InvoiceDate)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		b.total = b.total.Add(t.TotalSales)
		b.count++
	}

	var points []domain.MonthPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		point := domain.MonthPoint{PeriodEnd: m.AddDate(0, 1, -1)}
		if b, ok := buckets[m]; ok {
			point.Total = b.total
			point.Count = b.count
		}
		points = append(points, point)
	}
	return points
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SalesByMonth sums total sales by month number, ignoring the year.
// Only months that have transactions are returned, in calendar order.
func SalesByMonth(txns []domain.Transaction) []domain.KeyedValue {
	var totals [13]domain.KeyedValue
	for _, t := range txns {
		kv := &totals[t.Month]
		kv.Value = kv.Value.Add(t.TotalSales)
		kv.Count++
	}

	var out []domain.KeyedValue
	for m := time.January; m <= time.December; m++ {
		if totals[m].Count == 0 {
			continue
		}
		kv := totals[m]
		kv.Key = strconv.Itoa(int(m))
		out = append(out, kv)
	}
	return out
}

// WeekdaySales sums total sales per day of the week. The result always has
// seven entries ordered Monday to Sunday.
func WeekdaySales(txns []domain.Transaction) []domain.WeekdayTotal {
	var byDay [7]domain.WeekdayTotal
	for _, t := range txns {
		d := &byDay[t.Weekday]
		d.Total = d.Total.Add(t.TotalSales)
		d.Count++
	}

	out := make([]domain.WeekdayTotal, 0, len(domain.WeekOrder))
	for _, wd := range domain.WeekOrder {
		d := byDay[wd]
		d.Weekday = wd
		out = append(out, d)
	}
	return out
}

// TopProducts ranks descriptions by total quantity sold.
func TopProducts(txns []domain.Transaction, n int) []domain.KeyedValue {
	return topBy(txns, n,
		func(t domain.Transaction) string { return t.Description },
		func(t domain.Transaction) decimal.Decimal { return decimal.NewFromInt(t.Quantity) })
}

// TopCountries ranks countries by total sales.
func TopCountries(txns []domain.Transaction, n int) []domain.KeyedValue {
	return topBy(txns, n,
		func(t domain.Transaction) string { return t.Country },
		func(t domain.Transaction) decimal.Decimal { return t.TotalSales })
}

// TopCustomers ranks customer ids by total sales.
func TopCustomers(txns []domain.Transaction, n int) []domain.KeyedValue {
	return topBy(txns, n,
		func(t domain.Transaction) string { return t.CustomerID },
		func(t domain.Transaction) decimal.Decimal { return t.TotalSales })
}

// topBy groups by key, sums value and returns at most n groups ordered by
// value descending, then key ascending.
func topBy(txns []domain.Transaction, n int,
	key func(domain.Transaction) string,
	value func(domain.Transaction) decimal.Decimal) []domain.KeyedValue {

	groups := make(map[string]*domain.KeyedValue)
	for _, t := range txns {
		k := key(t)
		kv, ok := groups[k]
		if !ok {
			kv = &domain.KeyedValue{Key: k}
			groups[k] = kv
		}
		kv.Value = kv.Value.Add(value(t))
		kv.Count++
	}

	ranked := make([]domain.KeyedValue, 0, len(groups))
	for _, kv := range groups {
		ranked = append(ranked, *kv)
	}
	slices.SortFunc(ranked, func(a, b domain.KeyedValue) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Saturday reports the transaction count and total sales of Saturday
// transactions. Empty is set when there are none.
func Saturday(txns []domain.Transaction) domain.SaturdayReport {
	var report domain.SaturdayReport
	for _, t := range txns {
		if t.Weekday != time.Saturday {
			continue
		}
		report.Transactions++
		report.Total = report.Total.Add(t.TotalSales)
	}
	report.Empty = report.Transactions == 0
	return report
}

// ComputeTotals counts transactions, distinct invoices and customers, returns
// and total revenue.
func ComputeTotals(txns []domain.Transaction) domain.Totals {
	invoices := make(map[string]struct{})
	customers := make(map[string]struct{})
	totals := domain.Totals{Transactions: len(txns)}
	for _, t := range txns {
		invoices[t.InvoiceNo] = struct{}{}
		customers[t.CustomerID] = struct{}{}
		if t.IsReturn() {
			totals.Returns++
		}
		totals.Revenue = totals.Revenue.Add(t.TotalSales)
	}
	totals.Invoices = len(invoices)
	totals.Customers = len(customers)
	return totals
}

// Describe computes summary statistics of quantity, unit price and total sales.
func Describe(txns []domain.Transaction) []domain.Stats {
	quantity := make([]float64, len(txns))
	price := make([]float64, len(txns))
	for i, t := range txns {
		quantity[i] = float64(t.Quantity)
		price[i] = t.UnitPrice.InexactFloat64()
	}
	return []domain.Stats{
		describeColumn("Quantity", quantity),
		describeColumn("UnitPrice", price),
		describeColumn("TotalSales", TransactionValues(txns)),
	}
}

// TransactionValues returns the total sales of every transaction as floats.
func TransactionValues(txns []domain.Transaction) []float64 {
	values := make([]float64, len(txns))
	for i, t := range txns {
		values[i] = t.TotalSales.InexactFloat64()
	}
	return values
}

func describeColumn(name string, values []float64) domain.Stats {
	s := domain.Stats{Name: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks of sorted data,
// matching the default estimator of numpy and pandas.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := min(lo+1, len(sorted)-1)
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

