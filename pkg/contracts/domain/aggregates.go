package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KeyedValue is one bucket of a grouped aggregate.
type KeyedValue struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

// MonthPoint is one month of the sales trend, labelled by its last day.
type MonthPoint struct {
	PeriodEnd time.Time       `json:"period_end"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
}

// WeekdayTotal is the sales total of one day of the week.
type WeekdayTotal struct {
	Weekday time.Weekday    `json:"weekday"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

// SaturdayReport is the result of the Saturday-sales check.
type SaturdayReport struct {
	Empty        bool            `json:"empty"`
	Transactions int             `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}

// Stats are descriptive statistics of a numeric column.
type Stats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// Totals are whole-table counters.
type Totals struct {
	Transactions int             `json:"transactions"`
	Invoices     int             `json:"invoices"`
	Customers    int             `json:"customers"`
	Returns      int             `json:"returns"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Aggregates holds every analysis result of one run.
type Aggregates struct {
	Totals       Totals         `json:"totals"`
	Describe     []Stats        `json:"describe"`
	MonthlyTrend []MonthPoint   `json:"monthly_trend"`
	SalesByMonth []KeyedValue   `json:"sales_by_month"`
	WeekdaySales []WeekdayTotal `json:"weekday_sales"`
	TopProducts  []KeyedValue   `json:"top_products"`
	TopCountries []KeyedValue   `json:"top_countries"`
	TopCustomers []KeyedValue   `json:"top_customers"`
	Saturday     SaturdayReport `json:"saturday"`
}

// WeekOrder is the canonical Monday to Sunday ordering of the weekday aggregate.
var WeekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
