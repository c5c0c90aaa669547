package charts

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"golang.org/x/sync/errgroup"

	"retaileda/internal/config"
	apperrors "retaileda/internal/errors"
	"retaileda/pkg/contracts/domain"
)

// Chart names, also used as file base names.
const (
	MonthlySalesTrend            = "monthly_sales_trend"
	WeekdaySales                 = "weekday_sales"
	TopProducts                  = "top_products"
	TopCountries                 = "top_countries"
	TopCustomers                 = "top_customers"
	TransactionValueDistribution = "transaction_value_distribution"
)

// renderWorkers bounds the charts drawn at once.
const renderWorkers = 3

var (
	barColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	lineColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer draws the analysis charts into image files.
type Renderer struct {
	output config.OutputConfig
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates a renderer writing to cfg.Dir in cfg.ChartFormat.
func NewRenderer(cfg config.OutputConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		output: cfg,
		width:  vg.Length(cfg.ChartWidth) * vg.Inch,
		height: vg.Length(cfg.ChartHeight) * vg.Inch,
		logger: logger,
	}
}

type chartJob struct {
	name  string
	build func() (*plot.Plot, error)
}

// RenderAll draws every chart that has data and returns the written paths in
// chart order. Charts are drawn concurrently; the first failure cancels the
// charts not yet started and files already written stay.
func (r *Renderer) RenderAll(ctx context.Context, agg domain.Aggregates, values []float64) ([]string, error) {
	jobs := []chartJob{
		{MonthlySalesTrend, func() (*plot.Plot, error) { return monthlyTrendPlot(agg.MonthlyTrend) }},
		{WeekdaySales, func() (*plot.Plot, error) { return weekdayPlot(agg.WeekdaySales) }},
		{TopProducts, func() (*plot.Plot, error) {
			return rankingPlot("Top Products by Quantity Sold", "Quantity", agg.TopProducts, true)
		}},
		{TopCountries, func() (*plot.Plot, error) {
			return rankingPlot("Top Countries by Sales", "Total Sales", agg.TopCountries, false)
		}},
		{TopCustomers, func() (*plot.Plot, error) {
			return rankingPlot("Top Customers by Sales", "Total Sales", agg.TopCustomers, false)
		}},
		{TransactionValueDistribution, func() (*plot.Plot, error) { return distributionPlot(values) }},
	}

	paths := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return apperrors.NewRenderError(job.name, err)
			}
			path, err := r.render(gctx, job)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	err := g.Wait()

	written := make([]string, 0, len(paths))
	for _, path := range paths {
		if path != "" {
			written = append(written, path)
		}
	}
	if err != nil {
		return written, err
	}

	r.logger.InfoContext(ctx, "charts rendered",
		slog.Int("count", len(written)),
		slog.String("format", r.output.ChartFormat))
	return written, nil
}

// render builds and saves one chart. An empty path means the chart had no data.
func (r *Renderer) render(ctx context.Context, job chartJob) (string, error) {
	p, err := job.build()
	if err != nil {
		return "", apperrors.NewRenderError(job.name, err)
	}
	if p == nil {
		r.logger.WarnContext(ctx, "chart skipped, no data",
			slog.String("chart", job.name))
		return "", nil
	}

	path := r.output.ChartPath(job.name)
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", apperrors.NewRenderError(job.name, err).WithContext("path", path)
	}
	r.logger.DebugContext(ctx, "chart written",
		slog.String("chart", job.name),
		slog.String("path", path))
	return path, nil
}

// monthlyTrendPlot draws total sales per month-end date.
func monthlyTrendPlot(points []domain.MonthPoint) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, nil
	}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.PeriodEnd.Unix())
		xys[i].Y = pt.Total.InexactFloat64()
	}

	p := newPlot("Monthly Sales Trend", "Month", "Total Sales")
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "2006-01",
		Time:   func(t float64) time.Time { return time.Unix(int64(t), 0).UTC() },
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	scatter.Color = lineColor
	p.Add(line, scatter)
	return p, nil
}

// weekdayPlot draws total sales per weekday, Monday to Sunday.
func weekdayPlot(days []domain.WeekdayTotal) (*plot.Plot, error) {
	if len(days) == 0 {
		return nil, nil
	}

	values := make(plotter.Values, len(days))
	names := make([]string, len(days))
	for i, d := range days {
		values[i] = d.Total.InexactFloat64()
		names[i] = d.Weekday.String()
	}

	p := newPlot("Sales by Day of the Week", "Day of the Week", "Total Sales")
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// rankingPlot draws a top-N ranking, highest first.
func rankingPlot(title, valueLabel string, ranked []domain.KeyedValue, horizontal bool) (*plot.Plot, error) {
	if len(ranked) == 0 {
		return nil, nil
	}

	n := len(ranked)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, kv := range ranked {
		// Horizontal bars are drawn bottom-up, so reverse to keep the largest on top.
		j := i
		if horizontal {
			j = n - 1 - i
		}
		values[j] = kv.Value.InexactFloat64()
		names[j] = kv.Key
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.Horizontal = horizontal
	p.Add(bars)

	if horizontal {
		p.X.Label.Text = valueLabel
		p.NominalY(names...)
	} else {
		p.Y.Label.Text = valueLabel
		p.NominalX(names...)
	}
	return p, nil
}

// distributionPlot draws a box plot of every transaction's total sales.
func distributionPlot(values []float64) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, nil
	}

	p := newPlot("Distribution of Transaction Values", "", "Total Sales")
	box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
	if err != nil {
		return nil, fmt.Errorf("box plot of %d values: %w", len(values), err)
	}
	box.FillColor = barColor
	p.Add(box)
	p.NominalX("TotalSales")
	return p, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}
