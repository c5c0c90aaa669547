package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"retaileda/internal/charts"
	"retaileda/internal/config"
	"retaileda/internal/dataprocessing"
	"retaileda/internal/exporter"
	"retaileda/internal/infrastructure"
	"retaileda/internal/report"
	"retaileda/internal/validation"
	"retaileda/pkg/contracts/domain"
)

// Stage names, used for spans, metrics and log lines.
const (
	StageValidate  = "validate"
	StageLoad      = "load"
	StageProfile   = "profile"
	StageClean     = "clean"
	StageEnrich    = "enrich"
	StageAggregate = "aggregate"
	StageCharts    = "charts"
	StageExport    = "export"
	StageReport    = "report"
)

// Result is everything one run produced.
type Result struct {
	RunID        string
	RawProfile   domain.TableProfile
	CleanStats   domain.CleanStats
	CleanProfile domain.TableProfile
	Transactions int
	Aggregates   domain.Aggregates
	Charts       []string
	Exports      []string
}

// Artifacts lists every file the run wrote.
func (r *Result) Artifacts() []string {
	out := make([]string, 0, len(r.Charts)+len(r.Exports))
	out = append(out, r.Charts...)
	return append(out, r.Exports...)
}

// Pipeline runs the analysis stages strictly in order over one input file.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	otel      *infrastructure.OTelProviders
	out       io.Writer
	validator *validation.FileValidator
}

// NewPipeline creates a pipeline. The report is written to out.
func NewPipeline(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders, out io.Writer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		otel:      providers,
		out:       out,
		validator: validation.NewFileValidator(logger),
	}
}

// Run executes validate, load, profile, clean, profile, enrich, aggregate,
// charts, export and report. The first failing stage aborts the run and its
// error is returned unchanged.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	result := &Result{RunID: infrastructure.GetTraceID(ctx)}
	start := time.Now()

	p.logger.InfoContext(ctx, "analysis started",
		slog.String("input", p.cfg.Input.Path),
		slog.String("output_dir", p.cfg.Output.Dir))

	var (
		raw     *domain.RawTable
		cleaned *domain.RawTable
		txns    []domain.Transaction
	)

	stages := []struct {
		name string
		run  func(ctx context.Context) (int, error)
	}{
		{StageValidate, func(ctx context.Context) (int, error) {
			return -1, p.validate()
		}},
		{StageLoad, func(ctx context.Context) (int, error) {
			var err error
			raw, err = dataprocessing.NewLoader(p.component(StageLoad), p.cfg.Input.Sheet).Load(ctx, p.cfg.Input.Path)
			return raw.Len(), err
		}},
		{StageProfile, func(ctx context.Context) (int, error) {
			result.RawProfile = dataprocessing.Profile(raw)
			return result.RawProfile.Rows, nil
		}},
		{StageClean, func(ctx context.Context) (int, error) {
			cleaned, result.CleanStats = dataprocessing.NewCleaner(p.component(StageClean)).Clean(ctx, raw)
			p.otel.RecordDropped(ctx, "duplicate", result.CleanStats.Duplicates)
			p.otel.RecordDropped(ctx, "missing", result.CleanStats.Missing)
			return cleaned.Len(), nil
		}},
		{StageProfile, func(ctx context.Context) (int, error) {
			result.CleanProfile = dataprocessing.Profile(cleaned)
			return result.CleanProfile.Rows, nil
		}},
		{StageEnrich, func(ctx context.Context) (int, error) {
			var err error
			txns, err = dataprocessing.NewEnricher(p.component(StageEnrich)).Enrich(ctx, cleaned)
			result.Transactions = len(txns)
			return len(txns), err
		}},
		{StageAggregate, func(ctx context.Context) (int, error) {
			result.Aggregates = dataprocessing.NewAggregator(p.component(StageAggregate), p.cfg.Analysis.TopN).Aggregate(ctx, txns)
			return len(txns), nil
		}},
		{StageCharts, func(ctx context.Context) (int, error) {
			if !p.cfg.Output.Charts {
				p.logger.InfoContext(ctx, "chart rendering disabled")
				return -1, nil
			}
			renderer := charts.NewRenderer(p.cfg.Output, p.component(StageCharts))
			paths, err := renderer.RenderAll(ctx, result.Aggregates, dataprocessing.TransactionValues(txns))
			result.Charts = paths
			p.otel.RecordCharts(ctx, len(paths))
			return -1, err
		}},
		{StageExport, func(ctx context.Context) (int, error) {
			return -1, p.export(ctx, result)
		}},
		{StageReport, func(ctx context.Context) (int, error) {
			return -1, report.NewReporter(p.out).Render(&report.Data{
				RunID:        result.RunID,
				Source:       p.cfg.Input.Path,
				Sheet:        raw.Sheet,
				RawProfile:   result.RawProfile,
				CleanStats:   result.CleanStats,
				CleanProfile: result.CleanProfile,
				Aggregates:   result.Aggregates,
				Artifacts:    result.Artifacts(),
			})
		}},
	}

	for _, s := range stages {
		if err := p.runStage(ctx, s.name, s.run); err != nil {
			p.logger.ErrorContext(ctx, "analysis failed",
				slog.String("stage", s.name),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(start)))
			return result, err
		}
	}

	p.logger.InfoContext(ctx, "analysis completed",
		slog.Int("transactions", result.Transactions),
		slog.Int("artifacts", len(result.Artifacts())),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// runStage wraps one stage in a span and records its duration and row count.
func (p *Pipeline) runStage(ctx context.Context, name string, run func(context.Context) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := p.otel.StartStage(ctx, name)
	p.logger.DebugContext(ctx, "stage started", slog.String("stage", name))

	rows, err := run(ctx)
	span.End(ctx, rows, err)
	if err != nil {
		return err
	}

	attrs := []any{slog.String("stage", name)}
	if rows >= 0 {
		attrs = append(attrs, slog.Int("rows", rows))
	}
	p.logger.InfoContext(ctx, "stage finished", attrs...)
	return nil
}

// validate checks the input file and, when anything is written, the output directory.
func (p *Pipeline) validate() error {
	if err := p.validator.ValidateWorkbook(p.cfg.Input.Path); err != nil {
		return err
	}
	if p.cfg.Output.Charts || p.cfg.Output.ExportCSV || p.cfg.Output.ExportXLSX {
		return p.validator.ValidateOutputDirectory(p.cfg.Output.Dir)
	}
	return nil
}

func (p *Pipeline) export(ctx context.Context, result *Result) error {
	if p.cfg.Output.ExportCSV {
		paths, err := exporter.NewCSVWriter(p.cfg.Output.Dir, p.component(StageExport)).
			ExportAggregates(ctx, result.Aggregates)
		result.Exports = append(result.Exports, paths...)
		if err != nil {
			return err
		}
	}
	if p.cfg.Output.ExportXLSX {
		path, err := exporter.NewWorkbookWriter(p.cfg.Output.Dir, p.component(StageExport)).
			Write(ctx, result.Aggregates)
		if err != nil {
			return err
		}
		result.Exports = append(result.Exports, path)
	}
	return nil
}

func (p *Pipeline) component(name string) *slog.Logger {
	return infrastructure.WithComponent(p.logger, name)
}
