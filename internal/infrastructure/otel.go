package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"retaileda/pkg/contracts"
)

const (
	ServiceName = "retail-eda"
	MeterName   = "retaileda"
	// MetricNamespace prefixes every exported Prometheus metric.
	MetricNamespace = "retail_eda"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	RunID          string
	TraceExporter  string // "stdout", "none"
	TraceOutput    io.Writer
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prom.Registry
	Metrics        *PipelineMetrics
	Logger         *slog.Logger
}

// PipelineMetrics are the instruments recorded by the pipeline stages.
type PipelineMetrics struct {
	Rows           metric.Int64Counter
	RowsDropped    metric.Int64Counter
	StageDuration  metric.Float64Histogram
	ChartsRendered metric.Int64Counter
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		TraceExporter:  "none",
		TraceOutput:    os.Stderr,
	}
}

// InitializeOTel wires a tracer provider and a meter provider whose metrics
// land in a private Prometheus registry.
func InitializeOTel(ctx context.Context, cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if cfg.RunID != "" {
		attrs = append(attrs, attribute.String("run.id", cfg.RunID))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	switch cfg.TraceExporter {
	case "stdout":
		out := cfg.TraceOutput
		if out == nil {
			out = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exporter))
	case "none", "":
		// spans are created but never exported
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := prom.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithNamespace(MetricNamespace),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	providers.Metrics = metrics

	return nil
}

// CreatePipelineMetrics creates application-specific metrics
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rows, err := meter.Int64Counter(
		"rows",
		metric.WithDescription("Rows produced by each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter(
		"rows_dropped",
		metric.WithDescription("Rows removed by the cleaner, by reason"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	charts, err := meter.Int64Counter(
		"charts_rendered",
		metric.WithDescription("Charts written to the output directory"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		Rows:           rows,
		RowsDropped:    dropped,
		StageDuration:  duration,
		ChartsRendered: charts,
	}, nil
}

// StageSpan tracks one running pipeline stage.
type StageSpan struct {
	providers *OTelProviders
	stage     string
	span      trace.Span
	start     time.Time
}

// StartStage opens a span for the named stage.
func (p *OTelProviders) StartStage(ctx context.Context, stage string) (context.Context, *StageSpan) {
	ctx, span := p.Tracer.Start(ctx, ServiceName+"."+stage,
		trace.WithAttributes(attribute.String("stage", stage)))
	return ctx, &StageSpan{providers: p, stage: stage, span: span, start: time.Now()}
}

// End closes the span and records the stage duration and output row count.
// A negative rows value records no row count.
func (s *StageSpan) End(ctx context.Context, rows int, err error) {
	attrs := metric.WithAttributes(attribute.String("stage", s.stage))
	s.providers.Metrics.StageDuration.Record(ctx, time.Since(s.start).Seconds(), attrs)

	if rows >= 0 {
		s.providers.Metrics.Rows.Add(ctx, int64(rows), attrs)
		s.span.SetAttributes(attribute.Int("rows", rows))
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// RecordDropped counts rows removed for the given reason.
func (p *OTelProviders) RecordDropped(ctx context.Context, reason string, n int) {
	if n <= 0 {
		return
	}
	p.Metrics.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordCharts counts rendered charts.
func (p *OTelProviders) RecordCharts(ctx context.Context, n int) {
	p.Metrics.ChartsRendered.Add(ctx, int64(n))
}

// WriteMetrics dumps the registry in the node-exporter textfile format.
func (p *OTelProviders) WriteMetrics(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return prom.WriteToTextfile(path, p.Registry)
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
