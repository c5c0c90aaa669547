package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"retaileda/internal/config"
	"retaileda/internal/infrastructure"
	"retaileda/pkg/contracts"
)

const (
	// AppName is the user-facing name of the tool
	AppName = "retail-eda"
	// Executable is the binary name
	Executable = "retail-eda"
)

// Application wires configuration, logging and telemetry around one pipeline run.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	RunID         string
	Output        io.Writer
}

// NewApplication initializes logging and telemetry for cfg. The report is
// written to out, or stdout when nil. cfg must already be validated.
func NewApplication(ctx context.Context, cfg *config.Config, out io.Writer) (*Application, error) {
	if out == nil {
		out = os.Stdout
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	runID := infrastructure.GenerateTraceID()
	ctx = infrastructure.WithTraceID(ctx, runID)

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.RunID = runID
	otelCfg.TraceExporter = cfg.Telemetry.TraceExporter

	providers, err := infrastructure.InitializeOTel(ctx, otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	return &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		RunID:         runID,
		Output:        out,
	}, nil
}

// Run executes the analysis pipeline once.
func (a *Application) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.WithTraceID(ctx, a.RunID)
	pipeline := NewPipeline(a.Config, a.Logger, a.OTelProviders, a.Output)
	return pipeline.Run(ctx)
}

// Shutdown writes the metrics file when configured, flushes telemetry and
// closes the log file. It is safe to call after a failed run.
func (a *Application) Shutdown(ctx context.Context) error {
	ctx = infrastructure.WithTraceID(ctx, a.RunID)
	var errs []error

	if path := a.Config.Telemetry.MetricsFile; path != "" {
		if err := a.OTelProviders.WriteMetrics(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		} else {
			a.Logger.InfoContext(ctx, "metrics written", slog.String("path", path))
		}
	}

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	a.Logger.InfoContext(ctx, "Application stopped")

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
