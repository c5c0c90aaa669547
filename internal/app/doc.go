// Package app provides application initialization and the analysis pipeline.
//
// # Architecture
//
// Application wires configuration, logging and OpenTelemetry together at
// startup; Pipeline runs the analysis over one workbook. Every stage is an
// explicit function over the value the previous stage returned.
//
// # Pipeline Flow
//
//	1. validate: input workbook and output directory
//	2. load: workbook into a raw table
//	3. profile: shape, missing values and column kinds of the raw table
//	4. clean: duplicates and incomplete rows removed
//	5. profile: the cleaned table
//	6. enrich: typed transactions with total sales, month and weekday
//	7. aggregate: trends, rankings, Saturday sales and summary statistics
//	8. charts: one image per chart
//	9. export: CSV files and the summary workbook
//	10. report: text summary on the output writer
//
// Each stage runs inside a span named retail-eda.<stage> and records its
// duration and output row count. The run id doubles as the trace_id of
// every log line.
//
// # Usage
//
//	application, err := app.NewApplication(ctx, cfg, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer application.Shutdown(context.Background())
//	result, err := application.Run(ctx)
//
// # Error Handling
//
// The first failing stage aborts the run. Its AppError is returned unchanged
// so the caller can map it to an exit code. The app does not call os.Exit().
package app
