// Package exporter writes machine-readable copies of the analysis aggregates.
//
// This package contains two writers:
//
// CSVWriter: one UTF-8 CSV per aggregate, with a BOM so Excel opens it with
// the right encoding.
//
// WorkbookWriter: a single summary.xlsx with a totals sheet followed by one
// sheet per aggregate.
//
// Example usage:
//
//	paths, err := exporter.NewCSVWriter("output", logger).ExportAggregates(ctx, agg)
//
//	path, err := exporter.NewWorkbookWriter("output", logger).Write(ctx, agg)
//
// Failures are reported as STORAGE errors.
package exporter
