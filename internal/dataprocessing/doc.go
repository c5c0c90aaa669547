// Package dataprocessing turns the Online Retail workbook into typed
// transactions and the aggregates the report and charts are built from.
//
// # Architecture
//
// The package is organized into five stages, each a plain function over an
// explicit value:
//
// 1. Loader: reads the workbook with excelize into a RawTable
// 2. Profile: shape, missing-value counts and inferred column kinds
// 3. Cleaner: removes duplicate and incomplete rows, normalizes customer ids
// 4. Enricher: converts rows to Transactions and derives TotalSales, Month and Weekday
// 5. Aggregator: monthly trend, weekday totals, top-N rankings, Saturday sales, describe
//
// # Usage
//
//	table, err := dataprocessing.NewLoader(logger, "").Load(ctx, "Online Retail.xlsx")
//	if err != nil {
//	    return err
//	}
//	cleaned, stats := dataprocessing.NewCleaner(logger).Clean(ctx, table)
//	txns, err := dataprocessing.NewEnricher(logger).Enrich(ctx, cleaned)
//	if err != nil {
//	    return err
//	}
//	agg := dataprocessing.NewAggregator(logger, 10).Aggregate(ctx, txns)
//
// # Data Flow
//
//	Workbook → Loader → RawTable → Cleaner → RawTable → Enricher → []Transaction → Aggregator → Aggregates
//
// # Money
//
// UnitPrice and TotalSales are shopspring/decimal values, so TotalSales is
// exactly Quantity × UnitPrice and sums carry no float rounding. Returns keep
// their negative quantity and reduce every total they fall into.
//
// # Error Handling
//
// The loader fails with FILE_NOT_FOUND or FILE_FORMAT errors; the enricher
// fails with DATA_FORMAT errors that carry the offending row and column.
// Cleaning and aggregation cannot fail.
package dataprocessing
