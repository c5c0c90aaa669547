// Package charts renders the analysis charts with gonum/plot.
//
// Each chart is written to its own file in the output directory; the file
// format (png, svg or pdf) follows the configured extension. Charts whose
// data is empty are skipped with a warning rather than drawn blank.
package charts
