// Package report prints the human-readable summary of an analysis run:
// data profiles before and after cleaning, summary statistics, every
// aggregate, the Saturday sales check and the files written.
//
// Numbers are formatted for English with thousands separators; money is
// shown with two decimals.
package report
