// Package shared holds helpers used by more than one package of retail-eda.
//
// Only test support lives here today: testutil builds retail workbooks on
// disk and captures slog output so stage logging can be asserted.
package shared
