package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retaileda/internal/config"
	apperrors "retaileda/internal/errors"
	"retaileda/internal/infrastructure"
	"retaileda/internal/shared/testutil"
)

// retailRows covers a duplicate, a row without customer, a return and a Saturday sale.
func retailRows() [][]interface{} {
	return [][]interface{}{
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 6, "2010-12-01 08:26:00", 2.55, 17850, "United Kingdom"},
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 6, "2010-12-01 08:26:00", 2.55, 17850, "United Kingdom"},
		{"536366", "22633", "HAND WARMER UNION JACK", 6, "2010-12-01 08:28:00", 1.85, nil, "United Kingdom"},
		{"536367", "84879", "ASSORTED COLOUR BIRD ORNAMENT", 32, "2010-12-04 10:00:00", 1.69, "13047.0", "France"},
		{"C536379", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", -1, "2011-01-10 09:41:00", 2.55, 17850, "United Kingdom"},
		{"536380", "22728", "ALARM CLOCK BAKELIKE PINK", 24, "2011-02-07 08:45:00", 3.75, 12583, "Germany"},
	}
}

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")
	cfg.Output.ChartWidth = 4
	cfg.Output.ChartHeight = 3
	cfg.Output.ExportXLSX = true
	cfg.Analysis.TopN = 5
	return cfg
}

func testProviders(t *testing.T) *infrastructure.OTelProviders {
	t.Helper()
	providers, err := infrastructure.InitializeOTel(context.Background(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { providers.Shutdown(context.Background()) })
	return providers
}

func TestPipeline_Run(t *testing.T) {
	cfg := testConfig(t, testutil.RetailWorkbook(t, retailRows()...))
	providers := testProviders(t)
	var out bytes.Buffer

	result, err := NewPipeline(cfg, nil, providers, &out).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 6, result.RawProfile.Rows)
	assert.Equal(t, 1, result.CleanStats.Duplicates)
	assert.Equal(t, 1, result.CleanStats.Missing)
	assert.Equal(t, 4, result.CleanProfile.Rows)
	assert.Equal(t, 4, result.Transactions)

	agg := result.Aggregates
	assert.Equal(t, "156.83", agg.Totals.Revenue.StringFixed(2))
	assert.Equal(t, 1, agg.Totals.Returns)
	assert.Len(t, agg.MonthlyTrend, 3)
	assert.Len(t, agg.WeekdaySales, 7)
	assert.False(t, agg.Saturday.Empty)
	assert.Equal(t, "54.08", agg.Saturday.Total.StringFixed(2))
	require.NotEmpty(t, agg.TopCustomers)
	assert.Equal(t, "12583", agg.TopCustomers[0].Key)

	assert.Len(t, result.Charts, 6)
	assert.Len(t, result.Exports, 7)
	for _, path := range result.Artifacts() {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	report := out.String()
	assert.Contains(t, report, "Saturday sales: 1 transactions totalling 54.08")
	assert.Contains(t, report, filepath.Join(cfg.Output.Dir, "summary.xlsx"))

	metrics := filepath.Join(t.TempDir(), "retail_eda.prom")
	require.NoError(t, providers.WriteMetrics(metrics))
	content, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(content), `retail_eda_rows_dropped_total{reason="duplicate"} 1`)
	assert.Contains(t, string(content), `retail_eda_rows_total{stage="enrich"} 4`)
	assert.Contains(t, string(content), `retail_eda_charts_rendered_total 6`)
}

func TestPipeline_Run_NoSaturday(t *testing.T) {
	rows := retailRows()
	rows = append(rows[:3], rows[4:]...)

	cfg := testConfig(t, testutil.RetailWorkbook(t, rows...))
	cfg.Output.Charts = false
	cfg.Output.ExportCSV = false
	cfg.Output.ExportXLSX = false

	var out bytes.Buffer
	result, err := NewPipeline(cfg, nil, testProviders(t), &out).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Aggregates.Saturday.Empty)
	assert.Empty(t, result.Artifacts())
	assert.Contains(t, out.String(), "No sales on Saturday.")
	assert.NotContains(t, out.String(), "Files written")

	_, statErr := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(statErr), "nothing to write, so no output directory")
}

func TestPipeline_Run_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    func(t *testing.T) string
		wantType apperrors.ErrorType
		wantExit int
	}{
		{
			name: "missing input",
			input: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "Online Retail.xlsx")
			},
			wantType: apperrors.ErrTypeFileNotFound,
			wantExit: 3,
		},
		{
			name: "missing columns",
			input: func(t *testing.T) string {
				return testutil.WriteWorkbook(t, "", []interface{}{"InvoiceNo", "Quantity"}, []interface{}{"1", 2})
			},
			wantType: apperrors.ErrTypeFileFormat,
			wantExit: 4,
		},
		{
			name: "unparseable quantity",
			input: func(t *testing.T) string {
				return testutil.RetailWorkbook(t,
					[]interface{}{"536365", "85123A", "HEART", "six", "2010-12-01 08:26:00", 2.55, 17850, "United Kingdom"})
			},
			wantType: apperrors.ErrTypeDataFormat,
			wantExit: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result, err := NewPipeline(testConfig(t, tt.input(t)), nil, testProviders(t), &out).
				Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
			assert.Equal(t, tt.wantExit, apperrors.ExitCode(err))
			assert.Empty(t, result.Charts)
			assert.Empty(t, out.String(), "no report after a failed stage")
		})
	}
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	cfg := testConfig(t, testutil.RetailWorkbook(t, retailRows()...))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(cfg, nil, testProviders(t), &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplication_RunAndShutdown(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := testConfig(t, testutil.RetailWorkbook(t, retailRows()...))
	cfg.Output.Charts = false
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "logs", "retail-eda.log")
	cfg.Telemetry.MetricsFile = filepath.Join(t.TempDir(), "metrics", "retail_eda.prom")

	var out bytes.Buffer
	application, err := NewApplication(context.Background(), cfg, &out)
	require.NoError(t, err)

	result, err := application.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, application.RunID, result.RunID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, application.Shutdown(ctx))

	metrics, err := os.ReadFile(cfg.Telemetry.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "retail_eda_stage_duration_seconds")

	logs, err := os.ReadFile(cfg.Logging.FilePath)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(logs)), "\n") {
		if strings.Contains(line, `"msg":"stage finished"`) {
			assert.Contains(t, line, `"trace_id":"`+application.RunID+`"`)
		}
	}
	assert.Contains(t, string(logs), "analysis completed")
}
