package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "retaileda/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "RETAIL_EDA"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// InputConfig locates the workbook to analyze.
type InputConfig struct {
	Path  string `yaml:"path" validate:"required"`
	Sheet string `yaml:"sheet"`
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Dir         string  `yaml:"dir" validate:"required"`
	Charts      bool    `yaml:"charts"`
	ChartFormat string  `yaml:"chart_format" split_words:"true" validate:"oneof=png svg pdf"`
	ChartWidth  float64 `yaml:"chart_width" split_words:"true" validate:"gt=0"`
	ChartHeight float64 `yaml:"chart_height" split_words:"true" validate:"gt=0"`
	ExportCSV   bool    `yaml:"export_csv" split_words:"true"`
	ExportXLSX  bool    `yaml:"export_xlsx" split_words:"true"`
}

// AnalysisConfig tunes the aggregations.
type AnalysisConfig struct {
	TopN int `yaml:"top_n" split_words:"true" validate:"min=1,max=100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" validate:"oneof=json text"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig selects the trace exporter and the metrics textfile.
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, an optional YAML file and
// RETAIL_EDA_* environment variables, in increasing order of precedence.
// An empty configFile falls back to RETAIL_EDA_CONFIG_FILE and then to the
// well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	return cfg, nil
}

// loadFromFile decodes the YAML file over cfg, leaving absent keys untouched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field constraint and normalizes paths.
func (c *Config) Validate() error {
	c.Input.Path = strings.TrimSpace(c.Input.Path)
	c.Output.ChartFormat = strings.ToLower(c.Output.ChartFormat)
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Output.Dir != "" {
		c.Output.Dir = filepath.Clean(c.Output.Dir)
	}
	return nil
}

// ChartPath returns the file path of a named chart in the output directory.
func (o OutputConfig) ChartPath(name string) string {
	return filepath.Join(o.Dir, name+"."+o.ChartFormat)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"retail-eda.yaml",
		"configs/retail-eda.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: "Online Retail.xlsx",
		},
		Output: OutputConfig{
			Dir:         "output",
			Charts:      true,
			ChartFormat: "png",
			ChartWidth:  12,
			ChartHeight: 6,
			ExportCSV:   true,
			ExportXLSX:  false,
		},
		Analysis: AnalysisConfig{
			TopN: 10,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/retail-eda.log",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
