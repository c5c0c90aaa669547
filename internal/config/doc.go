// Package config provides configuration management for retail-eda.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file (--config, RETAIL_EDA_CONFIG_FILE, ./retail-eda.yaml or ./configs/retail-eda.yaml)
//	3. Environment variables prefixed RETAIL_EDA_
//	4. Command line flags, applied by the CLI before Validate
//
// # Environment Variables
//
//	RETAIL_EDA_INPUT_PATH="Online Retail.xlsx"
//	RETAIL_EDA_OUTPUT_DIR=output
//	RETAIL_EDA_OUTPUT_CHART_FORMAT=svg
//	RETAIL_EDA_ANALYSIS_TOP_N=10
//	RETAIL_EDA_LOGGING_LEVEL=debug
//	RETAIL_EDA_TELEMETRY_METRICS_FILE=output/retail_eda.prom
//
// # Validation
//
// Validate runs go-playground/validator over the struct tags and returns a
// CONFIG AppError describing every violated constraint.
package config
