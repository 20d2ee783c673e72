// Package config provides centralized configuration management for the banks ETL run.
// It handles loading configuration from multiple sources, validation, and resolution
// of every input and output path.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from a .env file
//  2. A YAML configuration file (banks.yaml or configs/banks.yaml, or an explicit path)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BANKS_<SECTION>_<FIELD>:
//
//	BANKS_SOURCE_URL=https://example.org/banks
//	BANKS_SOURCE_FETCH_MODE=browser
//	BANKS_OUTPUT_DIR=out
//	BANKS_DATABASE_TABLE=Largest_banks
//	BANKS_LOGGING_LEVEL=debug
//	BANKS_TELEMETRY_METRICS_FILE=banks_metrics.prom
//
// # Path Management
//
// Paths resolves every artefact relative to the output directory:
//
//	paths := config.NewPaths(cfg)
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
//	_ = paths.CSVFile // out/Largest_banks_data.csv
//
// # Validation
//
// Struct tags are checked with go-playground/validator. The table name is also
// checked against a SQL identifier pattern because it is interpolated into statements.
package config
