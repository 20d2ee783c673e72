package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// SourceConfig describes where the ranking comes from
type SourceConfig struct {
	URL          string        `yaml:"url" envconfig:"URL" validate:"required,url"`
	FetchMode    string        `yaml:"fetch_mode" envconfig:"FETCH_MODE" validate:"oneof=http browser"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"min=0"`
	TableIndex   int           `yaml:"table_index" envconfig:"TABLE_INDEX" validate:"min=0"`
	TableCaption string        `yaml:"table_caption" envconfig:"TABLE_CAPTION"`
	RatesFile    string        `yaml:"rates_file" envconfig:"RATES_FILE" validate:"required"`
}

// OutputConfig contains flat-file output configuration
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" validate:"required"`
	CSVFile     string `yaml:"csv_file" envconfig:"CSV_FILE" validate:"required"`
	XLSXFile    string `yaml:"xlsx_file" envconfig:"XLSX_FILE"`
	ExportXLSX  bool   `yaml:"export_xlsx" envconfig:"EXPORT_XLSX"`
	ProgressLog string `yaml:"progress_log" envconfig:"PROGRESS_LOG" validate:"required"`
}

// DatabaseConfig contains the SQLite sink configuration
type DatabaseConfig struct {
	File  string `yaml:"file" envconfig:"FILE" validate:"required"`
	Table string `yaml:"table" envconfig:"TABLE" validate:"required"`
}

// LoggingConfig contains structured logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output     string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath   string `yaml:"file_path" envconfig:"FILE_PATH"`
	MaxSizeMB  int    `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" envconfig:"MAX_BACKUPS" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" envconfig:"MAX_AGE_DAYS" validate:"min=0"`
}

// TelemetryConfig controls trace and metric export. Empty paths disable the exporter.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load builds the configuration from defaults, an optional YAML file and BANKS_*
// environment variables, in that order of precedence (env wins). A .env file in
// the working directory is loaded into the environment first.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the SQL identifier used for the table name
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if !tableNamePattern.MatchString(c.Database.Table) {
		return fmt.Errorf("invalid table name %q", c.Database.Table)
	}
	if c.Output.ExportXLSX && c.Output.XLSXFile == "" {
		return fmt.Errorf("xlsx export enabled without an xlsx file name")
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"banks.yaml",
		"configs/banks.yaml",
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
		Source: SourceConfig{
			URL:        DefaultSourceURL,
			FetchMode:  DefaultFetchMode,
			TableIndex: DefaultTableIndex,
			RatesFile:  DefaultRatesFile,
		},
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			CSVFile:     DefaultCSVFile,
			XLSXFile:    DefaultXLSXFile,
			ProgressLog: DefaultProgressLog,
		},
		Database: DatabaseConfig{
			File:  DefaultDatabaseFile,
			Table: DefaultTableName,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Output:     DefaultLogOutput,
			FilePath:   DefaultLogFile,
			MaxSizeMB:  MaxLogFileSizeMB,
			MaxBackups: MaxLogFileBackups,
			MaxAgeDays: MaxLogFileAgeDays,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}
