package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
				assert.Equal(t, FetchModeHTTP, cfg.Source.FetchMode)
				assert.Equal(t, 0, cfg.Source.TableIndex)
				assert.Equal(t, "exchange_rate.csv", cfg.Source.RatesFile)
				assert.Equal(t, "Largest_banks_data.csv", cfg.Output.CSVFile)
				assert.Equal(t, "code_log.txt", cfg.Output.ProgressLog)
				assert.Equal(t, "Banks.db", cfg.Database.File)
				assert.Equal(t, "Largest_banks", cfg.Database.Table)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.False(t, cfg.Output.ExportXLSX)
				assert.Empty(t, cfg.Telemetry.TraceFile)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"BANKS_SOURCE_URL":           "https://example.org/banks",
				"BANKS_SOURCE_FETCH_MODE":    "browser",
				"BANKS_SOURCE_TIMEOUT":       "15s",
				"BANKS_SOURCE_TABLE_INDEX":   "2",
				"BANKS_DATABASE_TABLE":       "Banks_2023",
				"BANKS_OUTPUT_EXPORT_XLSX":   "true",
				"BANKS_LOGGING_LEVEL":        "debug",
				"BANKS_TELEMETRY_TRACE_FILE": "trace.json",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://example.org/banks", cfg.Source.URL)
				assert.Equal(t, FetchModeBrowser, cfg.Source.FetchMode)
				assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
				assert.Equal(t, 2, cfg.Source.TableIndex)
				assert.Equal(t, "Banks_2023", cfg.Database.Table)
				assert.True(t, cfg.Output.ExportXLSX)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "trace.json", cfg.Telemetry.TraceFile)
			},
		},
		{
			name: "file values with env taking precedence",
			env: map[string]string{
				"BANKS_OUTPUT_DIR": "from-env",
			},
			fileContent: `
source:
  url: https://example.org/from-file
  table_caption: Largest banks
output:
  dir: from-file
  csv_file: banks.csv
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://example.org/from-file", cfg.Source.URL)
				assert.Equal(t, "Largest banks", cfg.Source.TableCaption)
				assert.Equal(t, "from-env", cfg.Output.Dir)
				assert.Equal(t, "banks.csv", cfg.Output.CSVFile)
				// untouched keys keep their defaults
				assert.Equal(t, "Banks.db", cfg.Database.File)
			},
		},
		{
			name: "invalid fetch mode",
			env: map[string]string{
				"BANKS_SOURCE_FETCH_MODE": "carrier-pigeon",
			},
			wantErr: true,
		},
		{
			name: "invalid url",
			env: map[string]string{
				"BANKS_SOURCE_URL": "not a url",
			},
			wantErr: true,
		},
		{
			name: "unparseable env value",
			env: map[string]string{
				"BANKS_SOURCE_TABLE_INDEX": "first",
			},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "source: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.fileContent != "" {
				configFile = filepath.Join(t.TempDir(), "banks.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "banks.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Zero(t, cfg.Source.Timeout, "no fetch timeout unless configured")
	assert.Equal(t, def.Source, cfg.Source)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Database, cfg.Database)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "table name with sql injection",
			mutate:  func(c *Config) { c.Database.Table = "banks; DROP TABLE x" },
			wantErr: true,
		},
		{
			name:    "table name starting with digit",
			mutate:  func(c *Config) { c.Database.Table = "1banks" },
			wantErr: true,
		},
		{
			name:    "empty rates file",
			mutate:  func(c *Config) { c.Source.RatesFile = "" },
			wantErr: true,
		},
		{
			name:    "negative table index",
			mutate:  func(c *Config) { c.Source.TableIndex = -1 },
			wantErr: true,
		},
		{
			name: "xlsx export without file name",
			mutate: func(c *Config) {
				c.Output.ExportXLSX = true
				c.Output.XLSXFile = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_FillsLogFilePath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultXLSXFile, cfg.Output.XLSXFile)
	assert.Equal(t, MaxLogFileSizeMB, cfg.Logging.MaxSizeMB)
	assert.Equal(t, MaxLogFileBackups, cfg.Logging.MaxBackups)
	assert.Equal(t, MaxLogFileAgeDays, cfg.Logging.MaxAgeDays)
	assert.Equal(t, DefaultServiceName, cfg.Telemetry.ServiceName)
}
