package operations

import (
	"bankscli/internal/config"
	"bankscli/internal/dataprocessing"
	"bankscli/internal/storage"
)

// Config holds the inputs and outputs of one pipeline run
type Config struct {
	SourceURL    string
	Selector     dataprocessing.TableSelector
	RatesFile    string
	OutputDir    string
	CSVFile      string
	XLSXFile     string // empty disables the workbook export
	DatabaseFile string
	TableName    string
	Queries      []string // defaults to storage.DefaultQueries(TableName)
}

// NewConfig builds the pipeline configuration from application config and resolved paths
func NewConfig(cfg *config.Config, paths *config.Paths) Config {
	return Config{
		SourceURL: cfg.Source.URL,
		Selector: dataprocessing.TableSelector{
			Index:   cfg.Source.TableIndex,
			Caption: cfg.Source.TableCaption,
		},
		RatesFile:    paths.RatesFile,
		OutputDir:    paths.OutputDir,
		CSVFile:      paths.CSVFile,
		XLSXFile:     paths.XLSXFile,
		DatabaseFile: paths.DatabaseFile,
		TableName:    cfg.Database.Table,
	}
}

// Validate checks that every required setting is present
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"source url", c.SourceURL},
		{"rates file", c.RatesFile},
		{"csv file", c.CSVFile},
		{"database file", c.DatabaseFile},
		{"table name", c.TableName},
	}
	for _, r := range required {
		if r.value == "" {
			return NewValidationError("", r.name+" is required")
		}
	}
	if c.Selector.Index < 0 {
		return NewValidationError("", "table index must not be negative")
	}
	return nil
}

func (c *Config) queries() []string {
	if len(c.Queries) > 0 {
		return c.Queries
	}
	return storage.DefaultQueries(c.TableName)
}
