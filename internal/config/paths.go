package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file the run reads or writes.
// Output artefacts are resolved relative to the output directory; the rate file
// and log file are resolved relative to the working directory.
type Paths struct {
	OutputDir    string
	RatesFile    string
	CSVFile      string
	XLSXFile     string
	DatabaseFile string
	ProgressLog  string
	LogFile      string
	MetricsFile  string
	TraceFile    string
}

// NewPaths resolves all paths from the configuration
func NewPaths(cfg *Config) *Paths {
	out := cfg.Output.Dir
	if out == "" {
		out = DefaultOutputDir
	}

	p := &Paths{
		OutputDir:    out,
		RatesFile:    cfg.Source.RatesFile,
		CSVFile:      resolve(out, cfg.Output.CSVFile),
		DatabaseFile: resolve(out, cfg.Database.File),
		ProgressLog:  resolve(out, cfg.Output.ProgressLog),
		LogFile:      cfg.Logging.FilePath,
	}
	if cfg.Output.ExportXLSX {
		p.XLSXFile = resolve(out, cfg.Output.XLSXFile)
	}
	if cfg.Telemetry.MetricsFile != "" {
		p.MetricsFile = resolve(out, cfg.Telemetry.MetricsFile)
	}
	if cfg.Telemetry.TraceFile != "" {
		p.TraceFile = resolve(out, cfg.Telemetry.TraceFile)
	}
	return p
}

// resolve joins name onto dir unless name is already absolute
func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// EnsureDirectories creates the directories that output files are written into
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir}
	for _, file := range []string{p.CSVFile, p.XLSXFile, p.DatabaseFile, p.ProgressLog, p.MetricsFile, p.TraceFile} {
		if file != "" {
			directories = append(directories, filepath.Dir(file))
		}
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("output_dir", p.OutputDir),
		slog.String("rates_file", p.RatesFile),
		slog.String("csv_file", p.CSVFile),
		slog.String("xlsx_file", p.XLSXFile),
		slog.String("database_file", p.DatabaseFile),
		slog.String("progress_log", p.ProgressLog),
		slog.String("metrics_file", p.MetricsFile),
		slog.String("trace_file", p.TraceFile))
}
