package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"bankscli/internal/config"
	"bankscli/internal/infrastructure"
	"bankscli/internal/operations"
	"bankscli/internal/scraper"
	"bankscli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds the command line overrides. Only flags that were set on
// the command line replace configuration values.
type cliFlags struct {
	configFile string
	url        string
	rates      string
	out        string
	table      string
	fetchMode  string
	caption    string
	tableIndex int
	xlsx       bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, map[string]bool, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("banks", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configFile, "config", "", "path to a YAML config file (defaults to banks.yaml or configs/banks.yaml)")
	fs.StringVar(&f.url, "url", "", "URL of the page holding the bank ranking")
	fs.StringVar(&f.rates, "rates", "", "exchange rate CSV with Currency,Rate columns")
	fs.StringVar(&f.out, "out", "", "directory for the CSV, database and progress log")
	fs.StringVar(&f.table, "table", "", "database table name")
	fs.StringVar(&f.fetchMode, "fetch-mode", "", "page fetch mode: http | browser")
	fs.StringVar(&f.caption, "caption", "", "select the table whose caption or heading contains this text")
	fs.IntVar(&f.tableIndex, "table-index", 0, "0-based index of the table to extract")
	fs.BoolVar(&f.xlsx, "xlsx", false, "also write an Excel workbook")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// apply copies explicitly set flags onto cfg
func (f *cliFlags) apply(cfg *config.Config, set map[string]bool) {
	if set["url"] {
		cfg.Source.URL = f.url
	}
	if set["rates"] {
		cfg.Source.RatesFile = f.rates
	}
	if set["out"] {
		cfg.Output.Dir = f.out
	}
	if set["table"] {
		cfg.Database.Table = f.table
	}
	if set["fetch-mode"] {
		cfg.Source.FetchMode = f.fetchMode
	}
	if set["caption"] {
		cfg.Source.TableCaption = f.caption
	}
	if set["table-index"] {
		cfg.Source.TableIndex = f.tableIndex
	}
	if set["xlsx"] {
		cfg.Output.ExportXLSX = f.xlsx
	}
}

// run executes one ETL run and returns the process exit code
func run(args []string, stdout, stderr io.Writer) (code int) {
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "PANIC RECOVERED: %v\n%s\n", r, debug.Stack())
			if logger != nil {
				logger.Error("Run panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			code = 1
		}
	}()

	flags, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(config.AppName))
		return 0
	}

	cfg, err := config.Load(flags.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	flags.apply(cfg, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "Starting banks ETL",
		slog.String("version", config.AppVersion),
		slog.String("source_url", cfg.Source.URL),
		slog.String("fetch_mode", cfg.Source.FetchMode),
		slog.String("output_dir", cfg.Output.Dir))

	paths := config.NewPaths(cfg)
	paths.LogPathResolution(logger)
	if err := paths.EnsureDirectories(); err != nil {
		logger.ErrorContext(ctx, "Failed to create output directories", slog.String("error", err.Error()))
		return 1
	}

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths.TraceFile, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize tracing", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), operations.DefaultShutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	var metrics *infrastructure.PipelineMetrics
	if paths.MetricsFile != "" {
		if metrics, err = infrastructure.NewPipelineMetrics(); err != nil {
			logger.ErrorContext(ctx, "Failed to initialize metrics", slog.String("error", err.Error()))
			return 1
		}
		defer metrics.Shutdown(context.Background())
	}

	fetcher, err := scraper.New(cfg.Source.FetchMode, cfg.Source.Timeout, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create fetcher", slog.String("error", err.Error()))
		return 1
	}

	pipeline, err := operations.NewPipeline(operations.NewConfig(cfg, paths), operations.Dependencies{
		Fetcher:  fetcher,
		Progress: infrastructure.NewProgressLogger(paths.ProgressLog),
		Tracer:   telemetry.Tracer,
		Metrics:  metrics,
		Output:   stdout,
		Logger:   logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build pipeline", slog.String("error", err.Error()))
		return 1
	}

	state, runErr := pipeline.Run(ctx)

	if metrics != nil {
		if err := metrics.WriteTextfile(paths.MetricsFile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "banks ETL failed: %v\n", runErr)
		return 1
	}

	logger.InfoContext(ctx, "Banks ETL finished",
		slog.Int("records", state.Table.Len()),
		slog.String("csv_file", paths.CSVFile),
		slog.String("database_file", paths.DatabaseFile),
		slog.Duration("duration", state.Duration()))
	return 0
}
