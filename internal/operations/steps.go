package operations

import (
	"context"
	"io"
	"log/slog"

	"bankscli/internal/dataprocessing"
	"bankscli/internal/exporter"
	"bankscli/internal/infrastructure"
	"bankscli/internal/scraper"
	"bankscli/internal/storage"
)

// ExtractStep downloads the ranking page and parses the target table
type ExtractStep struct {
	BaseStage
	fetcher  scraper.Fetcher
	url      string
	selector dataprocessing.TableSelector
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewExtractStep creates the extract step
func NewExtractStep(fetcher scraper.Fetcher, url string, selector dataprocessing.TableSelector, tracer *OperationTracer, logger *slog.Logger) *ExtractStep {
	return &ExtractStep{
		BaseStage: NewBaseStage(StepIDExtract, StepNameExtract, CheckpointExtracted),
		fetcher:   fetcher,
		url:       url,
		selector:  selector,
		tracer:    tracer,
		logger:    logger.With(slog.String("step", StepIDExtract)),
	}
}

// Execute fetches the page and stores the parsed table in state
func (s *ExtractStep) Execute(ctx context.Context, state *OperationState) error {
	s.logger.InfoContext(ctx, "Fetching source page", slog.String("url", s.url))

	html, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return err
	}
	s.tracer.RecordFetch(ctx, len(html))

	table, stats, err := dataprocessing.ParseHTML(html, s.selector)
	if err != nil {
		return err
	}
	s.tracer.RecordParse(ctx, stats.Rows, stats.Skipped)

	state.HTML = html
	state.Table = table
	state.ParseStats = stats

	if stepState := state.GetStage(s.ID()); stepState != nil {
		stepState.SetMetadata("rows", stats.Rows)
		stepState.SetMetadata("skipped", stats.Skipped)
	}
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"extract.bytes":   len(html),
		"extract.rows":    stats.Rows,
		"extract.skipped": stats.Skipped,
	})

	s.logger.InfoContext(ctx, "Ranking extracted",
		slog.Int("rows", stats.Rows),
		slog.String("selector", s.selector.String()))
	s.logger.DebugContext(ctx, "Non-data rows ignored",
		slog.Int("headers", stats.Headers),
		slog.Int("skipped", stats.Skipped))
	return nil
}

// TransformStep adds the converted market cap columns
type TransformStep struct {
	BaseStage
	ratesFile string
	logger    *slog.Logger
}

// NewTransformStep creates the transform step
func NewTransformStep(ratesFile string, logger *slog.Logger) *TransformStep {
	return &TransformStep{
		BaseStage: NewBaseStage(StepIDTransform, StepNameTransform, CheckpointTransformed),
		ratesFile: ratesFile,
		logger:    logger.With(slog.String("step", StepIDTransform)),
	}
}

// Validate requires an extracted table
func (s *TransformStep) Validate(state *OperationState) error {
	if state.Table == nil {
		return NewValidationError(s.ID(), "no extracted table to transform")
	}
	return nil
}

// Execute loads the rate file and enriches the table in place
func (s *TransformStep) Execute(ctx context.Context, state *OperationState) error {
	rates, err := dataprocessing.LoadRates(s.ratesFile)
	if err != nil {
		return err
	}
	if err := dataprocessing.Enrich(state.Table, rates); err != nil {
		return err
	}
	state.Rates = rates

	s.logger.InfoContext(ctx, "Market caps converted",
		slog.Int("rows", state.Table.Len()),
		slog.Int("rates", len(rates)))
	return nil
}

// LoadCSVStep writes the enriched table to a CSV file
type LoadCSVStep struct {
	BaseStage
	writer *exporter.CSVWriter
	path   string
	tracer *OperationTracer
	logger *slog.Logger
}

// NewLoadCSVStep creates the CSV load step
func NewLoadCSVStep(writer *exporter.CSVWriter, path string, tracer *OperationTracer, logger *slog.Logger) *LoadCSVStep {
	return &LoadCSVStep{
		BaseStage: NewBaseStage(StepIDLoadCSV, StepNameLoadCSV, CheckpointCSVSaved),
		writer:    writer,
		path:      path,
		tracer:    tracer,
		logger:    logger.With(slog.String("step", StepIDLoadCSV)),
	}
}

// Validate requires an enriched table
func (s *LoadCSVStep) Validate(state *OperationState) error {
	return requireEnriched(s.ID(), state)
}

// Execute overwrites the CSV file with the table
func (s *LoadCSVStep) Execute(ctx context.Context, state *OperationState) error {
	if err := s.writer.WriteTable(s.path, state.Table); err != nil {
		return err
	}
	s.tracer.RecordLoad(ctx, SinkCSV, state.Table.Len())

	s.logger.InfoContext(ctx, "CSV written",
		slog.String("file", s.path),
		slog.Int("rows", state.Table.Len()))
	return nil
}

// LoadXLSXStep writes the enriched table to a workbook
type LoadXLSXStep struct {
	BaseStage
	writer *exporter.XLSXWriter
	path   string
	tracer *OperationTracer
	logger *slog.Logger
}

// NewLoadXLSXStep creates the workbook load step
func NewLoadXLSXStep(writer *exporter.XLSXWriter, path string, tracer *OperationTracer, logger *slog.Logger) *LoadXLSXStep {
	return &LoadXLSXStep{
		BaseStage: NewBaseStage(StepIDLoadXLSX, StepNameLoadXLSX, ""),
		writer:    writer,
		path:      path,
		tracer:    tracer,
		logger:    logger.With(slog.String("step", StepIDLoadXLSX)),
	}
}

// Validate requires an enriched table
func (s *LoadXLSXStep) Validate(state *OperationState) error {
	return requireEnriched(s.ID(), state)
}

// Execute overwrites the workbook with the table
func (s *LoadXLSXStep) Execute(ctx context.Context, state *OperationState) error {
	if err := s.writer.WriteTable(s.path, state.Table); err != nil {
		return err
	}
	s.tracer.RecordLoad(ctx, SinkXLSX, state.Table.Len())

	s.logger.InfoContext(ctx, "Workbook written",
		slog.String("file", s.path),
		slog.Int("rows", state.Table.Len()))
	return nil
}

// ConnectStep opens the database used by the remaining steps
type ConnectStep struct {
	BaseStage
	path   string
	logger *slog.Logger
}

// NewConnectStep creates the database connect step
func NewConnectStep(path string, logger *slog.Logger) *ConnectStep {
	return &ConnectStep{
		BaseStage: NewBaseStage(StepIDConnect, StepNameConnect, CheckpointConnected),
		path:      path,
		logger:    logger,
	}
}

// Execute opens the store and hands it to state. The pipeline closes it.
func (s *ConnectStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Store != nil {
		return nil
	}
	store, err := storage.Open(ctx, s.path, s.logger)
	if err != nil {
		return err
	}
	state.Store = store
	return nil
}

// LoadDBStep replaces the database table with the enriched records
type LoadDBStep struct {
	BaseStage
	table  string
	tracer *OperationTracer
	logger *slog.Logger
}

// NewLoadDBStep creates the database load step
func NewLoadDBStep(table string, tracer *OperationTracer, logger *slog.Logger) *LoadDBStep {
	return &LoadDBStep{
		BaseStage: NewBaseStage(StepIDLoadDB, StepNameLoadDB, CheckpointDBLoaded),
		table:     table,
		tracer:    tracer,
		logger:    logger.With(slog.String("step", StepIDLoadDB)),
	}
}

// Validate requires an open store and an enriched table
func (s *LoadDBStep) Validate(state *OperationState) error {
	if state.Store == nil {
		return NewValidationError(s.ID(), "database is not open")
	}
	return requireEnriched(s.ID(), state)
}

// Execute writes the table
func (s *LoadDBStep) Execute(ctx context.Context, state *OperationState) error {
	if err := state.Store.ReplaceTable(ctx, s.table, state.Table); err != nil {
		return err
	}
	s.tracer.RecordLoad(ctx, SinkDatabase, state.Table.Len())

	s.logger.InfoContext(ctx, "Database table loaded",
		slog.String("table", s.table),
		slog.String("file", state.Store.Path()),
		slog.Int("rows", state.Table.Len()))
	return nil
}

// QueryStep runs the verification queries and prints their results
type QueryStep struct {
	BaseStage
	statements []string
	out        io.Writer
	logger     *slog.Logger
}

// NewQueryStep creates the query step printing to out
func NewQueryStep(statements []string, out io.Writer, logger *slog.Logger) *QueryStep {
	return &QueryStep{
		BaseStage:  NewBaseStage(StepIDQuery, StepNameQuery, CheckpointComplete),
		statements: statements,
		out:        out,
		logger:     logger,
	}
}

// Validate requires an open store
func (s *QueryStep) Validate(state *OperationState) error {
	if state.Store == nil {
		return NewValidationError(s.ID(), "database is not open")
	}
	return nil
}

// Execute runs every statement in order
func (s *QueryStep) Execute(ctx context.Context, state *OperationState) error {
	results, err := storage.NewRunner(state.Store, s.out, s.logger).RunAll(ctx, s.statements)
	state.Results = results
	return err
}

func requireEnriched(stepID string, state *OperationState) error {
	if state.Table == nil || !state.Table.Enriched() {
		return NewValidationError(stepID, "table has not been transformed")
	}
	return nil
}
