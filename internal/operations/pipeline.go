package operations

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"

	"bankscli/internal/exporter"
	"bankscli/internal/infrastructure"
	"bankscli/internal/scraper"
	"bankscli/internal/validation"
)

// Dependencies are the collaborators a pipeline is built from
type Dependencies struct {
	Fetcher  scraper.Fetcher
	Progress *infrastructure.ProgressLogger
	Tracer   trace.Tracer                    // optional, defaults to the global provider
	Metrics  *infrastructure.PipelineMetrics // optional
	Output   io.Writer                       // query results, defaults to os.Stdout
	Logger   *slog.Logger
}

// Pipeline runs the extract, transform and load steps in order and writes a
// progress checkpoint after each one
type Pipeline struct {
	cfg       Config
	steps     []Step
	progress  *infrastructure.ProgressLogger
	validator *validation.FileValidator
	tracer    *OperationTracer
	logger    *slog.Logger
}

// NewPipeline validates cfg and assembles the steps
func NewPipeline(cfg Config, deps Dependencies) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Fetcher == nil {
		return nil, NewValidationError("", "fetcher is required")
	}
	if deps.Progress == nil {
		return nil, NewValidationError("", "progress logger is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "pipeline"))

	out := deps.Output
	if out == nil {
		out = os.Stdout
	}

	tracer := NewOperationTracer(deps.Tracer, deps.Metrics)

	steps := []Step{
		NewExtractStep(deps.Fetcher, cfg.SourceURL, cfg.Selector, tracer, logger),
		NewTransformStep(cfg.RatesFile, logger),
		NewLoadCSVStep(exporter.NewCSVWriter(nil), cfg.CSVFile, tracer, logger),
	}
	if cfg.XLSXFile != "" {
		steps = append(steps, NewLoadXLSXStep(exporter.NewXLSXWriter(cfg.TableName), cfg.XLSXFile, tracer, logger))
	}
	steps = append(steps,
		NewConnectStep(cfg.DatabaseFile, logger),
		NewLoadDBStep(cfg.TableName, tracer, logger),
		NewQueryStep(cfg.queries(), out, logger),
	)

	return &Pipeline{
		cfg:       cfg,
		steps:     steps,
		progress:  deps.Progress,
		validator: validation.NewFileValidator(logger),
		tracer:    tracer,
		logger:    logger,
	}, nil
}

// Steps returns the steps in execution order
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Run executes every step. The first failure aborts the run; outputs already
// written are left in place. The database connection is closed on every path.
func (p *Pipeline) Run(ctx context.Context) (*OperationState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := NewOperationState(infrastructure.GetTraceID(ctx))
	for _, step := range p.steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := p.tracer.TraceOperationExecution(ctx, state.ID, p.cfg.SourceURL)
	defer span.End()

	p.logger.InfoContext(ctx, "Pipeline started",
		slog.String("operation_id", state.ID),
		slog.String("source_url", p.cfg.SourceURL),
		slog.Int("step_count", len(p.steps)))

	state.Start()
	err := p.execute(ctx, state)

	if closeErr := state.closeStore(); closeErr != nil {
		p.logger.ErrorContext(ctx, "Failed to close database", slog.String("error", closeErr.Error()))
		if err == nil {
			err = NewFatalError("failed to close database", closeErr)
		}
	}

	switch {
	case err == nil:
		state.Complete()
		p.logger.InfoContext(ctx, "Pipeline completed",
			slog.String("operation_id", state.ID),
			slog.Int("records", state.Table.Len()),
			slog.Duration("duration", state.Duration()))
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		p.logger.WarnContext(ctx, "Pipeline cancelled",
			slog.String("operation_id", state.ID),
			slog.String("step", FailedStep(err)))
	default:
		state.Fail(err)
		p.logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("operation_id", state.ID),
			slog.String("step", FailedStep(err)),
			slog.String("error", err.Error()))
	}

	p.tracer.RecordOperationCompletion(span, state)
	return state, err
}

func (p *Pipeline) execute(ctx context.Context, state *OperationState) error {
	if err := p.preflight(); err != nil {
		return WrapError(err, "preflight", "pre-flight check failed")
	}
	if err := p.checkpoint(CheckpointPreliminaries); err != nil {
		return err
	}

	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.skipRemaining(state, i, "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		p.logger.InfoContext(ctx, "Executing step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(p.steps)))

		if err := p.executeStep(ctx, state, step); err != nil {
			p.skipRemaining(state, i+1, "previous step "+step.ID()+" failed")
			if ctx.Err() != nil {
				return NewCancellationError(step.ID(), err)
			}
			return err
		}

		if msg := step.Checkpoint(); msg != "" {
			if err := p.checkpoint(msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// executeStep runs a single step inside its own span
func (p *Pipeline) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())

	if err := step.Validate(state); err != nil {
		stepState.Skip("validation failed: " + err.Error())
		return WrapError(err, step.ID(), "")
	}

	stepCtx, span := p.tracer.TraceStepExecution(ctx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	p.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		p.logger.ErrorContext(ctx, "Step execution failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return WrapError(err, step.ID(), "step execution failed")
	}

	stepState.Complete()
	p.logger.DebugContext(ctx, "Step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// preflight checks the rate file and output directory before anything is fetched
func (p *Pipeline) preflight() error {
	if p.cfg.OutputDir != "" {
		if err := p.validator.ValidateOutputDirectory(p.cfg.OutputDir); err != nil {
			return err
		}
	}
	return p.validator.ValidateCSVFile(p.cfg.RatesFile, RateFileColumns...)
}

func (p *Pipeline) checkpoint(message string) error {
	if err := p.progress.Log(message); err != nil {
		return NewFatalError("failed to write progress log", err)
	}
	return nil
}

func (p *Pipeline) skipRemaining(state *OperationState, from int, reason string) {
	for _, step := range p.steps[from:] {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}
