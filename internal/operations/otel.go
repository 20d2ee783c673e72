package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bankscli/internal/infrastructure"
)

const (
	TracerName = "bankscli.operation"
)

// OperationTracer provides OpenTelemetry spans and run metrics for the pipeline
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by tracer, or the global
// provider when tracer is nil. metrics may be nil.
func NewOperationTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &OperationTracer{
		tracer:  tracer,
		metrics: metrics,
	}
}

// TraceOperationExecution creates a span for the entire run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID, sourceURL string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.source_url", sourceURL),
		),
	)
}

// TraceStepExecution creates a span for a single step
func (pt *OperationTracer) TraceStepExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("operation.step.%s", stepID)
	return pt.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a step span and records its metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	pt.metrics.RecordStep(ctx, stepID, duration, err)
}

// RecordOperationCompletion sets the final status on the run span
func (pt *OperationTracer) RecordOperationCompletion(span trace.Span, state *OperationState) {
	span.SetAttributes(
		attribute.String("operation.status", string(state.Status)),
		attribute.Float64("operation.duration_seconds", state.Duration().Seconds()),
	)
	if state.Table != nil {
		span.SetAttributes(attribute.Int("operation.records", state.Table.Len()))
	}
	if state.Error != nil {
		span.RecordError(state.Error)
		span.SetStatus(codes.Error, state.Error.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed successfully")
}

// RecordParse records parsed and skipped row counts
func (pt *OperationTracer) RecordParse(ctx context.Context, rows, skipped int) {
	if pt.metrics == nil {
		return
	}
	pt.metrics.RowsParsed.Add(ctx, int64(rows))
	pt.metrics.RowsSkipped.Add(ctx, int64(skipped))
}

// RecordFetch records the size of the downloaded page
func (pt *OperationTracer) RecordFetch(ctx context.Context, bytes int) {
	if pt.metrics == nil {
		return
	}
	pt.metrics.FetchBytes.Add(ctx, int64(bytes))
}

// RecordLoad records rows written to a sink
func (pt *OperationTracer) RecordLoad(ctx context.Context, sink string, rows int) {
	pt.metrics.RecordLoad(ctx, sink, rows)
}
