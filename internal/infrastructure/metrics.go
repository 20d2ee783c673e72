package infrastructure

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PipelineMetrics holds the counters and histograms recorded during a run.
// Instruments are exported through a private Prometheus registry so a
// batch run can dump them to a node_exporter textfile on exit.
type PipelineMetrics struct {
	RowsParsed   metric.Int64Counter
	RowsSkipped  metric.Int64Counter
	RowsLoaded   metric.Int64Counter
	StepsTotal   metric.Int64Counter
	StepErrors   metric.Int64Counter
	StepDuration metric.Float64Histogram
	FetchBytes   metric.Int64Counter

	provider *sdkmetric.MeterProvider
	registry *promclient.Registry
}

// NewPipelineMetrics creates the meter provider, Prometheus bridge and instruments
func NewPipelineMetrics() (*PipelineMetrics, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(InstrumentationName)

	m := &PipelineMetrics{provider: provider, registry: registry}

	if m.RowsParsed, err = meter.Int64Counter(
		"banks_rows_parsed",
		metric.WithDescription("Bank rows extracted from the source table"),
	); err != nil {
		return nil, err
	}
	if m.RowsSkipped, err = meter.Int64Counter(
		"banks_rows_skipped",
		metric.WithDescription("Source table rows that were not bank data rows"),
	); err != nil {
		return nil, err
	}
	if m.RowsLoaded, err = meter.Int64Counter(
		"banks_rows_loaded",
		metric.WithDescription("Rows written to an output sink"),
	); err != nil {
		return nil, err
	}
	if m.StepsTotal, err = meter.Int64Counter(
		"banks_steps",
		metric.WithDescription("Pipeline steps executed"),
	); err != nil {
		return nil, err
	}
	if m.StepErrors, err = meter.Int64Counter(
		"banks_step_errors",
		metric.WithDescription("Pipeline steps that failed"),
	); err != nil {
		return nil, err
	}
	if m.StepDuration, err = meter.Float64Histogram(
		"banks_step_duration",
		metric.WithDescription("Pipeline step execution duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.FetchBytes, err = meter.Int64Counter(
		"banks_fetch",
		metric.WithDescription("Bytes of HTML downloaded from the source"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordStep records the outcome of a single pipeline step
func (m *PipelineMetrics) RecordStep(ctx context.Context, stepID string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(attribute.String("step", stepID), attribute.String("status", status))

	m.StepsTotal.Add(ctx, 1, attrs)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.StepErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("step", stepID)))
	}
}

// RecordLoad records rows written to the named sink
func (m *PipelineMetrics) RecordLoad(ctx context.Context, sink string, rows int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("sink", sink)))
}

// Gatherer exposes the backing registry
func (m *PipelineMetrics) Gatherer() promclient.Gatherer {
	return m.registry
}

// WriteTextfile writes all collected metrics in the Prometheus text format
func (m *PipelineMetrics) WriteTextfile(path string) error {
	if err := promclient.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Shutdown stops the meter provider
func (m *PipelineMetrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
