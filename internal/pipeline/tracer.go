package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "casestat/internal/errors"
	"casestat/internal/infrastructure"
)

// Tracer instruments pipeline runs and their stages
type Tracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewTracer wraps tracer and metrics. Either may be nil.
func NewTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Tracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	return &Tracer{tracer: tracer, metrics: metrics}
}

// TraceRun starts the root span of a run, named "pipeline.<name>".
func (t *Tracer) TraceRun(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("pipeline.name", name),
		attribute.String("pipeline.trace_id", infrastructure.GetTraceID(ctx)),
	)
	return t.tracer.Start(ctx, fmt.Sprintf("pipeline.%s", name),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// TraceStage starts a child span for one stage of a run.
func (t *Tracer) TraceStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("pipeline.stage", stage)),
	)
}

// EndSpan marks span failed when err is non-nil and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if t := apperrors.TypeOf(err); t != "" {
			span.SetAttributes(attribute.String("error.type", string(t)))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRun records the run's metrics.
func (t *Tracer) RecordRun(ctx context.Context, name string, start time.Time, read, emitted, unmapped int, err error) {
	infrastructure.RecordRunMetrics(ctx, t.metrics, infrastructure.RunStats{
		Pipeline: name,
		RowsRead: read,
		Emitted:  emitted,
		Unmapped: unmapped,
		Duration: time.Since(start),
		Err:      err,
	})
}
