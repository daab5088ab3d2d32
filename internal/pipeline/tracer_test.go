package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "casestat/internal/errors"
	"casestat/internal/infrastructure"
)

func TestTracer_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	tracer := NewTracer(tp.Tracer("test"), nil)
	ctx := infrastructure.WithTraceID(context.Background(), "run-1")

	ctx, run := tracer.TraceRun(ctx, "er", attribute.String("er.gender", "Males"))
	_, stage := tracer.TraceStage(ctx, "rank")
	EndSpan(stage, apperrors.NewEmptyResultError("nothing to rank"))
	EndSpan(run, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "rank", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Contains(t, spans[0].Attributes, attribute.String("error.type", "EMPTY_RESULT"))
	require.Len(t, spans[0].Events, 1, "error recorded as an event")

	assert.Equal(t, "pipeline.er", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
	assert.Contains(t, spans[1].Attributes, attribute.String("pipeline.trace_id", "run-1"))
	assert.Contains(t, spans[1].Attributes, attribute.String("er.gender", "Males"))
}

func TestEndSpan_PlainError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	_, span := NewTracer(tp.Tracer("test"), nil).TraceStage(context.Background(), "export")
	EndSpan(span, errors.New("disk full"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "disk full", spans[0].Status.Description)
	for _, a := range spans[0].Attributes {
		assert.NotEqual(t, attribute.Key("error.type"), a.Key)
	}
}

func TestNewTracer_Defaults(t *testing.T) {
	tracer := NewTracer(nil, nil)
	ctx, span := tracer.TraceRun(context.Background(), "cases")
	assert.False(t, span.IsRecording())
	EndSpan(span, nil)

	assert.NotPanics(t, func() {
		tracer.RecordRun(ctx, "cases", time.Now(), 1, 1, 0, nil)
	})
}
