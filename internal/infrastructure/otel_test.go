package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"casestat/internal/config"
	apperrors "casestat/internal/errors"
)

func metricNames(t *testing.T, p *OTelProviders) []string {
	t.Helper()
	families, err := p.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{ServiceName: "casestat", TraceFile: "t.jsonl", MetricsFile: "m.prom"})
	assert.Equal(t, "casestat", cfg.ServiceName)
	assert.Equal(t, "t.jsonl", cfg.TraceFile)
	assert.Equal(t, "m.prom", cfg.MetricsFile)
	assert.NotEmpty(t, cfg.ServiceVersion)
}

func TestInitializeOTel_TracingDisabled(t *testing.T) {
	providers, err := InitializeOTel(nil, nil)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	require.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_SpanExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "casestat", SpanExporter: exporter}, nil)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "pipeline.er")
	SetSpanAttributes(ctx, map[string]interface{}{"rows": 3, "gender": "Females"})
	AddSpanEvent(ctx, "unmapped_label", map[string]interface{}{"column": "diagnosis"})
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "pipeline.er", spans[0].Name)
	assert.Len(t, spans[0].Attributes, 2)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "unmapped_label", spans[0].Events[0].Name)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_TraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "run.jsonl")
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "casestat", TraceFile: path}, nil)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	_, span := providers.Tracer.Start(context.Background(), "pipeline.cases")
	span.End()
	require.NoError(t, providers.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline.cases")
}

func TestPipelineMetrics_WrittenToTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "casestat.prom")
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "casestat", MetricsFile: path}, nil)
	require.NoError(t, err)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordRunMetrics(ctx, metrics, RunStats{Pipeline: "er", RowsRead: 40, Emitted: 10, Unmapped: 2, Duration: 150 * time.Millisecond})
	RecordRunMetrics(ctx, metrics, RunStats{Pipeline: "cases", RowsRead: 5, Err: apperrors.NewAppValidationError("bad")})
	RecordRunMetrics(ctx, nil, RunStats{Pipeline: "ignored"})

	names := metricNames(t, providers)
	for _, prefix := range []string{"casestat_rows_read", "casestat_rows_emitted", "casestat_unmapped_labels", "casestat_run_errors", "casestat_run_duration"} {
		assert.True(t, hasPrefix(names, prefix), "missing %s in %v", prefix, names)
	}

	require.NoError(t, providers.Shutdown(ctx))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `pipeline="er"`)
	assert.Contains(t, text, `error_type="VALIDATION"`)
}

func TestShutdown_ReportsMetricsFileError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	providers, err := InitializeOTel(&OTelConfig{ServiceName: "casestat", MetricsFile: filepath.Join(blocker, "m.prom")}, nil)
	require.NoError(t, err)

	err = providers.Shutdown(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
