package trace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNoneLeavesTracingOff(t *testing.T) {
	require.NoError(t, Init(Config{ServiceName: "svc", Exporter: ExporterNone}))
	assert.False(t, Enabled())

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())

	_, _, ok := GetTraceFields(got)
	assert.False(t, ok)
}

func TestInitFileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")
	require.NoError(t, Init(Config{ServiceName: "market-sentiment-test", Version: "t", Exporter: "file", File: path}))
	assert.True(t, Enabled())

	ctx, span := StartSpan(context.Background(), "pipeline.AnalyzeURL")
	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline.AnalyzeURL")
	assert.Contains(t, string(data), "market-sentiment-test")
}

func TestInitRejectsBadConfig(t *testing.T) {
	assert.Error(t, Init(Config{ServiceName: "svc", Exporter: "jaeger"}))
	assert.Error(t, Init(Config{ServiceName: "svc", Exporter: ExporterFile}))
	assert.Error(t, Init(Config{Exporter: ExporterStdout}))
	assert.False(t, Enabled())
}
