package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	"market-sentiment/internal/trace"
)

func TestStartOperationCarriesSpan(t *testing.T) {
	require.NoError(t, InitWithConfig(LogConfig{Level: "DEBUG", Format: "text"}))
	require.NoError(t, trace.Init(trace.Config{
		ServiceName: "logger-test",
		Exporter:    trace.ExporterFile,
		File:        filepath.Join(t.TempDir(), "spans.jsonl"),
	}))
	t.Cleanup(func() { trace.Shutdown(context.Background()) })

	op := StartOperation(context.Background(), "digest.SummarizeDay", "date", "2024-03-01")
	span := oteltrace.SpanFromContext(op.GetContext())
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())

	op.End("csv_path", "x.csv")
	assert.False(t, span.IsRecording())

	failed := StartOperation(context.Background(), "digest.SummarizeToday")
	failed.EndWithError(errors.New("disk full"))
	assert.False(t, oteltrace.SpanFromContext(failed.GetContext()).IsRecording())
}

func TestStartOperationWithoutTracing(t *testing.T) {
	require.NoError(t, trace.Init(trace.Config{Exporter: trace.ExporterNone}))

	ctx := context.Background()
	op := StartOperation(ctx, "noop")
	assert.Equal(t, ctx, op.GetContext())
	op.End()
}

func TestToAttributesSkipsUnsupported(t *testing.T) {
	attrs := toAttributes([]any{"symbol", "TSLA", "count", 3, "ratio", 0.5, 42, "bad-key", "ok", true, "dangling"})
	require.Len(t, attrs, 4)
	assert.Equal(t, "symbol", string(attrs[0].Key))
	assert.Equal(t, "TSLA", attrs[0].Value.AsString())
	assert.True(t, attrs[3].Value.AsBool())
}
