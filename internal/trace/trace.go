// Package trace owns the process-wide OpenTelemetry tracer.
package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Exporters understood by Init.
const (
	ExporterNone   = "NONE"
	ExporterStdout = "STDOUT"
	ExporterFile   = "FILE"
)

// Config selects where spans go.
type Config struct {
	ServiceName string
	Version     string
	Exporter    string // NONE, STDOUT or FILE
	File        string // FILE only
	PrettyPrint bool
}

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	spanFile       io.Closer
	enabled        bool
)

// Init installs a batching tracer provider for cfg. NONE leaves tracing off
// and StartSpan returns the span already in the context.
func Init(cfg Config) error {
	enabled = false
	exp := strings.ToUpper(cfg.Exporter)
	if exp == "" || exp == ExporterNone {
		return nil
	}
	if cfg.ServiceName == "" {
		return errors.New("trace: service name is required")
	}

	w, err := spanWriter(exp, cfg.File)
	if err != nil {
		return err
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		closeSpanFile()
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		closeSpanFile()
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(cfg.ServiceName)
	enabled = true
	return nil
}

func spanWriter(exporter, path string) (io.Writer, error) {
	switch exporter {
	case ExporterStdout:
		return os.Stdout, nil
	case ExporterFile:
		if path == "" {
			return nil, errors.New("trace: file exporter needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		spanFile = f
		return f, nil
	default:
		return nil, fmt.Errorf("trace: unknown exporter %q", exporter)
	}
}

func closeSpanFile() {
	if spanFile != nil {
		spanFile.Close()
		spanFile = nil
	}
}

// Shutdown flushes pending spans and closes the span file, if any.
func Shutdown(ctx context.Context) error {
	var err error
	if tracerProvider != nil {
		err = tracerProvider.Shutdown(ctx)
		tracerProvider = nil
	}
	closeSpanFile()
	enabled = false
	return err
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	return enabled
}

func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return "", "", false
	}
	return span.SpanContext().TraceID().String(),
		span.SpanContext().SpanID().String(),
		true
}
