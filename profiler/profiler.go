// Package profiler marks the pipeline's expensive phases as named
// OpenTelemetry spans.
//
// The tracer resolves through the global otel provider, so with no
// provider installed every span is a no-op. Installing a provider (the
// demo binary does, and tests use the SDK's recorder) makes scene builds,
// blob rasterization, and paint fan-outs show up as spans without any
// pipeline code changing.
package profiler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// scopeName identifies this instrumentation scope to the tracer provider.
const scopeName = "github.com/gogpu/scenepaint"

// Span names for the pipeline's profiled phases.
const (
	SpanSceneBuild        = "scene.build"
	SpanBlobRasterization = "blob.rasterize"
	SpanTransaction       = "scene.transaction"
	SpanPaint             = "paint.fanout"
)

// Start opens a named span. The returned context carries the span for
// nesting; callers must End it.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(scopeName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// Int is a convenience for integer span attributes.
func Int(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}

// Int64 is a convenience for 64-bit integer span attributes.
func Int64(key string, value int64) attribute.KeyValue {
	return attribute.Int64(key, value)
}
