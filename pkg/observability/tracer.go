package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps an otel trace.Tracer with the two span kinds the execution
// loop needs: provider calls and tool executions. Defaults to a no-op
// tracer so the runtime never pays tracing cost unless a caller supplies a
// real TracerProvider (spec.md's ambient stack: observability is opt-in,
// never mandatory).
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer builds a Tracer backed by provider.Tracer(name). Passing a nil
// provider yields a no-op tracer.
func NewTracer(name string, provider trace.TracerProvider) *Tracer {
	if provider == nil {
		provider = noop.NewTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(name)}
}

// StartProviderCall starts a span around one Provider.Chat/ChatStream call.
func (t *Tracer) StartProviderCall(ctx context.Context, providerName string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "provider.call", trace.WithAttributes())
}

// StartToolExecution starts a span around one tool invocation.
func (t *Tracer) StartToolExecution(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tool.execute", trace.WithAttributes())
}
