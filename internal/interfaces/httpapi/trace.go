package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("roster-api/internal/interfaces/httpapi")

// startSpan opens a handler span under the otelhttp server span. Requests on
// filtered routes carry no valid parent and stay span-free; only handler
// entry points get spans, middleware shares its handler's.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	if !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, parent
	}

	return tracer.Start(ctx, name)
}
