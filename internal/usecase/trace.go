package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("roster-api/internal/usecase")

// startUsecaseSpan opens a child span under an active trace. Calls arriving
// outside a sampled request (startup restore, tests) stay span-free rather
// than minting orphan roots.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if parent := trace.SpanFromContext(ctx); !parent.SpanContext().IsValid() {
		return ctx, parent
	}

	return tracer.Start(ctx, name)
}
