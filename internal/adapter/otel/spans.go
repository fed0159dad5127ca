package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "skillsprint"

// StartRoadmapSpan starts a span for a roadmap operation.
func StartRoadmapSpan(ctx context.Context, op string, userID int64, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "roadmap."+op,
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("roadmap.name", name),
		),
	)
}

// StartSummarySpan starts a span for building a progress summary.
func StartSummarySpan(ctx context.Context, userID int64) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "progress.summary",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
}
