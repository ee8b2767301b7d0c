package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const allocationTracerName = "github.com/airside-ops/belt-allocation/internal/service/assignment"

func AllocationTracer() trace.Tracer {
	return otel.Tracer(allocationTracerName)
}

func StartFetchSpan(ctx context.Context, start, end time.Time) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.fetch_arrivals",
		trace.WithAttributes(
			attribute.String("window.start", start.Format(time.RFC3339)),
			attribute.String("window.end", end.Format(time.RFC3339)),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartAllocationSpan(ctx context.Context, flightCount int) (context.Context, trace.Span) {
	return AllocationTracer().Start(ctx, "allocation.engine_pass",
		trace.WithAttributes(
			attribute.Int("allocation.flight_count", flightCount),
		),
	)
}

func RecordFetchResult(span trace.Span, count int, err error) {
	span.SetAttributes(attribute.Int("fetch.arrival_count", count))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordAllocationResult(span trace.Span, processedCount, forcedCount int, err error) {
	span.SetAttributes(
		attribute.Int("allocation.processed_count", processedCount),
		attribute.Int("allocation.forced_count", forcedCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the current trace context on an outbound
// request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
