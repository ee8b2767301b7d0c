package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const allocationMeterName = "belt.allocation"

type AllocationMetrics struct {
	flightsAllocated   metric.Int64Counter
	forcedPlacements   metric.Int64Counter
	allocationDuration metric.Float64Histogram
	beltDistribution   metric.Int64Counter
}

func NewAllocationMetrics() (*AllocationMetrics, error) {
	meter := otel.Meter(allocationMeterName)

	flightsAllocated, err := meter.Int64Counter(
		"belt_flights_allocated_total",
		metric.WithDescription("Total number of flights run through the allocation engine"),
		metric.WithUnit("{flight}"),
	)
	if err != nil {
		return nil, err
	}

	forcedPlacements, err := meter.Int64Counter(
		"belt_forced_placements_total",
		metric.WithDescription("Total number of flights stacked onto a busy belt"),
		metric.WithUnit("{flight}"),
	)
	if err != nil {
		return nil, err
	}

	allocationDuration, err := meter.Float64Histogram(
		"belt_allocation_duration_seconds",
		metric.WithDescription("Time spent in one allocation pass"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	beltDistribution, err := meter.Int64Counter(
		"belt_assignment_distribution_total",
		metric.WithDescription("Distribution of assignments across belts"),
		metric.WithUnit("{flight}"),
	)
	if err != nil {
		return nil, err
	}

	return &AllocationMetrics{
		flightsAllocated:   flightsAllocated,
		forcedPlacements:   forcedPlacements,
		allocationDuration: allocationDuration,
		beltDistribution:   beltDistribution,
	}, nil
}

func (m *AllocationMetrics) RecordFlightAllocated(ctx context.Context, flow, outcome string) {
	m.flightsAllocated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	))
}

func (m *AllocationMetrics) RecordForcedPlacement(ctx context.Context, flow string) {
	m.forcedPlacements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
	))
}

func (m *AllocationMetrics) RecordAllocationDuration(ctx context.Context, duration time.Duration) {
	m.allocationDuration.Record(ctx, duration.Seconds())
}

func (m *AllocationMetrics) RecordBeltAssignment(ctx context.Context, beltID int) {
	m.beltDistribution.Add(ctx, 1, metric.WithAttributes(
		attribute.String("belt", strconv.Itoa(beltID)),
	))
}
