package domain

import "context"

// AllocationRepository persists allocation plans so later passes can treat an
// already-published belt as a binding prior placement.
type AllocationRepository interface {
	SavePlan(ctx context.Context, plan *AllocationPlan) error
	GetPlan(ctx context.Context, planKey string) (*AllocationPlan, error)
	GetLatestPlan(ctx context.Context) (*AllocationPlan, error)
	GetFlightAllocation(ctx context.Context, flightID string) (*PlannedBelt, error)
}
