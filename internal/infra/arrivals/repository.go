package arrivals

import (
	"context"
	"time"
)

// Repository abstracts the arrivals feed so the assignment service can be
// tested without the upstream source.
type Repository interface {
	GetArrivalsByTimeRange(ctx context.Context, start, end time.Time) (*ArrivalsResponse, error)
}
