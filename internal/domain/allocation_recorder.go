package domain

import (
	"context"
	"time"
)

// AllocationRunRecord aggregates one allocation run's outcome per belt and
// flow, for observability sinks.
type AllocationRunRecord struct {
	RunID         string
	WindowStart   time.Time
	Belt          int
	Flow          string
	AssignedCount int
	ForcedCount   int
	PresetCount   int
}

type AllocationRecorder interface {
	RecordRunResults(ctx context.Context, records []AllocationRunRecord) error
	Flush(ctx context.Context) error
	Close() error
}
