package beltrecorder

import (
	"context"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.AllocationRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordRunResults(_ context.Context, _ []domain.AllocationRunRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
