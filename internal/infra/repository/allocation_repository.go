package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

const (
	planKeyPrefix   = "belts:plan:"
	flightKeyPrefix = "belts:flight:"
	latestPlanKey   = "belts:latest"

	// Plans and per-flight rows outlive the allocation horizon so a later
	// pass can still honor them as binding priors.
	planTTL   = 6 * time.Hour
	flightTTL = 6 * time.Hour
)

type plannedBeltRecord struct {
	FlightID string    `json:"flight_id"`
	Belt     int       `json:"belt"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Flow     string    `json:"flow"`
	Reason   string    `json:"reason"`
	Forced   bool      `json:"forced"`
}

type planRecord struct {
	GeneratedAt    time.Time           `json:"generated_at"`
	Source         string              `json:"source"`
	HorizonMinutes int                 `json:"horizon_minutes"`
	Rows           []plannedBeltRecord `json:"rows"`
}

type allocationRepository struct {
	client *redis.Client
}

func NewAllocationRepository(client *redis.Client) domain.AllocationRepository {
	return &allocationRepository{
		client: client,
	}
}

func (r *allocationRepository) SavePlan(ctx context.Context, plan *domain.AllocationPlan) error {
	if plan == nil {
		return ErrInvalidPlanData
	}

	record := planRecord{
		GeneratedAt:    plan.GeneratedAt,
		Source:         plan.Source,
		HorizonMinutes: plan.HorizonMinutes,
		Rows:           make([]plannedBeltRecord, 0, len(plan.Rows)),
	}
	for _, row := range plan.Rows {
		record.Rows = append(record.Rows, plannedBeltRecord{
			FlightID: row.FlightID,
			Belt:     row.Belt,
			Start:    row.Start,
			End:      row.End,
			Flow:     row.Flow.String(),
			Reason:   row.Reason,
			Forced:   row.Forced,
		})
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidPlanData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, planKeyPrefix+plan.Key(), data, planTTL)
	pipe.Set(ctx, latestPlanKey, data, planTTL)

	for _, row := range record.Rows {
		rowData, err := json.Marshal(row)
		if err != nil {
			return ErrInvalidPlanData
		}
		pipe.Set(ctx, flightKeyPrefix+row.FlightID, rowData, flightTTL)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (r *allocationRepository) GetPlan(ctx context.Context, planKey string) (*domain.AllocationPlan, error) {
	return r.getPlanAt(ctx, planKeyPrefix+planKey)
}

func (r *allocationRepository) GetLatestPlan(ctx context.Context) (*domain.AllocationPlan, error) {
	return r.getPlanAt(ctx, latestPlanKey)
}

func (r *allocationRepository) getPlanAt(ctx context.Context, key string) (*domain.AllocationPlan, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	var record planRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidPlanData
	}

	plan := &domain.AllocationPlan{
		GeneratedAt:    record.GeneratedAt,
		Source:         record.Source,
		HorizonMinutes: record.HorizonMinutes,
		Rows:           make([]domain.PlannedBelt, 0, len(record.Rows)),
	}
	for _, row := range record.Rows {
		plan.Rows = append(plan.Rows, domain.PlannedBelt{
			FlightID: row.FlightID,
			Belt:     row.Belt,
			Start:    row.Start,
			End:      row.End,
			Flow:     domain.Flow(row.Flow),
			Reason:   row.Reason,
			Forced:   row.Forced,
		})
	}

	return plan, nil
}

func (r *allocationRepository) GetFlightAllocation(ctx context.Context, flightID string) (*domain.PlannedBelt, error) {
	data, err := r.client.Get(ctx, flightKeyPrefix+flightID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}

	var row plannedBeltRecord
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, ErrInvalidPlanData
	}

	return &domain.PlannedBelt{
		FlightID: row.FlightID,
		Belt:     row.Belt,
		Start:    row.Start,
		End:      row.End,
		Flow:     domain.Flow(row.Flow),
		Reason:   row.Reason,
		Forced:   row.Forced,
	}, nil
}
