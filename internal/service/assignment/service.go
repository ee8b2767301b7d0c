package assignment

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/airside-ops/belt-allocation/internal/domain"
	"github.com/airside-ops/belt-allocation/internal/infra/arrivals"
	"github.com/airside-ops/belt-allocation/internal/observability/metrics"
	"github.com/airside-ops/belt-allocation/internal/observability/tracing"
	"github.com/airside-ops/belt-allocation/internal/service/belt"
	"github.com/airside-ops/belt-allocation/internal/service/flow"
)

// Service runs one end-to-end allocation pass: fetch the arrivals window,
// normalize records into flights, run the engine, publish the plan.
type Service struct {
	arrivalsClient    arrivals.Repository
	allocationRepo    domain.AllocationRepository
	engine            *belt.Engine
	classifier        *flow.Classifier
	recorder          domain.AllocationRecorder
	allocationMetrics *metrics.AllocationMetrics
	horizonMinutes    int
}

func NewService(
	arrivalsClient arrivals.Repository,
	allocationRepo domain.AllocationRepository,
	engine *belt.Engine,
	classifier *flow.Classifier,
	recorder domain.AllocationRecorder,
	allocationMetrics *metrics.AllocationMetrics,
	horizonMinutes int,
) *Service {
	return &Service{
		arrivalsClient:    arrivalsClient,
		allocationRepo:    allocationRepo,
		engine:            engine,
		classifier:        classifier,
		recorder:          recorder,
		allocationMetrics: allocationMetrics,
		horizonMinutes:    horizonMinutes,
	}
}

// ProcessArrivals fetches the window, allocates belts, and persists the plan.
// A fetch or engine failure is a hard error; persistence and recording
// degrade to warnings because the allocation itself already succeeded.
func (s *Service) ProcessArrivals(ctx context.Context, start, end time.Time, runID string) (*Response, error) {
	fetchCtx, fetchSpan := tracing.StartFetchSpan(ctx, start, end)
	arrivalsResp, err := s.arrivalsClient.GetArrivalsByTimeRange(fetchCtx, start, end)
	if err != nil {
		tracing.RecordFetchResult(fetchSpan, 0, err)
		fetchSpan.End()
		slog.ErrorContext(ctx, "failed to fetch arrivals",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	tracing.RecordFetchResult(fetchSpan, len(arrivalsResp.Arrivals), nil)
	fetchSpan.End()

	slog.DebugContext(ctx, "fetched arrivals",
		slog.Int("count", len(arrivalsResp.Arrivals)),
		slog.String("source", arrivalsResp.Source),
	)

	flights := make([]domain.Flight, 0, len(arrivalsResp.Arrivals))
	origins := make(map[string]string, len(arrivalsResp.Arrivals))
	for _, record := range arrivalsResp.Arrivals {
		f := s.flightFromRecord(record)
		s.applyPriorAllocation(ctx, &f)
		flights = append(flights, f)
		origins[f.ID] = record.Origin
	}

	allocCtx, allocSpan := tracing.StartAllocationSpan(ctx, len(flights))
	allocStart := time.Now()
	result, err := s.engine.Allocate(allocCtx, flights)
	if s.allocationMetrics != nil {
		s.allocationMetrics.RecordAllocationDuration(allocCtx, time.Since(allocStart))
	}
	if err != nil {
		tracing.RecordAllocationResult(allocSpan, 0, 0, err)
		allocSpan.End()
		return nil, err
	}
	tracing.RecordAllocationResult(allocSpan, len(result.Flights), result.ForcedCount, nil)
	allocSpan.End()

	plan := domain.NewAllocationPlan(arrivalsResp.Source, s.horizonMinutes)
	results := make([]ResultItem, 0, len(result.Flights))
	presetCount := 0

	for _, f := range result.Flights {
		preset := f.HasRequestedBelt() && f.AssignedBelt == f.RequestedBelt && !f.Forced
		if preset {
			presetCount++
		}

		plan.AddRow(domain.PlannedBelt{
			FlightID: f.ID,
			Belt:     f.AssignedBelt,
			Start:    f.Start,
			End:      f.End,
			Flow:     f.Flow,
			Reason:   f.Reason,
			Forced:   f.Forced,
		})
		results = append(results, ResultItem{
			FlightID: f.ID,
			Origin:   origins[f.ID],
			Flow:     f.Flow,
			Belt:     f.AssignedBelt,
			Start:    f.Start,
			End:      f.End,
			Reason:   f.Reason,
			Forced:   f.Forced,
			Preset:   preset,
		})

		if s.allocationMetrics != nil {
			s.allocationMetrics.RecordFlightAllocated(ctx, f.Flow.String(), outcomeOf(f, preset))
			s.allocationMetrics.RecordBeltAssignment(ctx, f.AssignedBelt)
			if f.Forced {
				s.allocationMetrics.RecordForcedPlacement(ctx, f.Flow.String())
			}
		}
	}

	if result.ForcedCount > 0 {
		slog.WarnContext(ctx, "allocation pass forced placements",
			slog.Int("forced_count", result.ForcedCount),
			slog.Int("flight_count", len(result.Flights)),
		)
	}

	if s.allocationRepo != nil {
		if err := s.allocationRepo.SavePlan(ctx, plan); err != nil {
			slog.WarnContext(ctx, "failed to persist allocation plan",
				slog.String("plan_key", plan.Key()),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.recorder != nil {
		records := buildRunRecords(runID, start, result.Flights)
		if err := s.recorder.RecordRunResults(ctx, records); err != nil {
			slog.WarnContext(ctx, "failed to record allocation run results",
				slog.String("error", err.Error()),
			)
		}
	}

	return &Response{
		ProcessedCount: len(result.Flights),
		ForcedCount:    result.ForcedCount,
		PresetCount:    presetCount,
		PlanKey:        plan.Key(),
		Results:        results,
	}, nil
}

// flightFromRecord normalizes one feed row into an engine flight. The raw
// belt value may be empty or junk; anything non-numeric becomes unset and the
// engine validates the rest against the flow's legal set.
func (s *Service) flightFromRecord(record arrivals.ArrivalRecord) domain.Flight {
	fl := domain.Flow(strings.ToLower(strings.TrimSpace(record.Flow)))
	if !fl.IsValid() {
		fl = s.classifier.Classify(record.Origin)
	}

	requested := 0
	if v, err := strconv.Atoi(strings.TrimSpace(record.Belt)); err == nil && v > 0 {
		requested = v
	}

	return domain.Flight{
		ID:            record.FlightNo,
		Start:         record.BeltStart,
		End:           record.BeltEnd,
		Flow:          fl,
		RequestedBelt: requested,
		Heavy:         s.classifier.IsHeavy(record.Carrier, record.PaxEstimate),
	}
}

// applyPriorAllocation turns a belt published on an earlier pass into a
// binding prior, so repeated polling never shuffles an already-announced
// flight.
func (s *Service) applyPriorAllocation(ctx context.Context, f *domain.Flight) {
	if s.allocationRepo == nil || f.RequestedBelt != 0 {
		return
	}

	prior, err := s.allocationRepo.GetFlightAllocation(ctx, f.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAllocationNotFound) {
			slog.WarnContext(ctx, "failed to look up prior allocation",
				slog.String("flight_id", f.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	f.RequestedBelt = prior.Belt
	slog.DebugContext(ctx, "honoring prior allocation",
		slog.String("flight_id", f.ID),
		slog.Int("belt", prior.Belt),
	)
}

func outcomeOf(f domain.Flight, preset bool) string {
	switch {
	case f.Forced:
		return "forced"
	case preset:
		return "preset"
	default:
		return "fit"
	}
}

func buildRunRecords(runID string, windowStart time.Time, flights []domain.Flight) []domain.AllocationRunRecord {
	type key struct {
		belt int
		flow string
	}
	grouped := make(map[key]*domain.AllocationRunRecord)

	for _, f := range flights {
		k := key{belt: f.AssignedBelt, flow: f.Flow.String()}
		record, ok := grouped[k]
		if !ok {
			record = &domain.AllocationRunRecord{
				RunID:       runID,
				WindowStart: windowStart,
				Belt:        f.AssignedBelt,
				Flow:        f.Flow.String(),
			}
			grouped[k] = record
		}
		record.AssignedCount++
		if f.Forced {
			record.ForcedCount++
		}
		if f.HasRequestedBelt() && f.AssignedBelt == f.RequestedBelt && !f.Forced {
			record.PresetCount++
		}
	}

	records := make([]domain.AllocationRunRecord, 0, len(grouped))
	for _, record := range grouped {
		records = append(records, *record)
	}
	return records
}
