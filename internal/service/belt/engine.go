package belt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

const (
	// DefaultMinGap is the minimum spacing required between two committed
	// intervals on the same belt beyond simple non-overlap.
	DefaultMinGap = 1 * time.Minute

	// DefaultMinOccupancy is the window synthesized for flights that arrive
	// without a usable occupancy end.
	DefaultMinOccupancy = 30 * time.Minute
)

var (
	ErrEmptyPool          = errors.New("general-purpose belt pool must not be empty")
	ErrReservedBeltInPool = errors.New("reserved belt must not be in the general-purpose pool")
	ErrLargeBeltNotInPool = errors.New("large-capacity belt must be in the general-purpose pool")
	ErrReservedBeltsEqual = errors.New("domestic and CTA belts must differ")
	ErrNonPositiveGap     = errors.New("minimum safety gap must be positive")
)

// Config carries the belt layout and timing constants the engine works
// against. Nothing is hard-wired so tests can exercise arbitrary layouts.
type Config struct {
	// GeneralPool lists the belts usable by international-flow flights, in
	// default trial order.
	GeneralPool []int
	// DomesticBelt and CTABelt are the single reserved belts per flow.
	DomesticBelt int
	CTABelt      int
	// LargeBelt is the pool member heavy flights prefer.
	LargeBelt int
	// MinGap is the minimum spacing between committed intervals on a belt.
	MinGap time.Duration
	// MinOccupancy is the synthesized window for flights without a valid end.
	MinOccupancy time.Duration
}

func (c Config) validate() error {
	if len(c.GeneralPool) == 0 {
		return ErrEmptyPool
	}
	if c.DomesticBelt == c.CTABelt {
		return ErrReservedBeltsEqual
	}
	largeInPool := false
	for _, id := range c.GeneralPool {
		if id == c.DomesticBelt || id == c.CTABelt {
			return fmt.Errorf("belt %d: %w", id, ErrReservedBeltInPool)
		}
		if id == c.LargeBelt {
			largeInPool = true
		}
	}
	if !largeInPool {
		return fmt.Errorf("belt %d: %w", c.LargeBelt, ErrLargeBeltNotInPool)
	}
	if c.MinGap <= 0 {
		return ErrNonPositiveGap
	}
	return nil
}

// Engine assigns arriving flights to physical reclaim belts in a single
// greedy online pass. It holds no state between calls; every invocation
// builds its own usage timeline, so concurrent callers are independent.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MinGap == 0 {
		cfg.MinGap = DefaultMinGap
	}
	if cfg.MinOccupancy == 0 {
		cfg.MinOccupancy = DefaultMinOccupancy
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Result is the outcome of one allocation pass. ForcedCount is advisory:
// a forced placement is never an error, only a logged conflict.
type Result struct {
	Flights     []domain.Flight
	ForcedCount int
}

// Allocate resolves a belt for every flight. Flights are processed in
// ascending start order (ties keep input order); each one leaves the pass
// placed, either on the first conflict-free candidate or forced onto the
// earliest-clearing one. Only an unknown flow kind is an error.
func (e *Engine) Allocate(ctx context.Context, flights []domain.Flight) (*Result, error) {
	ordered := make([]domain.Flight, len(flights))
	copy(ordered, flights)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	timeline := newUsageTimeline(e.cfg.GeneralPool)
	forced := 0

	for i := range ordered {
		f := &ordered[i]
		if !f.Flow.IsValid() {
			return nil, fmt.Errorf("flight %s: flow %q: %w", f.ID, f.Flow, domain.ErrInvalidFlowKind)
		}
		e.normalize(f)

		// A requested belt that survived normalization is binding. Record it
		// so later flights see the occupancy, but never re-check it.
		if f.HasRequestedBelt() {
			f.AssignedBelt = f.RequestedBelt
			f.Forced = false
			f.Reason = fmt.Sprintf("belt %d pre-assigned", f.RequestedBelt)
			timeline.record(f.AssignedBelt, f)
			continue
		}

		candidates := e.beltCandidates(f)

		placed := false
		for _, id := range candidates {
			if timeline.fits(id, f.Start, f.End, e.cfg.MinGap) {
				f.AssignedBelt = id
				f.Forced = false
				f.Reason = e.placementReason(f, id)
				timeline.record(id, f)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		// Every candidate is busy. Stack onto the belt clearing soonest so
		// the flight still leaves with an operationally usable answer.
		id := timeline.earliestClearing(candidates)
		f.AssignedBelt = id
		f.Forced = true
		f.Reason = fmt.Sprintf("all belts busy, stacked on belt %d (clears soonest)", id)
		timeline.record(id, f)
		forced++

		slog.DebugContext(ctx, "forced belt placement",
			slog.String("flight_id", f.ID),
			slog.Int("belt", id),
			slog.Time("start", f.Start),
			slog.Time("end", f.End),
		)
	}

	return &Result{Flights: ordered, ForcedCount: forced}, nil
}

func (e *Engine) placementReason(f *domain.Flight, beltID int) string {
	switch f.Flow {
	case domain.FlowDomestic:
		return fmt.Sprintf("domestic arrival, fixed belt %d", beltID)
	case domain.FlowCTA:
		return fmt.Sprintf("CTA arrival, fixed belt %d", beltID)
	}
	if f.Heavy && beltID == e.cfg.LargeBelt {
		return fmt.Sprintf("heavy flight, large belt %d preferred", beltID)
	}
	return fmt.Sprintf("first conflict-free belt %d", beltID)
}
