package belt

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

func testConfig() Config {
	return Config{
		GeneralPool:  []int{1, 2, 3, 5},
		DomesticBelt: 7,
		CTABelt:      6,
		LargeBelt:    5,
		MinGap:       time.Minute,
		MinOccupancy: 30 * time.Minute,
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return engine
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

func intl(id string, start, end time.Time) domain.Flight {
	return domain.Flight{ID: id, Start: start, End: end, Flow: domain.FlowInternational}
}

func TestNewEngineValidatesLayout(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *Config)
		expected error
	}{
		{
			name:     "empty pool rejected",
			mutate:   func(cfg *Config) { cfg.GeneralPool = nil },
			expected: ErrEmptyPool,
		},
		{
			name:     "domestic belt in pool rejected",
			mutate:   func(cfg *Config) { cfg.DomesticBelt = 1 },
			expected: ErrReservedBeltInPool,
		},
		{
			name:     "CTA belt in pool rejected",
			mutate:   func(cfg *Config) { cfg.CTABelt = 2 },
			expected: ErrReservedBeltInPool,
		},
		{
			name:     "large belt outside pool rejected",
			mutate:   func(cfg *Config) { cfg.LargeBelt = 9 },
			expected: ErrLargeBeltNotInPool,
		},
		{
			name:     "equal reserved belts rejected",
			mutate:   func(cfg *Config) { cfg.CTABelt = 7 },
			expected: ErrReservedBeltsEqual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := NewEngine(cfg); !errors.Is(err, tt.expected) {
				t.Errorf("NewEngine() error = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestAllocateExampleScenario(t *testing.T) {
	cfg := testConfig()
	cfg.GeneralPool = []int{1, 2, 3}
	cfg.LargeBelt = 3
	engine := newTestEngine(t, cfg)

	flights := []domain.Flight{
		intl("A", at(10, 0), at(10, 30)),
		intl("B", at(10, 5), at(10, 35)),
		{ID: "C", Start: at(10, 0), End: at(10, 30), Flow: domain.FlowDomestic},
	}

	result, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	belts := assignedBelts(result.Flights)
	if belts["A"] != 1 {
		t.Errorf("flight A belt = %d, want 1", belts["A"])
	}
	if belts["B"] != 2 {
		t.Errorf("flight B belt = %d, want 2", belts["B"])
	}
	if belts["C"] != 7 {
		t.Errorf("flight C belt = %d, want 7", belts["C"])
	}
	if result.ForcedCount != 0 {
		t.Errorf("forced count = %d, want 0", result.ForcedCount)
	}
}

func TestAllocateTotality(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	// More simultaneous international flights than pool belts, mixed with
	// reserved flows: everyone must still come out placed on a legal belt.
	flights := []domain.Flight{
		intl("I1", at(9, 0), at(9, 45)),
		intl("I2", at(9, 0), at(9, 45)),
		intl("I3", at(9, 0), at(9, 45)),
		intl("I4", at(9, 0), at(9, 45)),
		intl("I5", at(9, 0), at(9, 45)),
		intl("I6", at(9, 0), at(9, 45)),
		{ID: "D1", Start: at(9, 0), End: at(9, 40), Flow: domain.FlowDomestic},
		{ID: "D2", Start: at(9, 10), End: at(9, 50), Flow: domain.FlowDomestic},
		{ID: "C1", Start: at(9, 0), End: at(9, 40), Flow: domain.FlowCTA},
	}

	result, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if len(result.Flights) != len(flights) {
		t.Fatalf("expected %d flights out, got %d", len(flights), len(result.Flights))
	}

	for _, f := range result.Flights {
		if f.AssignedBelt == 0 {
			t.Errorf("flight %s left without a belt", f.ID)
		}
		if f.Reason == "" {
			t.Errorf("flight %s left without a reason", f.ID)
		}
		if !legalFor(f.Flow, f.AssignedBelt) {
			t.Errorf("flight %s on belt %d, illegal for flow %s", f.ID, f.AssignedBelt, f.Flow)
		}
	}
}

func legalFor(flow domain.Flow, beltID int) bool {
	switch flow {
	case domain.FlowDomestic:
		return beltID == 7
	case domain.FlowCTA:
		return beltID == 6
	default:
		return beltID == 1 || beltID == 2 || beltID == 3 || beltID == 5
	}
}

func TestAllocateFlowPinning(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	flights := []domain.Flight{
		{ID: "D1", Start: at(8, 0), End: at(8, 30), Flow: domain.FlowDomestic},
		{ID: "D2", Start: at(8, 5), End: at(8, 35), Flow: domain.FlowDomestic},
		{ID: "C1", Start: at(8, 0), End: at(8, 30), Flow: domain.FlowCTA},
		{ID: "C2", Start: at(8, 5), End: at(8, 35), Flow: domain.FlowCTA},
	}

	result, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	// Reserved belts take every flight of their flow, overlap or not, and
	// never count as forced.
	for _, f := range result.Flights {
		want := 7
		if f.Flow == domain.FlowCTA {
			want = 6
		}
		if f.AssignedBelt != want {
			t.Errorf("flight %s belt = %d, want %d", f.ID, f.AssignedBelt, want)
		}
		if f.Forced {
			t.Errorf("flight %s marked forced on a reserved belt", f.ID)
		}
	}
	if result.ForcedCount != 0 {
		t.Errorf("forced count = %d, want 0", result.ForcedCount)
	}
}

func TestAllocateNoOverlapUnderSlackCapacity(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	// At most 4 concurrent international flights against a pool of 4.
	flights := []domain.Flight{
		intl("I1", at(11, 0), at(11, 30)),
		intl("I2", at(11, 5), at(11, 40)),
		intl("I3", at(11, 10), at(11, 45)),
		intl("I4", at(11, 15), at(11, 50)),
		intl("I5", at(11, 55), at(12, 20)),
	}

	result, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if result.ForcedCount != 0 {
		t.Fatalf("forced count = %d, want 0", result.ForcedCount)
	}

	byBelt := make(map[int][]domain.Flight)
	for _, f := range result.Flights {
		byBelt[f.AssignedBelt] = append(byBelt[f.AssignedBelt], f)
	}
	for beltID, group := range byBelt {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if conflicts(group[i].Start, group[i].End, group[j].Start, group[j].End, time.Minute) {
					t.Errorf("belt %d: flights %s and %s conflict", beltID, group[i].ID, group[j].ID)
				}
			}
		}
	}
}

func TestAllocateForcedFallback(t *testing.T) {
	cfg := testConfig()
	cfg.GeneralPool = []int{1, 2}
	cfg.LargeBelt = 2
	engine := newTestEngine(t, cfg)

	// Three identical overlapping windows against a pool of two: the third
	// must be forced onto the belt whose last interval ends soonest.
	flights := []domain.Flight{
		intl("I1", at(14, 0), at(14, 40)),
		intl("I2", at(14, 0), at(14, 30)),
		intl("I3", at(14, 0), at(14, 40)),
	}

	result, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if result.ForcedCount != 1 {
		t.Fatalf("forced count = %d, want 1", result.ForcedCount)
	}

	belts := assignedBelts(result.Flights)
	// I1 takes belt 1 (ends 14:40), I2 takes belt 2 (ends 14:30); belt 2
	// clears soonest, so I3 stacks there.
	if belts["I1"] != 1 || belts["I2"] != 2 {
		t.Fatalf("setup placements wrong: I1=%d I2=%d", belts["I1"], belts["I2"])
	}
	if belts["I3"] != 2 {
		t.Errorf("forced flight belt = %d, want 2 (earliest clearing)", belts["I3"])
	}
	for _, f := range result.Flights {
		if f.ID == "I3" && !f.Forced {
			t.Error("forced flight not marked forced")
		}
	}
}

func TestAllocateHeavyPreference(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	heavy := intl("EK17", at(12, 0), at(12, 45))
	heavy.Heavy = true

	result, err := engine.Allocate(context.Background(), []domain.Flight{heavy})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if got := result.Flights[0].AssignedBelt; got != 5 {
		t.Errorf("heavy flight belt = %d, want large belt 5", got)
	}

	// A non-heavy flight on an empty pool takes the first default belt,
	// leaving the large belt for last.
	light := intl("EZY201", at(12, 0), at(12, 45))
	result, err = engine.Allocate(context.Background(), []domain.Flight{light})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if got := result.Flights[0].AssignedBelt; got != 1 {
		t.Errorf("light flight belt = %d, want 1", got)
	}
}

func TestAllocateHeavyPreferenceIsSoft(t *testing.T) {
	cfg := testConfig()
	cfg.GeneralPool = []int{1, 5}
	engine := newTestEngine(t, cfg)

	blocker := intl("I1", at(15, 0), at(15, 40))
	blocker.RequestedBelt = 5
	heavy := intl("I2", at(15, 5), at(15, 45))
	heavy.Heavy = true

	result, err := engine.Allocate(context.Background(), []domain.Flight{blocker, heavy})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	belts := assignedBelts(result.Flights)
	// The large belt is busy, so the heavy flight falls back to the pool
	// rather than being rejected: preference, not eligibility.
	if belts["I2"] != 1 {
		t.Errorf("heavy flight belt = %d, want 1", belts["I2"])
	}
	if result.ForcedCount != 0 {
		t.Errorf("forced count = %d, want 0", result.ForcedCount)
	}
}

func TestAllocatePresetBeltIsBinding(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	preset := intl("I1", at(16, 0), at(16, 40))
	preset.RequestedBelt = 2
	// Same window: without the preset this would land on belt 1.
	competitor := intl("I2", at(16, 0), at(16, 40))

	result, err := engine.Allocate(context.Background(), []domain.Flight{preset, competitor})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	belts := assignedBelts(result.Flights)
	if belts["I1"] != 2 {
		t.Errorf("preset flight belt = %d, want 2", belts["I1"])
	}
	if belts["I2"] == 2 {
		t.Error("competitor landed on the preset belt despite the conflict")
	}
}

func TestAllocatePresetBeltAcceptedDespiteConflict(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	first := intl("I1", at(17, 0), at(17, 40))
	first.RequestedBelt = 1
	second := intl("I2", at(17, 0), at(17, 40))
	second.RequestedBelt = 1

	result, err := engine.Allocate(context.Background(), []domain.Flight{first, second})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	// Pre-set placements are binding and never rejected retroactively, even
	// when they collide with each other; no forced count accrues.
	for _, f := range result.Flights {
		if f.AssignedBelt != 1 {
			t.Errorf("flight %s belt = %d, want 1", f.ID, f.AssignedBelt)
		}
	}
	if result.ForcedCount != 0 {
		t.Errorf("forced count = %d, want 0", result.ForcedCount)
	}
}

func TestAllocateNormalizesIllegalRequestedBelt(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	tests := []struct {
		name   string
		flight domain.Flight
		want   int
	}{
		{
			name: "international flight requesting the disabled belt",
			flight: domain.Flight{
				ID: "I1", Start: at(18, 0), End: at(18, 30),
				Flow: domain.FlowInternational, RequestedBelt: 4,
			},
			want: 1,
		},
		{
			name: "domestic flight requesting a pool belt",
			flight: domain.Flight{
				ID: "D1", Start: at(18, 0), End: at(18, 30),
				Flow: domain.FlowDomestic, RequestedBelt: 2,
			},
			want: 7,
		},
		{
			name: "international flight requesting a reserved belt",
			flight: domain.Flight{
				ID: "I2", Start: at(18, 0), End: at(18, 30),
				Flow: domain.FlowInternational, RequestedBelt: 7,
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Allocate(context.Background(), []domain.Flight{tt.flight})
			if err != nil {
				t.Fatalf("Allocate() error: %v", err)
			}
			if got := result.Flights[0].AssignedBelt; got != tt.want {
				t.Errorf("belt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAllocateSynthesizesOccupancyWindow(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	flight := domain.Flight{ID: "I1", Start: at(19, 0), Flow: domain.FlowInternational}

	result, err := engine.Allocate(context.Background(), []domain.Flight{flight})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	got := result.Flights[0]
	if want := at(19, 30); !got.End.Equal(want) {
		t.Errorf("synthesized end = %v, want %v", got.End, want)
	}
}

func TestAllocateDeterminism(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	heavy := intl("I3", at(20, 0), at(20, 40))
	heavy.Heavy = true
	flights := []domain.Flight{
		intl("I1", at(20, 0), at(20, 40)),
		intl("I2", at(20, 0), at(20, 40)),
		heavy,
		{ID: "D1", Start: at(20, 5), End: at(20, 35), Flow: domain.FlowDomestic},
		intl("I4", at(20, 10), at(20, 50)),
	}

	first, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	second, err := engine.Allocate(context.Background(), flights)
	if err != nil {
		t.Fatalf("Allocate() rerun error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rerun diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAllocateLeavesInputUntouched(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	flights := []domain.Flight{
		intl("I2", at(21, 10), at(21, 40)),
		intl("I1", at(21, 0), at(21, 30)),
	}

	if _, err := engine.Allocate(context.Background(), flights); err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	if flights[0].ID != "I2" || flights[0].AssignedBelt != 0 {
		t.Error("Allocate() mutated its input slice")
	}
}

func TestAllocateUnknownFlowFails(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	flights := []domain.Flight{
		{ID: "X1", Start: at(22, 0), End: at(22, 30), Flow: domain.Flow("transit")},
	}

	_, err := engine.Allocate(context.Background(), flights)
	if !errors.Is(err, domain.ErrInvalidFlowKind) {
		t.Errorf("Allocate() error = %v, want ErrInvalidFlowKind", err)
	}
}

func assignedBelts(flights []domain.Flight) map[string]int {
	belts := make(map[string]int, len(flights))
	for _, f := range flights {
		belts[f.ID] = f.AssignedBelt
	}
	return belts
}
