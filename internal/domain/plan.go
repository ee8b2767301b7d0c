package domain

import (
	"time"
)

// PlannedBelt is one row of a persisted allocation plan.
type PlannedBelt struct {
	FlightID string    `json:"flight_id"`
	Belt     int       `json:"belt"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Flow     Flow      `json:"flow"`
	Reason   string    `json:"reason"`
	Forced   bool      `json:"forced"`
}

// AllocationPlan is the persisted result of one allocation pass.
type AllocationPlan struct {
	GeneratedAt    time.Time     `json:"generated_at"`
	Source         string        `json:"source"`
	HorizonMinutes int           `json:"horizon_minutes"`
	Rows           []PlannedBelt `json:"rows"`
}

func NewAllocationPlan(source string, horizonMinutes int) *AllocationPlan {
	return &AllocationPlan{
		GeneratedAt:    time.Now().UTC(),
		Source:         source,
		HorizonMinutes: horizonMinutes,
		Rows:           make([]PlannedBelt, 0),
	}
}

func (p *AllocationPlan) AddRow(row PlannedBelt) {
	p.Rows = append(p.Rows, row)
}

func (p *AllocationPlan) Key() string {
	return PlanKey(p.GeneratedAt)
}

// ForcedCount counts rows that required a stacked placement.
func (p *AllocationPlan) ForcedCount() int {
	n := 0
	for _, row := range p.Rows {
		if row.Forced {
			n++
		}
	}
	return n
}

func PlanKey(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format("2006-01-02-15-04")
}

func ParsePlanKey(key string) (time.Time, error) {
	return time.Parse("2006-01-02-15-04", key)
}
