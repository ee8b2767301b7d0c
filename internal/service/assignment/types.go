package assignment

import (
	"time"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

// ResultItem is one flight's final placement within a run.
type ResultItem struct {
	FlightID string      `json:"flight_id"`
	Origin   string      `json:"origin,omitempty"`
	Flow     domain.Flow `json:"flow"`
	Belt     int         `json:"belt"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Reason   string      `json:"reason"`
	Forced   bool        `json:"forced"`
	Preset   bool        `json:"preset"`
}

// Response summarizes one allocation run.
type Response struct {
	ProcessedCount int          `json:"processed_count"`
	ForcedCount    int          `json:"forced_count"`
	PresetCount    int          `json:"preset_count"`
	PlanKey        string       `json:"plan_key,omitempty"`
	Results        []ResultItem `json:"results"`
}
