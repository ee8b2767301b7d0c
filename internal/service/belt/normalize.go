package belt

import (
	"github.com/airside-ops/belt-allocation/internal/domain"
)

// normalize cleans caller-supplied ambiguity before allocation: a requested
// belt outside the flow's legal set becomes unset, so the main loop falls
// through to candidate selection instead of honoring garbage input, and a
// missing or inverted occupancy end gets the minimum occupancy window.
func (e *Engine) normalize(f *domain.Flight) {
	if f.RequestedBelt != 0 && !e.legalBelt(f.Flow, f.RequestedBelt) {
		f.RequestedBelt = 0
	}
	if f.End.IsZero() || f.End.Before(f.Start) {
		f.End = f.Start.Add(e.cfg.MinOccupancy)
	}
}

// legalBelt reports whether the belt is a member of the flow's legal set.
func (e *Engine) legalBelt(flow domain.Flow, beltID int) bool {
	switch flow {
	case domain.FlowDomestic:
		return beltID == e.cfg.DomesticBelt
	case domain.FlowCTA:
		return beltID == e.cfg.CTABelt
	case domain.FlowInternational:
		for _, id := range e.cfg.GeneralPool {
			if id == beltID {
				return true
			}
		}
	}
	return false
}
