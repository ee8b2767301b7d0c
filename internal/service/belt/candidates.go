package belt

import (
	"github.com/airside-ops/belt-allocation/internal/domain"
)

// beltCandidates returns the ordered belt trial list for the flight's flow.
// Reserved flows pin to their single belt. International flights may use any
// pool belt; the ordering is a soft preference only: heavy flights try the
// large-capacity belt first, everyone else tries it last so it stays free for
// the flights that need it. The flow is validated before this is called.
func (e *Engine) beltCandidates(f *domain.Flight) []int {
	switch f.Flow {
	case domain.FlowDomestic:
		return []int{e.cfg.DomesticBelt}
	case domain.FlowCTA:
		return []int{e.cfg.CTABelt}
	}

	ordered := make([]int, 0, len(e.cfg.GeneralPool))
	if f.Heavy {
		ordered = append(ordered, e.cfg.LargeBelt)
	}
	for _, id := range e.cfg.GeneralPool {
		if id != e.cfg.LargeBelt {
			ordered = append(ordered, id)
		}
	}
	if !f.Heavy {
		ordered = append(ordered, e.cfg.LargeBelt)
	}
	return ordered
}
