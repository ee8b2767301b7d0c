package domain

// Flow classifies an arriving flight's origin and determines which belts it
// may legally use.
type Flow string

const (
	FlowDomestic      Flow = "domestic"
	FlowCTA           Flow = "cta"
	FlowInternational Flow = "international"
)

func (f Flow) String() string {
	return string(f)
}

func (f Flow) IsValid() bool {
	switch f {
	case FlowDomestic, FlowCTA, FlowInternational:
		return true
	}
	return false
}

// IsReserved reports whether the flow is pinned to a single reserved belt.
func (f Flow) IsReserved() bool {
	return f == FlowDomestic || f == FlowCTA
}
