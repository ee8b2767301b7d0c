package domain

import (
	"time"
)

// Flight is one arriving aircraft's belt-relevant record.
//
// Start and End bound the belt-occupancy window (both inclusive, Start <= End).
// RequestedBelt of 0 means no binding prior placement; any other value is
// validated against the flow's legal belt set before it is honored.
type Flight struct {
	ID            string
	Start         time.Time
	End           time.Time
	Flow          Flow
	RequestedBelt int
	Heavy         bool
	Reason        string
	AssignedBelt  int
	Forced        bool
}

// Occupancy returns the length of the belt-occupancy window.
func (f *Flight) Occupancy() time.Duration {
	return f.End.Sub(f.Start)
}

// HasRequestedBelt reports whether the flight arrived carrying a prior
// placement to honor.
func (f *Flight) HasRequestedBelt() bool {
	return f.RequestedBelt != 0
}
