package arrivals

import "time"

// ArrivalRecord is one flight row as published by the arrivals feed. Belt is
// the raw upstream value and may be empty or junk; the engine boundary
// normalizes it.
type ArrivalRecord struct {
	FlightNo    string    `json:"flight_no"`
	Carrier     string    `json:"carrier"`
	Origin      string    `json:"origin"`
	BeltStart   time.Time `json:"belt_start"`
	BeltEnd     time.Time `json:"belt_end"`
	Belt        string    `json:"belt,omitempty"`
	PaxEstimate int       `json:"pax_estimate,omitempty"`
	Flow        string    `json:"flow,omitempty"`
}

type ArrivalsResponse struct {
	Arrivals []ArrivalRecord `json:"arrivals"`
	Count    int             `json:"count"`
	Source   string          `json:"source"`
}
