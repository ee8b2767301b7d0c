package flow

import (
	"strings"

	"github.com/airside-ops/belt-allocation/internal/domain"
)

// DefaultHeavyPaxThreshold is the estimated passenger count above which a
// flight is treated as heavy regardless of carrier.
const DefaultHeavyPaxThreshold = 150

// Classifier maps an arrival's origin to its belt flow and decides whether a
// flight counts as heavy. The origin sets and carrier list come from
// configuration; classification itself is fixed before allocation runs.
type Classifier struct {
	domesticOrigins map[string]struct{}
	ctaOrigins      map[string]struct{}
	heavyCarriers   map[string]struct{}
	heavyPax        int
}

func NewClassifier(domesticOrigins, ctaOrigins, heavyCarriers []string, heavyPaxThreshold int) *Classifier {
	if heavyPaxThreshold <= 0 {
		heavyPaxThreshold = DefaultHeavyPaxThreshold
	}
	return &Classifier{
		domesticOrigins: toSet(domesticOrigins),
		ctaOrigins:      toSet(ctaOrigins),
		heavyCarriers:   toSet(heavyCarriers),
		heavyPax:        heavyPaxThreshold,
	}
}

// Classify returns the flow for an origin airport code. Anything outside the
// domestic and common-travel-area sets is international.
func (c *Classifier) Classify(origin string) domain.Flow {
	key := normalizeCode(origin)
	if _, ok := c.domesticOrigins[key]; ok {
		return domain.FlowDomestic
	}
	if _, ok := c.ctaOrigins[key]; ok {
		return domain.FlowCTA
	}
	return domain.FlowInternational
}

// IsHeavy reports whether the flight prefers the large-capacity belt: the
// operating carrier is a known high-capacity operator, or the passenger
// estimate exceeds the threshold.
func (c *Classifier) IsHeavy(carrier string, paxEstimate int) bool {
	if _, ok := c.heavyCarriers[normalizeCode(carrier)]; ok {
		return true
	}
	return paxEstimate > c.heavyPax
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if key := normalizeCode(code); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
