package config

import (
	"os"
	"strings"
)

const (
	domesticOriginsEnv   = "FLOW_DOMESTIC_ORIGINS"
	ctaOriginsEnv        = "FLOW_CTA_ORIGINS"
	heavyCarriersEnv     = "HEAVY_CARRIERS"
	heavyPaxThresholdEnv = "HEAVY_PAX_THRESHOLD"

	defaultHeavyPaxThreshold = 150
)

// Default origin sets for the deployed airport: UK airports route domestic,
// Irish and Crown-dependency airports route via the common travel area.
var (
	defaultDomesticOrigins = []string{
		"LHR", "LGW", "STN", "LTN", "MAN", "BHX", "BRS", "NCL", "EDI", "GLA", "ABZ", "BFS", "BHD",
	}
	defaultCTAOrigins = []string{
		"DUB", "ORK", "SNN", "NOC", "KIR", "IOM", "GCI", "JER",
	}
	defaultHeavyCarriers = []string{
		"EK", "QR", "EY", "SQ", "BA", "VS",
	}
)

type FlowConfig struct {
	DomesticOrigins   []string
	CTAOrigins        []string
	HeavyCarriers     []string
	HeavyPaxThreshold int
}

func LoadFlowConfig() *FlowConfig {
	return &FlowConfig{
		DomesticOrigins:   csvFromEnv(domesticOriginsEnv, defaultDomesticOrigins),
		CTAOrigins:        csvFromEnv(ctaOriginsEnv, defaultCTAOrigins),
		HeavyCarriers:     csvFromEnv(heavyCarriersEnv, defaultHeavyCarriers),
		HeavyPaxThreshold: positiveIntFromEnv(heavyPaxThresholdEnv, defaultHeavyPaxThreshold),
	}
}

func csvFromEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	values := make([]string, 0, 8)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return append([]string(nil), fallback...)
	}
	return values
}
