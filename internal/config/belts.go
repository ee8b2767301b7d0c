package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	generalPoolEnv         = "BELT_GENERAL_POOL"
	domesticBeltEnv        = "BELT_DOMESTIC"
	ctaBeltEnv             = "BELT_CTA"
	largeBeltEnv           = "BELT_LARGE"
	disabledBeltEnv        = "BELT_DISABLED"
	minGapMinutesEnv       = "BELT_MIN_GAP_MINUTES"
	minOccupancyMinutesEnv = "BELT_MIN_OCCUPANCY_MINUTES"
	horizonMinutesEnv      = "ALLOCATION_HORIZON_MINUTES"

	defaultDomesticBelt        = 7
	defaultCTABelt             = 6
	defaultLargeBelt           = 5
	defaultDisabledBelt        = 4
	defaultMinGapMinutes       = 1
	defaultMinOccupancyMinutes = 30
	defaultHorizonMinutes      = 180
)

// defaultGeneralPool is the deployed general-purpose belt set. Belt 4 is the
// disabled belt and stays out of every pool.
var defaultGeneralPool = []int{1, 2, 3, 5}

type BeltConfig struct {
	GeneralPool         []int
	DomesticBelt        int
	CTABelt             int
	LargeBelt           int
	DisabledBelt        int
	MinGapMinutes       int
	MinOccupancyMinutes int
	HorizonMinutes      int
}

func LoadBeltConfig() *BeltConfig {
	return &BeltConfig{
		GeneralPool:         parsePool(os.Getenv(generalPoolEnv)),
		DomesticBelt:        positiveIntFromEnv(domesticBeltEnv, defaultDomesticBelt),
		CTABelt:             positiveIntFromEnv(ctaBeltEnv, defaultCTABelt),
		LargeBelt:           positiveIntFromEnv(largeBeltEnv, defaultLargeBelt),
		DisabledBelt:        positiveIntFromEnv(disabledBeltEnv, defaultDisabledBelt),
		MinGapMinutes:       positiveIntFromEnv(minGapMinutesEnv, defaultMinGapMinutes),
		MinOccupancyMinutes: positiveIntFromEnv(minOccupancyMinutesEnv, defaultMinOccupancyMinutes),
		HorizonMinutes:      positiveIntFromEnv(horizonMinutesEnv, defaultHorizonMinutes),
	}
}

func (c *BeltConfig) Validate() error {
	if len(c.GeneralPool) == 0 {
		return ErrEmptyBeltPool
	}
	for _, id := range c.GeneralPool {
		if id == c.DisabledBelt {
			return ErrDisabledBeltInPool
		}
		if id == c.DomesticBelt || id == c.CTABelt {
			return ErrReservedBeltInPool
		}
	}
	if c.DomesticBelt == c.CTABelt {
		return ErrReservedBeltsEqual
	}
	if c.DomesticBelt == c.DisabledBelt || c.CTABelt == c.DisabledBelt {
		return ErrDisabledBeltReserved
	}
	return nil
}

// parsePool reads a comma-separated belt list. Malformed input falls back to
// the deployed default rather than failing startup.
func parsePool(raw string) []int {
	if raw == "" {
		return append([]int(nil), defaultGeneralPool...)
	}
	pool := make([]int, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return append([]int(nil), defaultGeneralPool...)
		}
		pool = append(pool, id)
	}
	return pool
}

func positiveIntFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
