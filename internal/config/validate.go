package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.ArrivalsSourceURL == "" {
		return errors.New("ARRIVALS_SOURCE_URL environment variable is required")
	}
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	return cfg.Belts.Validate()
}
