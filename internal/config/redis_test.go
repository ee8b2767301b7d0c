package config

import (
	"errors"
	"testing"
)

func TestLoadRedisConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(redisAddrEnv, "")
		t.Setenv(redisDBEnv, "")
		t.Setenv(redisTLSEnv, "")

		cfg, err := LoadRedisConfig()
		if err != nil {
			t.Fatalf("LoadRedisConfig() error: %v", err)
		}
		if cfg.Addr != defaultRedisAddr {
			t.Errorf("addr = %q, want %q", cfg.Addr, defaultRedisAddr)
		}
		if cfg.DB != defaultRedisDB {
			t.Errorf("db = %d, want %d", cfg.DB, defaultRedisDB)
		}
		if cfg.TLS {
			t.Error("tls enabled by default")
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv(redisAddrEnv, "redis.internal:6380")
		t.Setenv(redisDBEnv, "2")
		t.Setenv(redisTLSEnv, "true")

		cfg, err := LoadRedisConfig()
		if err != nil {
			t.Fatalf("LoadRedisConfig() error: %v", err)
		}
		if cfg.Addr != "redis.internal:6380" || cfg.DB != 2 {
			t.Errorf("cfg = (%q, %d)", cfg.Addr, cfg.DB)
		}
		if !cfg.TLS {
			t.Error("tls not enabled")
		}
	})

	t.Run("invalid db rejected", func(t *testing.T) {
		t.Setenv(redisDBEnv, "not-a-number")

		if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
			t.Errorf("LoadRedisConfig() error = %v, want ErrInvalidRedisDB", err)
		}
	})
}
