package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	ArrivalsSourceURL string
	Port              string
	LogLevel          slog.Level
	Redis             *RedisConfig
	Belts             *BeltConfig
	Flow              *FlowConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		ArrivalsSourceURL: os.Getenv("ARRIVALS_SOURCE_URL"),
		Port:              port,
		LogLevel:          parseLogLevel(os.Getenv("LOG_LEVEL")),
		Redis:             redisConfig,
		Belts:             LoadBeltConfig(),
		Flow:              LoadFlowConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
