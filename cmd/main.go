package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/airside-ops/belt-allocation/internal/config"
	"github.com/airside-ops/belt-allocation/internal/handler"
	"github.com/airside-ops/belt-allocation/internal/health"
	"github.com/airside-ops/belt-allocation/internal/infra/arrivals"
	"github.com/airside-ops/belt-allocation/internal/infra/beltrecorder"
	"github.com/airside-ops/belt-allocation/internal/infra/repository"
	"github.com/airside-ops/belt-allocation/internal/observability"
	"github.com/airside-ops/belt-allocation/internal/observability/logging"
	"github.com/airside-ops/belt-allocation/internal/observability/metrics"
	"github.com/airside-ops/belt-allocation/internal/observability/middleware"
	"github.com/airside-ops/belt-allocation/internal/service/assignment"
	"github.com/airside-ops/belt-allocation/internal/service/belt"
	"github.com/airside-ops/belt-allocation/internal/service/flow"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	allocationMetrics, err := metrics.NewAllocationMetrics()
	if err != nil {
		slog.Error("failed to initialize allocation metrics", slog.String("error", err.Error()))
		return 1
	}

	recorderCfg := beltrecorder.LoadConfig()
	runRecorder, err := beltrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize run recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := runRecorder.Close(); err != nil {
			slog.Warn("failed to close run recorder", slog.String("error", err.Error()))
		}
	}()

	arrivalsClient := arrivals.NewClient(cfg.ArrivalsSourceURL)

	redisOpts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.TLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	allocationRepo := repository.NewAllocationRepository(redisClient)

	classifier := flow.NewClassifier(
		cfg.Flow.DomesticOrigins,
		cfg.Flow.CTAOrigins,
		cfg.Flow.HeavyCarriers,
		cfg.Flow.HeavyPaxThreshold,
	)

	engine, err := belt.NewEngine(belt.Config{
		GeneralPool:  cfg.Belts.GeneralPool,
		DomesticBelt: cfg.Belts.DomesticBelt,
		CTABelt:      cfg.Belts.CTABelt,
		LargeBelt:    cfg.Belts.LargeBelt,
		MinGap:       time.Duration(cfg.Belts.MinGapMinutes) * time.Minute,
		MinOccupancy: time.Duration(cfg.Belts.MinOccupancyMinutes) * time.Minute,
	})
	if err != nil {
		slog.Error("invalid belt layout", slog.String("error", err.Error()))
		return 1
	}

	allocationService := assignment.NewService(
		arrivalsClient,
		allocationRepo,
		engine,
		classifier,
		runRecorder,
		allocationMetrics,
		cfg.Belts.HorizonMinutes,
	)
	allocationHandler := handler.NewAllocationHandler(allocationService, allocationRepo, engine, cfg)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("belt-allocation"),
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, cfg.ArrivalsSourceURL, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/allocations/run", allocationHandler.HandleAllocationRun)
		v1.GET("/allocations/current", allocationHandler.HandleCurrentAllocation)
		v1.POST("/allocations/preview", allocationHandler.HandleAllocationPreview)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("horizon_minutes", cfg.Belts.HorizonMinutes),
			slog.Int("min_gap_minutes", cfg.Belts.MinGapMinutes),
			slog.Any("general_pool", cfg.Belts.GeneralPool),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "belt-allocation"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   env,
		LogLevel:      cfg.LogLevel,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("belt-allocation"),
	})
}
