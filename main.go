package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roobaroo/internal/api"
	"roobaroo/internal/config"
	"roobaroo/internal/database"
	"roobaroo/internal/logger"
	"roobaroo/internal/ratelimit"
	"roobaroo/internal/repository"
	"roobaroo/internal/service"
	"roobaroo/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env is optional; real deployments supply the environment.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env")
	}

	cfg := config.NewConfig()
	logger.New(cfg)

	db, err := database.NewMongoDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := db.Close(disconnectCtx); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	repo := repository.NewMongoRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	globalLimiter, registerLimiter := newLimiters(ctx, cfg)

	svc := service.NewRegistrationService(repo, validator.New())

	regHandler := api.NewRegistrationHandler(svc, cfg)
	healthHandler := api.NewHealthHandler(repo, cfg)

	app := api.NewApp(cfg, regHandler, healthHandler, globalLimiter, registerLimiter)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Shutting down", "signal", sig.String())
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("Failed to shut down server cleanly", "error", err)
		}
		cancel()
	}()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	slog.Info("Starting server", "addr", addr, "environment", cfg.Server.Environment)
	return app.Listen(addr)
}

// newLimiters builds the two request gates: a wide one for every
// endpoint and a strict one for registration submissions. With
// REDIS_ADDR set the counters live in Redis and are shared between
// replicas; otherwise they live in process memory.
func newLimiters(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, ratelimit.Limiter) {
	global := ratelimit.Config{Max: cfg.RateLimit.GlobalMax, Window: cfg.RateLimit.GlobalWindow}
	register := ratelimit.Config{Max: cfg.RateLimit.RegisterMax, Window: cfg.RateLimit.RegisterWindow}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		slog.Info("Rate limiting backed by Redis", "addr", cfg.Redis.Addr)
		return ratelimit.NewRedis(rdb, "ratelimit:global", global),
			ratelimit.NewRedis(rdb, "ratelimit:register", register)
	}

	globalLimiter := ratelimit.NewMemory(global)
	registerLimiter := ratelimit.NewMemory(register)
	globalLimiter.StartJanitor(ctx, 2*time.Minute)
	registerLimiter.StartJanitor(ctx, 2*time.Minute)
	return globalLimiter, registerLimiter
}
