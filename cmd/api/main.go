package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mdpulso/clinic-assistant/internal/api/router"
	"github.com/mdpulso/clinic-assistant/internal/appointments"
	"github.com/mdpulso/clinic-assistant/internal/assistant"
	"github.com/mdpulso/clinic-assistant/internal/clinicians"
	appconfig "github.com/mdpulso/clinic-assistant/internal/config"
	"github.com/mdpulso/clinic-assistant/internal/patients"
	"github.com/mdpulso/clinic-assistant/internal/records"
	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	redisClient := buildRedisClient(ctx, cfg, logger)

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Warn("invalid clinic timezone, falling back to UTC", "timezone", cfg.ClinicTimezone)
		loc = time.UTC
	}

	// Repositories
	patientRepo := patients.NewRepository(pool)
	apptRepo := appointments.NewRepository(pool)
	noteRepo := records.NewRepository(pool)
	profileRepo := clinicians.NewRepository(pool)
	nameCache := clinicians.NewNameCache(profileRepo, redisClient, cfg.ProfileCacheTTL, logger)

	// Assistant core
	scheduler := appointments.NewScheduler(apptRepo, loc, logger)
	executor := assistant.NewExecutor(patientRepo, apptRepo, noteRepo, scheduler, logger)
	llmClient := assistant.NewOpenRouterClient(assistant.OpenRouterConfig{
		BaseURL: cfg.OpenRouterBaseURL,
		APIKey:  cfg.OpenRouterAPIKey,
		Referer: cfg.OpenRouterReferer,
		Title:   cfg.OpenRouterTitle,
		Timeout: cfg.AssistantTimeout,
		Logger:  logger,
	})
	service := assistant.NewService(assistant.ServiceConfig{
		LLM:         llmClient,
		Executor:    executor,
		Model:       cfg.AssistantModel,
		Temperature: cfg.AssistantTemperature,
		MaxRounds:   cfg.AssistantMaxRounds,
		Location:    loc,
		Logger:      logger,
	})
	assistantHandler := assistant.NewHandler(service, nameCache, logger)

	r := router.New(&router.Config{
		Logger:           logger,
		AssistantHandler: assistantHandler,
		SessionJWTSecret: cfg.SessionJWTSecret,
		MetricsHandler:   promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRedisClient returns a verified Redis client or nil when disabled.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, profile cache disabled", "error", err)
		return nil
	}
	return client
}
