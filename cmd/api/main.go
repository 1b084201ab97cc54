package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/flordomaracuja/lead-capture/cmd/mainconfig"
	"github.com/flordomaracuja/lead-capture/internal/analytics"
	"github.com/flordomaracuja/lead-capture/internal/api/router"
	appconfig "github.com/flordomaracuja/lead-capture/internal/config"
	"github.com/flordomaracuja/lead-capture/internal/http/handlers"
	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
	"github.com/flordomaracuja/lead-capture/internal/notify"
	"github.com/flordomaracuja/lead-capture/internal/observability/metrics"
	"github.com/flordomaracuja/lead-capture/internal/pipeline"
	"github.com/flordomaracuja/lead-capture/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-capture API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead store: Postgres in production, in-memory when no DATABASE_URL is
	// set (local development).
	var repo leads.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory lead store")
		repo = leads.NewInMemoryRepository()
	}

	// Session store for cooldown stamps, attribution and the offline queue.
	var local localstore.Store
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
		local = localstore.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory session store")
		local = localstore.NewMemoryStore()
	}

	// Analytics sink: SQS queue in production, structured log otherwise.
	var notifier analytics.Notifier
	if !cfg.UseLogAnalytics && cfg.AnalyticsQueueURL != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		notifier = analytics.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.AnalyticsQueueURL, logger)
	} else {
		notifier = analytics.NewLogNotifier(logger)
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	p := pipeline.New(repo, local, notifier, logger).
		WithMetrics(pipelineMetrics).
		WithMaxAttempts(cfg.InsertMaxAttempts).
		WithBaseDelay(cfg.InsertBaseDelay).
		WithCooldown(cfg.SubmitCooldown).
		WithQueueCap(cfg.OfflineQueueCap).
		WithPromoCode(cfg.PromoCode)

	// Drain leads queued while the store was unreachable.
	go p.ReplayOffline(ctx)

	var notifyService *notify.Service
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		notifyService = notify.NewService(sender, cfg.NewLeadNotifyEmail, logger)
	}

	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       handlers.NewLeadsHandler(p, notifyService, logger),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(notifier, local, logger),
		HealthHandler:      handlers.NewHealthHandler(repo, p),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.HTTPRateLimitPerSecond,
		RateLimitBurst:     cfg.HTTPRateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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
