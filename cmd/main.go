package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"costwatch/internal/adapters/config"
	"costwatch/internal/adapters/errors/noop"
	"costwatch/internal/adapters/errors/sentry"
	"costwatch/internal/adapters/postgres"
	"costwatch/internal/adapters/redis"
	"costwatch/internal/adapters/telegram"
	"costwatch/internal/api"
	"costwatch/internal/api/costs"
	"costwatch/internal/api/health"
	"costwatch/internal/metrics"
	pgrepo "costwatch/internal/repository/postgres"
	redisrepo "costwatch/internal/repository/redis"
	"costwatch/internal/services/costreport"
	"costwatch/internal/workers"
	"costwatch/internal/workers/report"
	"costwatch/pkg/errors"
	"costwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Databases
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	if err := postgres.RunMigrations(cfg.Postgres); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories and service
	repo := pgrepo.NewOpportunityRepository(pgClient.DB())
	cache := redisrepo.NewSummaryCache(redisClient, cfg.Analytics.SnapshotTTL)

	service := costreport.New(repo, log,
		costreport.WithSnapshotCache(cache),
		costreport.WithDefaultWindowDays(cfg.Analytics.DefaultWindowDays),
	)

	// Workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(report.NewSnapshotRefresher(
		service, cfg.Workers.SnapshotRefreshInterval, cfg.Workers.SnapshotRefreshEnabled))

	if cfg.Telegram.Enabled() {
		notifier, err := telegram.NewNotifier(cfg.Telegram, log)
		if err != nil {
			log.Fatalf("Failed to init telegram notifier: %v", err)
		}
		scheduler.RegisterWorker(report.NewDailyReport(
			service, notifier, cfg.Workers.DailyReportInterval, cfg.Workers.DailyReportEnabled))
	} else {
		log.Info("Telegram not configured, daily report worker disabled")
	}

	// HTTP API
	costsHandler := costs.New(service, log)
	healthHandler := health.New(log, pgClient.DB(), redisClient.Client(), cfg.App.Name, cfg.App.Version)
	server := api.NewServer(cfg.API, api.ServerConfig{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, costsHandler, healthHandler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info("System initialized successfully")

	waitForShutdown(cancel, cfg, server, scheduler, errorTracker, serverErr, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown blocks until a signal or server failure, then performs
// graceful shutdown of the HTTP server and workers
func waitForShutdown(
	cancel context.CancelFunc,
	cfg *config.Config,
	server *api.Server,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	serverErr <-chan error,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("HTTP server failed: %v", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}

	if err := scheduler.Stop(); err != nil {
		log.Errorf("Worker shutdown failed: %v", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := errorTracker.Flush(flushCtx); err != nil {
		log.Warnf("Error tracker flush failed: %v", err)
	}

	log.Info("Shutdown complete")
}
