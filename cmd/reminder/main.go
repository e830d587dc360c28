package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ErlanBelekov/job-tracker/config"
	"github.com/ErlanBelekov/job-tracker/internal/email"
	"github.com/ErlanBelekov/job-tracker/internal/health"
	"github.com/ErlanBelekov/job-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/job-tracker/internal/log"
	"github.com/ErlanBelekov/job-tracker/internal/metrics"
	"github.com/ErlanBelekov/job-tracker/internal/reminder"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Storage != config.StoragePostgres {
		log.Fatalf("reminder dispatcher requires STORAGE=postgres, got %q", cfg.Storage)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, config.StoragePostgres, logger, prometheus.DefaultRegisterer)

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	dispatcher, err := reminder.NewDispatcher(
		postgres.NewApplicationRepository(pool),
		sender,
		cfg.ReminderCron,
		cfg.ReminderBatchSize,
		logger,
	)
	if err != nil {
		stop()
		log.Fatalf("dispatcher: %v", err)
	}
	go dispatcher.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("reminder dispatcher shut down")
}
