package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/job-tracker/config"
	"github.com/ErlanBelekov/job-tracker/internal/health"
	"github.com/ErlanBelekov/job-tracker/internal/infrastructure/memory"
	"github.com/ErlanBelekov/job-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/job-tracker/internal/log"
	"github.com/ErlanBelekov/job-tracker/internal/metrics"
	"github.com/ErlanBelekov/job-tracker/internal/repository"
	"github.com/ErlanBelekov/job-tracker/internal/security"
	"github.com/ErlanBelekov/job-tracker/internal/telemetry"
	"github.com/ErlanBelekov/job-tracker/internal/token"
	httptransport "github.com/ErlanBelekov/job-tracker/internal/transport/http"
	"github.com/ErlanBelekov/job-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/job-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/job-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "tracker-api",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	var (
		users        repository.UserRepository
		applications repository.ApplicationRepository
		store        health.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		db := memory.New()
		users, applications, store = db.Users(), db.Applications(), db
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
				stop()
				log.Fatalf("migrate: %v", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			stop()
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		users, applications, store = postgres.NewUserRepository(pool), postgres.NewApplicationRepository(pool), pool
	}

	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Auth
	authUsecase := usecase.NewAuthUsecase(users, security.NewArgon2(), tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Applications
	applicationUsecase := usecase.NewApplicationUsecase(applications)
	applicationHandler := handler.NewApplicationHandler(applicationUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(store, cfg.Storage, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, httptransport.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit: middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.AuthRateLimitRPS,
			Burst:             cfg.AuthRateLimitBurst,
		},
		HSTS: !cfg.IsLocal(),
	}, tokens, authHandler, applicationHandler)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "tracker-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", "error", err)
	}
}
