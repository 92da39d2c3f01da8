package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/api"
	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/middleware"
	"github.com/patrickwarner/partnersdk/internal/observability"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName + "-mock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName+"-mock", cfg.TempoEndpoint, string(cfg.Environment), cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	metricsRegistry := observability.NewPrometheusRegistry(observability.DefaultCollectors())
	srvDeps := api.NewServer(logger, metricsRegistry, cfg)

	r := mux.NewRouter()
	srvDeps.Routes(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Use(middleware.WithTraceLogger(logger))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "partner-mock"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Partner mock service running",
		zap.String("addr", addr),
		zap.String("brand_id", api.DemoBrandID),
		zap.Bool("challenge_first_request", cfg.ChallengeFirstRequest),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
