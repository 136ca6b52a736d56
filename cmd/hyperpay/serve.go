package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/hyperpay"
	"github.com/kevin07696/hyperpay-gateway/internal/adapters/postgres"
	webhookHandler "github.com/kevin07696/hyperpay-gateway/internal/handlers/webhook"
	"github.com/kevin07696/hyperpay-gateway/internal/services/events"
	webhookService "github.com/kevin07696/hyperpay-gateway/internal/services/webhook"
	httpmw "github.com/kevin07696/hyperpay-gateway/pkg/middleware"
	"github.com/kevin07696/hyperpay-gateway/pkg/observability"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook receiver with /metrics and /health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *globalOptions) error {
	cfg, logger, gw, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting HyperPay webhook receiver",
		zap.String("version", Version),
		zap.String("environment", gw.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	client := hyperpay.NewClient(gw, nil, logger, hyperpay.WithMetrics(metrics))

	dispatcher := events.NewDispatcher(logger)
	dispatcher.SubscribeAll(events.LogHandler(logger))

	processorOpts := []webhookService.Option{
		webhookService.WithEmitter(dispatcher),
		webhookService.WithMetrics(metrics),
	}

	var db observability.Pinger
	if cfg.Database.URL != "" {
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		if cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Database.MaxConns
		}
		pool, err := postgres.NewPool(ctx, poolCfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		recorder := postgres.NewPaymentRecorder(pool, logger)
		if err := recorder.EnsureSchema(ctx); err != nil {
			return err
		}
		processorOpts = append(processorOpts, webhookService.WithRecorder(recorder))
		db = pool
	} else {
		logger.Warn("No database configured; webhook events will not be persisted")
	}

	processor, err := webhookService.NewProcessor(gw, logger, processorOpts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	var webhook http.Handler = webhookHandler.NewHandler(processor, logger)
	if cfg.Server.WebhookRPS > 0 {
		limiter := httpmw.NewRateLimiter(cfg.Server.WebhookRPS, cfg.Server.WebhookBurst, logger)
		defer limiter.Close()
		webhook = limiter.Middleware(webhook)
	}
	r.Method(http.MethodPost, cfg.Webhook.Path, webhook)
	observability.MountOperational(r, cfg.Server.MetricsPath, reg,
		observability.NewHealthChecker(db, client.CircuitState))

	server := observability.NewServer(cfg.Server.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("webhook_path", cfg.Webhook.Path),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	if err := observability.ShutdownServer(server); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
