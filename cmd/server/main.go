package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "mintgate/internal/jwt_token"
	"mintgate/internal/mint/handler"
	mintmetrics "mintgate/internal/mint/metrics"
	"mintgate/internal/mint/service"
	"mintgate/internal/platform/config"
	"mintgate/internal/platform/httpserver"
	"mintgate/internal/platform/logger"
	httpmetrics "mintgate/internal/platform/metrics"
	"mintgate/internal/platform/middleware"
	"mintgate/pkg/platform/audit/publisher"
	"mintgate/pkg/platform/middleware/metadata"
	"mintgate/pkg/platform/middleware/request"
	"mintgate/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	initial, err := initialState(cfg.Collection)
	if err != nil {
		return fmt.Errorf("collection bootstrap: %w", err)
	}

	var closers closerStack
	defer closers.closeAll(log)

	auditStore, err := openAuditStore(ctx, cfg, &closers)
	if err != nil {
		return err
	}
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(log),
	)
	closers.push("audit publisher", auditPublisher.Close)

	stateStore, err := openStateStore(ctx, cfg, initial, &closers)
	if err != nil {
		return err
	}

	assets, err := openAssetLedger(ctx, stateStore, log)
	if err != nil {
		return err
	}
	mintService := service.New(stateStore, assets,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(mintmetrics.New(reg)),
	)
	assets.SetGate(mintService)

	limiter, err := openRateLimiter(ctx, cfg, log, &closers)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	requireCaller := middleware.RequireCaller(jwttoken.NewCallerValidator(jwtService), log)

	r := chi.NewRouter()
	r.Use(
		request.RequestID,
		request.Recoverer(log),
		requesttime.Middleware,
		metadata.ProxyHeaders(cfg.TrustProxyHeaders),
		metadata.ClientMetadata,
		request.Logger(log),
		middleware.Instrument(httpmetrics.New(reg)),
	)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Group(func(r chi.Router) {
		r.Use(limiter.PerClientIP("api"))
		handler.New(mintService, assets, requireCaller, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mintgate", "addr", cfg.Addr, "store", cfg.Store, "audit_sink", cfg.Audit.Sink)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
