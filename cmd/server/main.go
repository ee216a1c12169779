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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"policyhub/internal/platform/config"
	"policyhub/internal/platform/health"
	"policyhub/internal/platform/logger"
	"policyhub/internal/policyholder/handler"
	holdermetrics "policyhub/internal/policyholder/metrics"
	"policyhub/internal/policyholder/service"
	eventmetrics "policyhub/pkg/platform/eventlog/metrics"
	"policyhub/pkg/platform/eventlog/publisher"
	"policyhub/pkg/platform/middleware/request"
	"policyhub/pkg/platform/tracer"
)

const (
	serviceName     = "policyhub"
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "policyhub: %v\n", err)
		os.Exit(1)
	}
}

// run wires dependencies, serves HTTP and blocks until SIGINT/SIGTERM.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tr, shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	em := eventmetrics.New(registry)
	b, err := openBackends(ctx, cfg, log, registry, em)
	if err != nil {
		return errors.Join(err, shutdownTracing(context.Background()))
	}
	defer b.close(log)

	pub := publisher.New(b.events,
		publisher.WithBroadcaster(b.broadcaster),
		publisher.WithLogger(log),
		publisher.WithMetrics(em),
	)
	svc := service.New(b.holders, b.ids, pub, b.events,
		service.WithLogger(log),
		service.WithMetrics(holdermetrics.New(registry)),
		service.WithTracer(tr),
		service.WithTx(b.tx),
		service.WithDefaultCurrency(cfg.DefaultCurrency),
	)

	checks := health.New(healthTimeout)
	for name, check := range b.checks {
		checks.RegisterCheck(name, check)
	}

	router := chi.NewRouter()
	router.Use(request.Recovery(log))
	router.Use(request.RequestID)
	router.Use(request.RequestTimeIn(loc))
	router.Use(request.Logger(log))
	router.Use(request.Latency(request.NewMetrics(registry)))
	router.Use(request.BodyLimit(maxBodyBytes))
	checks.Register(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	router.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		handler.New(svc, log).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.HTTPAddr, "backend", b.name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if b.redis != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					b.redis.RecordPoolStats()
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return drain(shutdownCtx, srv, shutdownTracing)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// drain stops the server and then flushes buffered spans. The flush runs even
// when the server does not stop cleanly.
func drain(ctx context.Context, srv shutdowner, flushTraces func(context.Context) error) error {
	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("graceful shutdown: %w", err))
	}
	if err := flushTraces(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}
	return errors.Join(errs...)
}

func setupTracing(ctx context.Context, cfg *config.Config) (tracer.Tracer, func(context.Context) error, error) {
	if !cfg.TracingEnabled {
		return tracer.NewNoop(), func(context.Context) error { return nil }, nil
	}
	tp, err := tracer.InstallProvider(ctx, tracer.ProviderConfig{
		ServiceName: serviceName,
		SampleRatio: cfg.TracingSampleRatio,
		Writer:      os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}
	return tracer.NewOTel(tp), tp.Shutdown, nil
}
