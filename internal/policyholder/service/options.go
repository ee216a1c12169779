package service

import (
	"log/slog"

	holdermetrics "policyhub/internal/policyholder/metrics"
	"policyhub/pkg/platform/tracer"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger          *slog.Logger
	metrics         *holdermetrics.Metrics
	tracer          tracer.Tracer
	tx              StoreTx
	defaultCurrency string
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *holdermetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

// WithTx sets the transactional boundary. Without it the service serializes
// commands behind an in-process lock, which only suits the in-memory store.
func WithTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

// WithDefaultCurrency sets the currency applied to policy amounts submitted without one.
func WithDefaultCurrency(currency string) Option {
	return func(c *serviceConfig) {
		c.defaultCurrency = currency
	}
}
