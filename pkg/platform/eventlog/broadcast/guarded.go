package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"policyhub/pkg/platform/circuit"
	"policyhub/pkg/platform/eventlog"
	eventmetrics "policyhub/pkg/platform/eventlog/metrics"
	"policyhub/pkg/platform/eventlog/publisher"
)

// ErrCircuitOpen is returned for broadcasts skipped while the downstream is tripped.
var ErrCircuitOpen = errors.New("broadcaster circuit open")

// Guarded stops calling a failing broadcaster until its breaker admits a trial call,
// so an unreachable broker costs one delivery timeout per cooldown rather than
// one per event.
type Guarded struct {
	next    publisher.Broadcaster
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *eventmetrics.Metrics
	now     func() time.Time
}

type GuardOption func(*Guarded)

func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guarded) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithGuardMetrics(m *eventmetrics.Metrics) GuardOption {
	return func(g *Guarded) {
		g.metrics = m
	}
}

// WithGuardClock replaces time.Now, for tests.
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *Guarded) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGuarded(next publisher.Broadcaster, breaker *circuit.Breaker, opts ...GuardOption) *Guarded {
	g := &Guarded{
		next:    next,
		breaker: breaker,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics != nil {
		g.metrics.CircuitOpen.WithLabelValues(breaker.Name()).Set(0)
	}
	return g
}

func (g *Guarded) Broadcast(ctx context.Context, event eventlog.Event) error {
	name := g.breaker.Name()
	if !g.breaker.Allow(g.now()) {
		if g.metrics != nil {
			g.metrics.BroadcastsSkipped.WithLabelValues(name).Inc()
		}
		return ErrCircuitOpen
	}

	err := g.next.Broadcast(ctx, event)
	if err != nil {
		if change := g.breaker.RecordFailure(g.now()); change.Opened {
			g.logger.WarnContext(ctx, "broadcaster circuit opened", "broadcaster", name, "error", err)
			g.setOpen(name, 1)
		}
		return err
	}
	if change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "broadcaster circuit closed", "broadcaster", name)
		g.setOpen(name, 0)
	}
	return nil
}

func (g *Guarded) setOpen(name string, v float64) {
	if g.metrics != nil {
		g.metrics.CircuitOpen.WithLabelValues(name).Set(v)
	}
}
