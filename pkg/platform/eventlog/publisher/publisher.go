// Package publisher appends domain events to the event log and then hands them
// to a broadcaster for downstream consumers.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/eventlog/metrics"
)

// Broadcaster delivers a persisted event to interested parties.
type Broadcaster interface {
	Broadcast(ctx context.Context, event eventlog.Event) error
}

// BroadcasterFunc adapts a function to Broadcaster.
type BroadcasterFunc func(ctx context.Context, event eventlog.Event) error

func (f BroadcasterFunc) Broadcast(ctx context.Context, event eventlog.Event) error {
	return f(ctx, event)
}

// Publisher persists then broadcasts. Persistence errors are returned and stop
// the broadcast; broadcast errors are logged and counted but never returned,
// since the event is already durable.
type Publisher struct {
	store       eventlog.Store
	broadcaster Broadcaster
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithBroadcaster sets the downstream broadcaster. Without one events are only persisted.
func WithBroadcaster(b Broadcaster) Option {
	return func(p *Publisher) {
		p.broadcaster = b
	}
}

// WithLogger sets the logger used for broadcast failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(store eventlog.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Publish appends one event and broadcasts it.
func (p *Publisher) Publish(ctx context.Context, event eventlog.Event) error {
	return p.PublishAll(ctx, []eventlog.Event{event})
}

// PublishAll records the batch and then broadcasts it. A nil or empty batch
// is a no-op.
func (p *Publisher) PublishAll(ctx context.Context, events []eventlog.Event) error {
	if err := p.Record(ctx, events); err != nil {
		return err
	}
	p.Broadcast(ctx, events)
	return nil
}

// Record appends the batch atomically without broadcasting it. When ctx
// carries a transaction the store joins it, so the events commit or roll back
// with the aggregate they describe.
func (p *Publisher) Record(ctx context.Context, events []eventlog.Event) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	err := p.store.SaveAll(ctx, events)
	if p.metrics != nil {
		p.metrics.PersistDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.PersistFailures.Inc()
		}
		return err
	}
	if p.metrics != nil {
		for _, e := range events {
			p.metrics.EventsPersisted.WithLabelValues(e.Metadata().EventType).Inc()
		}
	}
	return nil
}

// Broadcast hands already recorded events to the broadcaster in the order
// given. Failures are logged and counted, never returned.
func (p *Publisher) Broadcast(ctx context.Context, events []eventlog.Event) {
	if p.broadcaster == nil {
		return
	}
	for _, e := range events {
		p.broadcast(ctx, e)
	}
}
func (p *Publisher) broadcast(ctx context.Context, event eventlog.Event) {
	meta := event.Metadata()
	if err := p.broadcaster.Broadcast(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.BroadcastFailures.WithLabelValues(meta.EventType).Inc()
		}
		p.logger.WarnContext(ctx, "failed to broadcast domain event",
			"error", err,
			"event_id", meta.EventID.String(),
			"event_type", meta.EventType,
			"aggregate_id", meta.AggregateID,
		)
		return
	}
	if p.metrics != nil {
		p.metrics.EventsBroadcast.WithLabelValues(meta.EventType).Inc()
	}
}
