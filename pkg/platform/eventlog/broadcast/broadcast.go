// Package broadcast provides publisher.Broadcaster implementations: Kafka for
// downstream services, a fan-out for in-process subscribers, and an audit log line.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"policyhub/internal/platform/kafka/producer"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/eventlog/publisher"
)

// Producer is the subset of the Kafka producer the broadcaster needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// envelope is the Kafka record value: the stored record shape, so consumers can
// decode it with the same registry used by the event log.
type envelope struct {
	EventID       string          `json:"event_id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredOn    time.Time       `json:"occurred_on"`
}

// Kafka publishes each event to a single topic keyed by aggregate id, which keeps
// the events of one aggregate ordered within a partition.
type Kafka struct {
	producer Producer
	reg      *eventlog.Registry
	topic    string
}

func NewKafka(p Producer, reg *eventlog.Registry, topic string) *Kafka {
	return &Kafka{producer: p, reg: reg, topic: topic}
}

func (k *Kafka) Broadcast(ctx context.Context, event eventlog.Event) error {
	rec, err := k.reg.Encode(event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope{
		EventID:       rec.EventID.String(),
		AggregateID:   rec.AggregateID,
		AggregateType: rec.AggregateType,
		EventType:     rec.EventType,
		Payload:       rec.Payload,
		OccurredOn:    rec.OccurredOn,
	})
	if err != nil {
		return err
	}
	return k.producer.Produce(ctx, &producer.Message{
		Topic: k.topic,
		Key:   []byte(rec.AggregateID),
		Value: value,
		Headers: map[string]string{
			"event_id":       rec.EventID.String(),
			"event_type":     rec.EventType,
			"aggregate_type": rec.AggregateType,
		},
	})
}

// Fanout delivers to every subscriber in registration order. All subscribers are
// attempted; their errors are joined.
type Fanout struct {
	subscribers []publisher.Broadcaster
}

func NewFanout(subscribers ...publisher.Broadcaster) *Fanout {
	return &Fanout{subscribers: subscribers}
}

func (f *Fanout) Broadcast(ctx context.Context, event eventlog.Event) error {
	var errs []error
	for _, s := range f.subscribers {
		if err := s.Broadcast(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSubscriber writes one structured audit line per event.
type LogSubscriber struct {
	logger *slog.Logger
}

func NewLogSubscriber(logger *slog.Logger) *LogSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSubscriber{logger: logger}
}

func (l *LogSubscriber) Broadcast(ctx context.Context, event eventlog.Event) error {
	meta := event.Metadata()
	l.logger.InfoContext(ctx, meta.EventType,
		"log_type", "audit",
		"event", meta.EventType,
		"event_id", meta.EventID.String(),
		"aggregate_type", meta.AggregateType,
		"aggregate_id", meta.AggregateID,
		"occurred_on", meta.OccurredOn,
	)
	return nil
}
