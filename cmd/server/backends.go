package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"policyhub/internal/platform/config"
	"policyhub/internal/platform/database"
	"policyhub/internal/platform/health"
	"policyhub/internal/platform/kafka"
	"policyhub/internal/platform/kafka/producer"
	platformredis "policyhub/internal/platform/redis"
	"policyhub/internal/policyholder/idgen"
	"policyhub/internal/policyholder/models"
	"policyhub/internal/policyholder/service"
	holderstore "policyhub/internal/policyholder/store/policyholder"
	"policyhub/pkg/platform/circuit"
	"policyhub/pkg/platform/eventlog"
	"policyhub/pkg/platform/eventlog/broadcast"
	eventmetrics "policyhub/pkg/platform/eventlog/metrics"
	eventmemory "policyhub/pkg/platform/eventlog/store/memory"
	eventpostgres "policyhub/pkg/platform/eventlog/store/postgres"
	"policyhub/pkg/platform/eventlog/publisher"
)

// backends holds the adapters selected by configuration. Each backing service
// is optional; without it the in-process equivalent is used.
type backends struct {
	name        string
	holders     service.Store
	events      eventlog.Store
	ids         service.IDGenerator
	tx          service.StoreTx
	broadcaster publisher.Broadcaster
	checks      map[string]health.CheckFunc

	pool     *database.Pool
	redis    *platformredis.Client
	producer *producer.Producer
}

func openBackends(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer, em *eventmetrics.Metrics) (*backends, error) {
	b := &backends{checks: map[string]health.CheckFunc{}}
	registry := models.NewEventRegistry()

	pool, err := database.New(ctx, cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	var pgHolders *holderstore.PostgresStore
	if pool != nil {
		pgHolders = holderstore.NewPostgres(pool.DB())
		b.pool = pool
		b.name = "postgres"
		b.holders = pgHolders
		b.events = eventpostgres.New(pool.DB(), registry)
		b.tx = service.NewPostgresTx(pool.DB(), cfg.TxTimeout)
		b.checks["database"] = pool.Health
	} else {
		b.name = "memory"
		b.holders = holderstore.NewInMemory()
		b.events = eventmemory.New(registry)
		b.tx = service.NewInMemoryTx(cfg.TxTimeout)
		log.Warn("DATABASE_URL not set; policy holders and events are kept in memory")
	}

	rc, err := platformredis.New(ctx, cfg.Redis(), reg)
	if err != nil {
		b.close(log)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	b.redis = rc
	var lastHolder, lastPolicy int64
	if pgHolders != nil {
		lastHolder, lastPolicy, err = pgHolders.LastSequences(ctx)
		if err != nil {
			b.close(log)
			return nil, err
		}
	}
	if rc != nil {
		ids := idgen.NewRedis(rc.Client, idgen.DefaultKeyPrefix)
		if err := ids.Resume(ctx, lastHolder, lastPolicy); err != nil {
			b.close(log)
			return nil, err
		}
		b.ids = ids
		b.checks["redis"] = rc.Health
	} else {
		seq := idgen.NewSequence(0)
		if pgHolders != nil {
			seq.Resume(lastHolder, lastPolicy)
			log.Warn("REDIS_URL not set; identifiers come from an in-process counter, run a single instance",
				"last_policy_holder_seq", lastHolder, "last_policy_seq", lastPolicy)
		}
		b.ids = seq
	}

	subscribers := []publisher.Broadcaster{broadcast.NewLogSubscriber(log)}
	if cfg.KafkaBrokers != "" {
		kcfg := kafka.DefaultProducerConfig()
		kcfg.Brokers = cfg.KafkaBrokers
		kcfg.Topic = cfg.KafkaEventsTopic
		kcfg.Acks = cfg.KafkaAcks
		prod, err := producer.New(producer.Config{
			Brokers:         kcfg.Brokers,
			Acks:            kcfg.Acks,
			Retries:         kcfg.Retries,
			DeliveryTimeout: kcfg.DeliveryTimeout,
		}, log)
		if err != nil {
			b.close(log)
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		b.producer = prod
		breaker := circuit.New("kafka",
			circuit.WithFailureThreshold(cfg.KafkaBreakerFailures),
			circuit.WithCooldown(cfg.KafkaBreakerCooldown),
		)
		subscribers = append(subscribers, broadcast.NewGuarded(
			broadcast.NewKafka(prod, registry, kcfg.Topic),
			breaker,
			broadcast.WithGuardLogger(log),
			broadcast.WithGuardMetrics(em),
		))
		b.checks["kafka"] = func(ctx context.Context) error {
			if !prod.Healthy(ctx) {
				return fmt.Errorf("kafka brokers unreachable")
			}
			return nil
		}
	}
	b.broadcaster = broadcast.NewFanout(subscribers...)
	return b, nil
}

// close releases connections in reverse order of opening.
func (b *backends) close(log *slog.Logger) {
	if b.producer != nil {
		if err := b.producer.Close(); err != nil {
			log.Warn("kafka producer close failed", "error", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if err := b.pool.Close(); err != nil {
		log.Warn("database close failed", "error", err)
	}
}
