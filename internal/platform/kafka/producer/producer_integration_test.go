//go:build integration

package producer_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"policyhub/internal/platform/kafka/producer"
	"policyhub/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

// Produce returns only after the broker acknowledged, so the record is
// immediately consumable with its headers intact.
func (s *ProducerIntegrationSuite) TestProduceDeliversRecordWithHeaders() {
	ctx := context.Background()
	topic := "policyholder-events-delivery"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("PH0000000001"),
		Value: []byte(`{"event_type":"PolicyHolderCreated"}`),
		Headers: map[string]string{
			"event_type":     "PolicyHolderCreated",
			"aggregate_type": "PolicyHolder",
		},
	})
	s.Require().NoError(err)

	record := s.kafka.Consume(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "PH0000000001"
	})
	s.Require().NotNil(record)
	headers := make(map[string]string)
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("PolicyHolderCreated", headers["event_type"])
	s.Equal("PolicyHolder", headers["aggregate_type"])
}

// Records sharing a key land on one partition in produce order.
func (s *ProducerIntegrationSuite) TestSameKeyKeepsOrder() {
	ctx := context.Background()
	topic := "policyholder-events-order"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 3))

	const n = 5
	for i := 0; i < n; i++ {
		s.Require().NoError(s.producer.Produce(ctx, &producer.Message{
			Topic: topic,
			Key:   []byte("PH0000000002"),
			Value: []byte(fmt.Sprintf("%d", i)),
		}))
	}

	var got []string
	partitions := map[int32]struct{}{}
	s.kafka.Consume(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		got = append(got, string(r.Value))
		partitions[r.Partition] = struct{}{}
		return len(got) == n
	})
	s.Equal([]string{"0", "1", "2", "3", "4"}, got)
	s.Len(partitions, 1)
}

func (s *ProducerIntegrationSuite) TestHealthyWithRunningBroker() {
	s.True(s.producer.Healthy(context.Background()))
}

func (s *ProducerIntegrationSuite) TestClosedProducerRejects() {
	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(prod.Close())

	err = prod.Produce(context.Background(), &producer.Message{Topic: "closed", Value: []byte("x")})

	s.Error(err)
	s.False(prod.Healthy(context.Background()))
}
