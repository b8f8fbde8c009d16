package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"warden/internal/domain"
	"warden/internal/events/metrics"
)

// DefaultTopic is the decision event topic.
const DefaultTopic = "warden.decisions"

const closeFlushTimeout = 5 * time.Second

// Kafka publishes decision events to a Kafka-compatible broker. The
// publisher owns its client; Close flushes and releases it. Events are
// keyed by environment id so consumers see per-environment ordering.
type Kafka struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// KafkaOption configures a Kafka publisher.
type KafkaOption func(*Kafka)

// WithTopic overrides the default topic.
func WithTopic(topic string) KafkaOption {
	return func(k *Kafka) {
		if topic != "" {
			k.topic = topic
		}
	}
}

// WithMetrics attaches event metrics.
func WithMetrics(m *metrics.Metrics) KafkaOption {
	return func(k *Kafka) { k.metrics = m }
}

// NewKafka connects a publisher to the given brokers.
func NewKafka(brokers []string, logger *slog.Logger, opts ...KafkaOption) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID("warden"),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	k := &Kafka{
		client: client,
		topic:  DefaultTopic,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k, nil
}

// EnsureTopic creates the decision topic if it does not exist yet.
func (k *Kafka) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	admin := kadm.NewClient(k.client)
	responses, err := admin.CreateTopics(ctx, partitions, replication, nil, k.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", k.topic, err)
	}
	for _, response := range responses {
		if response.Err != nil && !errors.Is(response.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", k.topic, response.Err)
		}
	}
	return nil
}

// Publish produces one decision event asynchronously. Failures are
// logged and counted only.
func (k *Kafka) Publish(ctx context.Context, decision domain.AccessDecision) {
	payload, err := json.Marshal(newDecisionEvent(decision))
	if err != nil {
		k.metrics.RecordPublish("failed")
		k.logger.ErrorContext(ctx, "decision event marshal failed",
			"decision_id", decision.ID,
			"error", err,
		)
		return
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(decision.EnvironmentID.String()),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.metrics.RecordPublish("failed")
			k.logger.Error("decision event publish failed",
				"decision_id", decision.ID,
				"topic", k.topic,
				"error", err,
			)
			return
		}
		k.metrics.RecordPublish("published")
	})
}

// Close flushes in-flight events and releases the client.
func (k *Kafka) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
	defer cancel()
	if err := k.client.Flush(ctx); err != nil {
		k.logger.Error("decision event flush failed", "error", err)
	}
	k.client.Close()
}
