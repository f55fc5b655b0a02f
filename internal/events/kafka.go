package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agamariel/polofashions/internal/tracing"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// KafkaPublisher публикует события в топик Kafka. Ключ записи - ID заказа,
// поэтому события одного заказа попадают в одну партицию по порядку.
type KafkaPublisher struct {
	client *kgo.Client
	admin  *kadm.Client
	topic  string
	logger *zap.SugaredLogger
}

// NewKafkaPublisher подключается к брокерам и создаёт топик, если его нет.
func NewKafkaPublisher(ctx context.Context, brokers []string, topic string, logger *zap.SugaredLogger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID("polofashions"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := &KafkaPublisher{
		client: client,
		admin:  kadm.NewClient(client),
		topic:  topic,
		logger: logger,
	}

	if err := p.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return p, nil
}

func (p *KafkaPublisher) ensureTopic(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ctx, span := tracing.Start(ctx, tracing.LayerBroker, "EnsureTopic", attribute.String("kafka.topic", p.topic))
	defer span.End()

	topics, err := p.admin.ListTopics(ctx)
	if err != nil {
		return tracing.Fail(span, fmt.Errorf("failed to list topics: %w", err))
	}
	if _, exists := topics[p.topic]; exists {
		return nil
	}

	minISR := "1"
	resp, err := p.admin.CreateTopics(ctx, 1, 1, map[string]*string{"min.insync.replicas": &minISR}, p.topic)
	if err != nil {
		return tracing.Fail(span, fmt.Errorf("failed to create topic %s: %w", p.topic, err))
	}
	for _, r := range resp {
		if r.Err != nil {
			return tracing.Fail(span, fmt.Errorf("failed to create topic %s: %w", r.Topic, r.Err))
		}
	}

	p.logger.Infow("kafka topic created", "topic", p.topic)
	return nil
}

// Publish синхронно отправляет событие.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	ctx, span := tracing.Start(ctx, tracing.LayerBroker, "Publish",
		attribute.String("kafka.topic", p.topic),
		attribute.String("event.type", evt.Type),
		attribute.String("order.id", evt.OrderID.String()),
	)
	defer span.End()

	data, err := json.Marshal(evt)
	if err != nil {
		return tracing.Fail(span, fmt.Errorf("failed to marshal event: %w", err))
	}

	record := &kgo.Record{
		Topic:   p.topic,
		Key:     []byte(evt.OrderID.String()),
		Value:   data,
		Headers: tracing.KafkaHeaders(ctx),
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return tracing.Fail(span, fmt.Errorf("failed to produce event: %w", err))
	}

	return nil
}

// Close закрывает клиент Kafka.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
