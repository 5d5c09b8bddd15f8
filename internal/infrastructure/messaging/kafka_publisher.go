package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sentinelhealth/sentinel/pkg/events"
	"github.com/sentinelhealth/sentinel/pkg/kafka"
)

// KafkaPublisher implements port.EventPublisher on top of pkg/kafka.
// Events are keyed by aggregate ID so one assessment's events stay ordered
// within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to the assessment topic.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...interface{}) error {
	messages := make([]kafka.Message, 0, len(evts))

	for _, evt := range evts {
		domainEvent, ok := evt.(events.DomainEvent)
		if !ok {
			return fmt.Errorf("cannot publish non-domain event %T", evt)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(domainEvent.AggregateID().String()),
			Value: domainEvent.Payload(),
			Headers: map[string]string{
				"event_id":   domainEvent.EventID().String(),
				"event_type": domainEvent.EventType(),
			},
		})

		p.logger.Debug("publishing event",
			slog.String("event_type", domainEvent.EventType()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(domainEvent.Payload())),
		)
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}
