// Package kafka forwards committed domain events to Kafka as integration events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/ddd"

	"github.com/IBM/sarama"
)

// Topics maps each published event to its topic.
type Topics struct {
	OrderStatusChanged string `mapstructure:"order_status_changed"`
	DeliveryAssigned   string `mapstructure:"delivery_assigned"`
	DeliveryCompleted  string `mapstructure:"delivery_completed"`
}

func DefaultTopics() Topics {
	return Topics{
		OrderStatusChanged: order.StatusChangedEventName,
		DeliveryAssigned:   delivery.AssignedEventName,
		DeliveryCompleted:  delivery.CompletedEventName,
	}
}

// NewSyncProducer connects a producer that waits for all in-sync replicas.
func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Version = sarama.V2_6_0_0

	return sarama.NewSyncProducer(brokers, config)
}

// Publisher is a ddd.EventHandler. Messages are keyed by order id so all events
// of one order land on one partition, in order.
type Publisher struct {
	producer sarama.SyncProducer
	topics   Topics
	logger   *slog.Logger
}

func NewPublisher(producer sarama.SyncProducer, topics Topics, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topics:   topics,
		logger:   logger.With("component", "KafkaPublisher"),
	}
}

// EventNames lists the domain events the publisher must be subscribed to.
func (p *Publisher) EventNames() []string {
	return []string{order.StatusChangedEventName, delivery.AssignedEventName, delivery.CompletedEventName}
}

func (p *Publisher) Handle(ctx context.Context, event ddd.DomainEvent) error {
	topic, key, payload, ok := p.encode(event)
	if !ok {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_name"), Value: []byte(event.EventName())},
			{Key: []byte("event_id"), Value: []byte(event.EventID().String())},
		},
		Timestamp: event.OccurredAt(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"topic", topic, "event", event.EventName(), "key", key, "error", err)
		return fmt.Errorf("publish %s: %w", event.EventName(), err)
	}

	p.logger.DebugContext(ctx, "event published",
		"topic", topic, "partition", partition, "offset", offset, "key", key)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

func (p *Publisher) encode(event ddd.DomainEvent) (topic, key string, payload any, ok bool) {
	switch e := event.(type) {
	case order.StatusChangedEvent:
		return p.topics.OrderStatusChanged, e.OrderID.String(), OrderStatusChangedMessage{
			EventID:    e.EventID().String(),
			OrderID:    e.OrderID.String(),
			From:       e.From.String(),
			To:         e.To.String(),
			OccurredAt: e.OccurredAt(),
		}, true
	case delivery.AssignedEvent:
		return p.topics.DeliveryAssigned, e.OrderID.String(), DeliveryAssignedMessage{
			EventID:          e.EventID().String(),
			DeliveryID:       e.DeliveryID.String(),
			OrderID:          e.OrderID.String(),
			DriverID:         e.DriverID.String(),
			Pickup:           Coordinates{Lat: e.Pickup.Latitude(), Lng: e.Pickup.Longitude()},
			Dropoff:          Coordinates{Lat: e.Dropoff.Latitude(), Lng: e.Dropoff.Longitude()},
			DistanceKm:       e.DistanceKm,
			EstimatedMinutes: int(math.Ceil(e.EstimatedTime.Minutes())),
			OccurredAt:       e.OccurredAt(),
		}, true
	case delivery.CompletedEvent:
		return p.topics.DeliveryCompleted, e.OrderID.String(), DeliveryCompletedMessage{
			EventID:    e.EventID().String(),
			DeliveryID: e.DeliveryID.String(),
			OrderID:    e.OrderID.String(),
			DriverID:   e.DriverID.String(),
			OccurredAt: e.OccurredAt(),
		}, true
	default:
		return "", "", nil, false
	}
}

// SplitBrokers parses a comma separated broker list.
func SplitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
