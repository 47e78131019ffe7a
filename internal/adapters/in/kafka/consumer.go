package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

func NewConsumerGroup(brokers []string, groupID, clientID string) (sarama.ConsumerGroup, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Version = sarama.V2_6_0_0

	return sarama.NewConsumerGroup(brokers, groupID, config)
}

// Consumer runs a consumer group until its context ends.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
	logger  *slog.Logger
}

func NewConsumer(
	group sarama.ConsumerGroup,
	topics []string,
	handler sarama.ConsumerGroupHandler,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		group:   group,
		topics:  topics,
		handler: handler,
		logger:  logger.With("component", "KafkaConsumer"),
	}
}

// Run joins the group and re-joins after every rebalance or failed session.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.group.Consume(ctx, c.topics, c.handler)
		switch {
		case ctx.Err() != nil:
			c.logger.Info("kafka consumer stopped")
			return nil
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return nil
		case err != nil:
			c.logger.Error("consumer session failed", "topics", c.topics, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}
