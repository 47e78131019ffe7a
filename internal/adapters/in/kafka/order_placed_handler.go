// Package kafka consumes the checkout service's order feed.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const DefaultOrderPlacedTopic = "orders.placed"

// OrderPlacedMessage is published by checkout once an order is paid.
type OrderPlacedMessage struct {
	OrderID         string          `json:"order_id"`
	RestaurantID    string          `json:"restaurant_id"`
	CustomerID      string          `json:"customer_id"`
	ShippingAddress AddressMessage  `json:"shipping_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

type AddressMessage struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

// OrderPlacedHandler is a sarama.ConsumerGroupHandler. Redelivered orders are
// acknowledged as already processed. Malformed messages are logged and
// skipped. Other failures are retried with backoff; when retries run out the
// session ends without marking the message, so it is consumed again.
type OrderPlacedHandler struct {
	creator OrderCreator
	retry   func() backoff.BackOff
	logger  *slog.Logger
}

func NewOrderPlacedHandler(creator OrderCreator, logger *slog.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		creator: creator,
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			b.MaxElapsedTime = time.Minute
			return b
		},
		logger: logger.With("component", "OrderPlacedConsumer"),
	}
}

// WithRetry replaces the backoff policy used for transient failures.
func (h *OrderPlacedHandler) WithRetry(policy func() backoff.BackOff) *OrderPlacedHandler {
	h.retry = policy
	return h
}

func (h *OrderPlacedHandler) Setup(session sarama.ConsumerGroupSession) error {
	h.logger.Info("consumer group session started", "member", session.MemberID(), "claims", session.Claims())
	return nil
}

func (h *OrderPlacedHandler) Cleanup(session sarama.ConsumerGroupSession) error {
	h.logger.Info("consumer group session ended", "member", session.MemberID())
	return nil
}

func (h *OrderPlacedHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if err := h.HandleMessage(session.Context(), message); err != nil {
				return err
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// HandleMessage returns an error only when the message should be consumed again.
func (h *OrderPlacedHandler) HandleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	log := h.logger.With("topic", message.Topic, "partition", message.Partition, "offset", message.Offset)

	cmd, err := decode(message.Value)
	if err != nil {
		log.WarnContext(ctx, "skipping malformed order", "error", err)
		return nil
	}
	log = log.With("orderID", cmd.OrderID().String())

	operation := func() error {
		err := h.creator.Handle(ctx, cmd)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.WarnContext(ctx, "creating order failed, retrying", "wait", wait, "error", err)
	}

	err = backoff.RetryNotify(operation, backoff.WithContext(h.retry(), ctx), notify)
	switch {
	case err == nil:
		log.InfoContext(ctx, "order created")
		return nil
	case errors.Is(err, commands.ErrOrderAlreadyExists):
		log.InfoContext(ctx, "order already created")
		return nil
	case isPermanent(err):
		log.ErrorContext(ctx, "rejected order", "error", err)
		return nil
	default:
		log.ErrorContext(ctx, "giving up on order for this session", "error", err)
		return fmt.Errorf("create order %s: %w", cmd.OrderID(), err)
	}
}

func decode(value []byte) (commands.CreateOrderCommand, error) {
	var msg OrderPlacedMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	orderID, orderErr := kernel.UUIDFromString(msg.OrderID)
	restaurantID, restaurantErr := kernel.UUIDFromString(msg.RestaurantID)
	customerID, customerErr := kernel.UUIDFromString(msg.CustomerID)
	address, addressErr := kernel.NewAddress(
		msg.ShippingAddress.Street,
		msg.ShippingAddress.City,
		msg.ShippingAddress.State,
		msg.ShippingAddress.ZipCode,
		msg.ShippingAddress.Country,
	)
	if err := errors.Join(orderErr, restaurantErr, customerErr, addressErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}
	return commands.NewCreateOrderCommand(orderID, restaurantID, customerID, address, msg.TotalAmount)
}

func isPermanent(err error) bool {
	return errors.Is(err, commands.ErrOrderAlreadyExists) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
