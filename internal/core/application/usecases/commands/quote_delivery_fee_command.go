package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrQuoteDeliveryFeeCommandIsNotConstructed = errors.New(
	"QuoteDeliveryFeeCommand must be created via NewQuoteDeliveryFeeCommand constructor",
)

// QuoteDeliveryFeeCommand finalizes the delivery fee of a confirmed order ahead of dispatch.
type QuoteDeliveryFeeCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewQuoteDeliveryFeeCommand(orderID kernel.UUID) (QuoteDeliveryFeeCommand, error) {
	if err := orderID.Validate(); err != nil {
		return QuoteDeliveryFeeCommand{}, err
	}
	return QuoteDeliveryFeeCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c QuoteDeliveryFeeCommand) Validate() error {
	return c.guard.Validate(ErrQuoteDeliveryFeeCommandIsNotConstructed)
}

func (c QuoteDeliveryFeeCommand) OrderID() kernel.UUID {
	return c.orderID
}
