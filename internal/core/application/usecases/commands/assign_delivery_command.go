package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand runs the full assignment for an order: geocode the
// restaurant and shipping addresses, then assign a driver.
type AssignDeliveryCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDeliveryCommand(orderID kernel.UUID) (AssignDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignDeliveryCommand{}, err
	}
	return AssignDeliveryCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}
