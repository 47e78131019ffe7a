package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignDriverToDeliveryCommandIsNotConstructed = errors.New(
	"AssignDriverToDeliveryCommand must be created via NewAssignDriverToDeliveryCommand constructor",
)

// AssignDriverToDeliveryCommand assigns the nearest available driver to an order
// whose pickup and dropoff coordinates are already known.
type AssignDriverToDeliveryCommand struct {
	orderID kernel.UUID
	pickup  kernel.Location
	dropoff kernel.Location

	guard guard.ConstructorGuard
}

func NewAssignDriverToDeliveryCommand(
	orderID kernel.UUID,
	pickup, dropoff kernel.Location,
) (AssignDriverToDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), pickup.Validate(), dropoff.Validate()); err != nil {
		return AssignDriverToDeliveryCommand{}, err
	}
	return AssignDriverToDeliveryCommand{
		orderID: orderID,
		pickup:  pickup,
		dropoff: dropoff,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverToDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverToDeliveryCommandIsNotConstructed)
}

func (c AssignDriverToDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignDriverToDeliveryCommand) Pickup() kernel.Location {
	return c.pickup
}

func (c AssignDriverToDeliveryCommand) Dropoff() kernel.Location {
	return c.dropoff
}
