package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateRestaurantCommandIsNotConstructed = errors.New(
	"CreateRestaurantCommand must be created via NewCreateRestaurantCommand constructor",
)

type CreateRestaurantCommand struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID
	name         string
	address      kernel.Address

	guard guard.ConstructorGuard
}

func NewCreateRestaurantCommand(
	restaurantID kernel.UUID,
	name string,
	address kernel.Address,
) (CreateRestaurantCommand, error) {
	cmd := CreateRestaurantCommand{
		name:  name,
		guard: guard.NewConstructorGuard(),
	}
	if err := errors.Join(cmd.setRestaurantID(restaurantID), cmd.setAddress(address)); err != nil {
		return CreateRestaurantCommand{}, err
	}
	return cmd, nil
}

func (c CreateRestaurantCommand) Validate() error {
	return c.guard.Validate(ErrCreateRestaurantCommandIsNotConstructed)
}

func (c CreateRestaurantCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateRestaurantCommand) Name() string {
	return c.name
}

func (c CreateRestaurantCommand) Address() kernel.Address {
	return c.address
}

func (c *CreateRestaurantCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateRestaurantCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.address = address
	return nil
}
