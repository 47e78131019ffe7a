package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDriverAvailabilityCommandIsNotConstructed = errors.New(
	"UpdateDriverAvailabilityCommand must be created via NewUpdateDriverAvailabilityCommand constructor",
)

type UpdateDriverAvailabilityCommand struct {
	driverID  kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewUpdateDriverAvailabilityCommand(driverID kernel.UUID, available bool) (UpdateDriverAvailabilityCommand, error) {
	if err := driverID.Validate(); err != nil {
		return UpdateDriverAvailabilityCommand{}, err
	}
	return UpdateDriverAvailabilityCommand{
		driverID:  driverID,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverAvailabilityCommandIsNotConstructed)
}

func (c UpdateDriverAvailabilityCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDriverAvailabilityCommand) Available() bool {
	return c.available
}
