package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

type UpdateDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewUpdateDriverAvailabilityCommandHandler(uowFactory DriverUoWFactory) UpdateDriverAvailabilityCommandHandler {
	return UpdateDriverAvailabilityCommandHandler{uowFactory: uowFactory}
}

// Handle toggles availability. Going available with active orders fails with
// driver.ErrDriverHasActiveOrders.
func (h UpdateDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd UpdateDriverAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		return d.SetAvailability(cmd.Available())
	})
}
