package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewUpdateDriverLocationCommandHandler(uowFactory DriverUoWFactory) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		return d.MoveTo(cmd.Location())
	})
}
