package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// maxDriverUpdateAttempts bounds reload-and-retry after optimistic version conflicts.
const maxDriverUpdateAttempts = 3

// updateDriver loads a driver, applies mutate and writes it back in its own
// transaction, retrying when a concurrent writer bumped the version first.
func updateDriver(
	ctx context.Context,
	uowFactory DriverUoWFactory,
	driverID kernel.UUID,
	mutate func(*driver.Driver) error,
) error {
	var err error
	for attempt := 0; attempt < maxDriverUpdateAttempts; attempt++ {
		err = updateDriverOnce(ctx, uowFactory, driverID, mutate)
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
	}
	return err
}

func updateDriverOnce(
	ctx context.Context,
	uowFactory DriverUoWFactory,
	driverID kernel.UUID,
	mutate func(*driver.Driver) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DriverRepository()
	d, err := repo.Get(ctx, driverID)
	if err != nil {
		return err
	}
	if err = mutate(d); err != nil {
		return err
	}
	if err = repo.Update(ctx, d); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
