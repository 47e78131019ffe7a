package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrAssignmentConflict is returned by Claim when the driver was no longer
// available at write time, typically because a concurrent assignment won.
var ErrAssignmentConflict = errors.New("driver assignment conflict")

type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update writes the driver if its stored version still matches the loaded one,
	// otherwise it fails with errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *driver.Driver) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetForUpdate loads the driver and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// Claim persists a driver that has just accepted an order. The write is
	// conditional on the stored driver still being available; when it is not,
	// nothing is written and ErrAssignmentConflict is returned. Of any number of
	// concurrent claims on one available driver, exactly one succeeds.
	Claim(ctx context.Context, aggregate *driver.Driver) error
}
