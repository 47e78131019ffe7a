package driver

import "dispatch/internal/core/domain/model/kernel"

// Position is the read-only view of a driver used by spatial indexes and the locator.
// Version is the stored driver version the position belongs to; indexes use it
// to discard positions older than the one they hold.
type Position struct {
	DriverID  kernel.UUID
	Location  kernel.Location
	Available bool
	Version   int
}
