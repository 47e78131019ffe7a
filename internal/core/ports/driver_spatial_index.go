package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverSpatialIndex answers "which drivers may be near this point". Results are
// a superset: they must include every available driver within radiusKm of center,
// and may include farther or unavailable ones. Exact filtering is the locator's job.
type DriverSpatialIndex interface {
	Nearby(ctx context.Context, center kernel.Location, radiusKm float64) ([]driver.Position, error)
}
