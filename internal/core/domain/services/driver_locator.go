package services

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const DefaultSearchRadiusKm = 5.0

// ErrDriverNotFound means no available driver qualified. It is an expected
// outcome of a search, not a failure of the locator.
var ErrDriverNotFound = errors.New("driver not found")

// DriverLocator picks the driver for a pickup point among candidates supplied by a
// spatial index. Candidates may include drivers outside the radius or unavailable
// ones; the locator applies the exact rules:
//   - only available drivers qualify
//   - the haversine distance to pickup must not exceed RadiusKm
//   - the nearest driver wins, equal distances are broken by the lower driver id
//
// Example:
//
//	locator, _ := services.NewDriverLocator(services.DefaultSearchRadiusKm)
//	best, km, err := locator.Nearest(pickup, candidates)
//	if errors.Is(err, services.ErrDriverNotFound) {
//	    // leave the order pending assignment
//	}
type DriverLocator struct {
	RadiusKm float64
}

func NewDriverLocator(radiusKm float64) (DriverLocator, error) {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return DriverLocator{}, errs.NewValueIsInvalidErrorWithCause("radiusKm",
			fmt.Errorf("%v is not a valid radius", radiusKm))
	}
	return DriverLocator{RadiusKm: radiusKm}, nil
}

// Nearest returns the best candidate and its distance to pickup. Drivers listed in
// exclude are skipped, which lets callers move on after a lost claim.
func (l DriverLocator) Nearest(
	pickup kernel.Location,
	candidates []driver.Position,
	exclude ...kernel.UUID,
) (driver.Position, float64, error) {
	if err := pickup.Validate(); err != nil {
		return driver.Position{}, 0, err
	}

	var (
		best   driver.Position
		bestKm = math.Inf(1)
		found  bool
	)
	for _, c := range candidates {
		if !c.Available || isExcluded(c.DriverID, exclude) {
			continue
		}
		km, err := pickup.Distance(c.Location)
		if err != nil {
			return driver.Position{}, 0, fmt.Errorf("driver %s: %w", c.DriverID, err)
		}
		if km > l.RadiusKm {
			continue
		}
		if km < bestKm || (km == bestKm && c.DriverID.Compare(best.DriverID) < 0) {
			best, bestKm, found = c, km, true
		}
	}

	if !found {
		return driver.Position{}, 0, ErrDriverNotFound
	}
	return best, bestKm, nil
}

func isExcluded(id kernel.UUID, exclude []kernel.UUID) bool {
	for _, e := range exclude {
		if e.IsEqual(id) {
			return true
		}
	}
	return false
}
