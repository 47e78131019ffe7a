package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmPerDegreeLat = 111.19492664455873

var pickup = kernel.MustNewLocation(6.9271, 79.8612)

// north returns the point km kilometres due north of base.
func north(base kernel.Location, km float64) kernel.Location {
	return kernel.MustNewLocation(base.Latitude()+km/kmPerDegreeLat, base.Longitude())
}

func candidate(id string, km float64, available bool) driver.Position {
	return driver.Position{
		DriverID:  kernel.MustUUIDFromString(id),
		Location:  north(pickup, km),
		Available: available,
	}
}

func TestDriverLocator_Nearest(t *testing.T) {
	locator, err := services.NewDriverLocator(services.DefaultSearchRadiusKm)
	require.NoError(t, err)

	t.Run("should choose nearest available driver", func(t *testing.T) {
		d1 := candidate("00000000-0000-0000-0000-000000000001", 1.2, true)
		d2 := candidate("00000000-0000-0000-0000-000000000002", 0.8, false)
		d3 := candidate("00000000-0000-0000-0000-000000000003", 3.0, true)

		best, km, err := locator.Nearest(pickup, []driver.Position{d3, d2, d1})

		require.NoError(t, err)
		assert.True(t, best.DriverID.IsEqual(d1.DriverID))
		assert.InDelta(t, 1.2, km, 1e-6)
	})

	t.Run("should break ties by lower id", func(t *testing.T) {
		high := candidate("00000000-0000-0000-0000-0000000000ff", 2, true)
		low := candidate("00000000-0000-0000-0000-00000000000a", 2, true)

		best, _, err := locator.Nearest(pickup, []driver.Position{high, low})
		require.NoError(t, err)
		assert.True(t, best.DriverID.IsEqual(low.DriverID))

		best, _, err = locator.Nearest(pickup, []driver.Position{low, high})
		require.NoError(t, err)
		assert.True(t, best.DriverID.IsEqual(low.DriverID))
	})

	t.Run("should report not found outside radius", func(t *testing.T) {
		far := candidate("00000000-0000-0000-0000-000000000001", 5.01, true)

		_, _, err := locator.Nearest(pickup, []driver.Position{far})

		require.ErrorIs(t, err, services.ErrDriverNotFound)
	})

	t.Run("should include driver exactly on the radius", func(t *testing.T) {
		edge := candidate("00000000-0000-0000-0000-000000000001", 4.999999, true)

		best, _, err := locator.Nearest(pickup, []driver.Position{edge})

		require.NoError(t, err)
		assert.True(t, best.DriverID.IsEqual(edge.DriverID))
	})

	t.Run("should report not found when nobody is available", func(t *testing.T) {
		_, _, err := locator.Nearest(pickup, []driver.Position{
			candidate("00000000-0000-0000-0000-000000000001", 0.1, false),
		})
		require.ErrorIs(t, err, services.ErrDriverNotFound)

		_, _, err = locator.Nearest(pickup, nil)
		require.ErrorIs(t, err, services.ErrDriverNotFound)
	})

	t.Run("should skip excluded drivers", func(t *testing.T) {
		d1 := candidate("00000000-0000-0000-0000-000000000001", 1, true)
		d2 := candidate("00000000-0000-0000-0000-000000000002", 2, true)

		best, _, err := locator.Nearest(pickup, []driver.Position{d1, d2}, d1.DriverID)

		require.NoError(t, err)
		assert.True(t, best.DriverID.IsEqual(d2.DriverID))
	})

	t.Run("should fail for unconstructed pickup", func(t *testing.T) {
		_, _, err := locator.Nearest(kernel.Location{}, nil)

		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestNewDriverLocator(t *testing.T) {
	_, err := services.NewDriverLocator(-1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDeliveryQuoter_Quote(t *testing.T) {
	eta, err := services.NewTravelTimeEstimator(services.DefaultAverageSpeedKmh)
	require.NoError(t, err)
	quoter := services.NewDeliveryQuoter(services.DefaultFeePolicy(), eta)

	q, err := quoter.Quote(pickup, north(pickup, 2.3))

	require.NoError(t, err)
	assert.InDelta(t, 2.3, q.DistanceKm, 1e-6)
	assert.Equal(t, "530", q.Fee.String())
	assert.Equal(t, "6m0s", q.EstimatedTime.String())
}
