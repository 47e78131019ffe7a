package commands_test

import (
	"log/slog"
	"math"
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.DiscardHandler)

func shippingAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("12 Galle Rd", "Colombo", "Western", "00300", "LK")
	require.NoError(t, err)
	return addr
}

func newRestaurant(t *testing.T) *restaurant.Restaurant {
	t.Helper()
	addr, err := kernel.NewAddress("5 Flower Rd", "Colombo", "", "", "LK")
	require.NoError(t, err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Curry Leaf", addr)
	require.NoError(t, err)
	return r
}

// newOrderIn walks a fresh order to status along the normal path and drops the
// events raised on the way.
func newOrderIn(t *testing.T, restaurantID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, kernel.NewUUID(), shippingAddress(t), decimal.NewFromInt(2500))
	require.NoError(t, err)

	var path []order.Status
	switch status { //nolint:exhaustive // tests only need these
	case order.Pending:
	case order.Cancelled:
		path = []order.Status{order.Cancelled}
	default:
		path = []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery, order.Delivered}
	}
	for _, next := range path {
		require.NoError(t, o.ChangeStatus(next))
		if next == status {
			break
		}
	}
	require.Equal(t, status, o.Status())
	o.ClearDomainEvents()
	return o
}

func newDriverAt(t *testing.T, lat, lng float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "driver", kernel.MustNewLocation(lat, lng))
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

// eastOf returns the point km kilometres east of origin along the equator.
func eastOf(km float64) kernel.Location {
	return kernel.MustNewLocation(0, km/kernel.EarthRadiusKm*180/math.Pi)
}

func newQuoter(t *testing.T) services.DeliveryQuoter {
	t.Helper()
	eta, err := services.NewTravelTimeEstimator(services.DefaultAverageSpeedKmh)
	require.NoError(t, err)
	return services.NewDeliveryQuoter(services.DefaultFeePolicy(), eta)
}

func newLocator(t *testing.T) services.DriverLocator {
	t.Helper()
	locator, err := services.NewDriverLocator(services.DefaultSearchRadiusKm)
	require.NoError(t, err)
	return locator
}
