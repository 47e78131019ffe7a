package driver_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colombo = kernel.MustNewLocation(6.9271, 79.8612)

func newTestDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Nimal Perera", colombo)
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestNewDriver(t *testing.T) {
	t.Run("should register available driver", func(t *testing.T) {
		id := kernel.NewUUID()

		d, err := driver.NewDriver(id, "  Nimal  ", colombo)

		require.NoError(t, err)
		assert.Equal(t, "Nimal", d.Name())
		assert.True(t, d.IsAvailable())
		assert.Empty(t, d.ActiveOrders())
		events := d.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, driver.RegisteredEventName, events[0].EventName())
		assert.True(t, events[0].(driver.StateChangedEvent).Position.DriverID.IsEqual(id))
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.UUID{}, " ", kernel.Location{})

		require.Error(t, err)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestDriver_AcceptOrder(t *testing.T) {
	t.Run("should take order and become unavailable", func(t *testing.T) {
		d := newTestDriver(t)
		orderID := kernel.NewUUID()

		require.NoError(t, d.AcceptOrder(orderID))

		assert.False(t, d.IsAvailable())
		assert.Equal(t, []kernel.UUID{orderID}, d.ActiveOrders())
		require.Len(t, d.DomainEvents(), 1)
		assert.Equal(t, driver.AvailabilityChangedEventName, d.DomainEvents()[0].EventName())
	})

	t.Run("should refuse a second order while busy", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.AcceptOrder(kernel.NewUUID()))

		require.ErrorIs(t, d.AcceptOrder(kernel.NewUUID()), driver.ErrDriverUnavailable)
		assert.Len(t, d.ActiveOrders(), 1)
	})
}

func TestDriver_SetAvailability(t *testing.T) {
	t.Run("cannot go available with active orders", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.AcceptOrder(kernel.NewUUID()))

		require.ErrorIs(t, d.SetAvailability(true), driver.ErrDriverHasActiveOrders)
		assert.False(t, d.IsAvailable())
	})

	t.Run("toggles and raises event only on change", func(t *testing.T) {
		d := newTestDriver(t)

		require.NoError(t, d.SetAvailability(true))
		assert.Empty(t, d.DomainEvents())

		require.NoError(t, d.SetAvailability(false))
		assert.False(t, d.IsAvailable())
		assert.Len(t, d.DomainEvents(), 1)
	})
}

func TestDriver_CompleteOrder(t *testing.T) {
	d := newTestDriver(t)
	orderID := kernel.NewUUID()
	require.NoError(t, d.AcceptOrder(orderID))

	require.ErrorIs(t, d.CompleteOrder(kernel.NewUUID()), driver.ErrOrderIsNotActive)
	require.NoError(t, d.CompleteOrder(orderID))

	assert.True(t, d.IsAvailable())
	assert.Empty(t, d.ActiveOrders())
}

func TestDriver_MoveTo(t *testing.T) {
	d := newTestDriver(t)
	kandy := kernel.MustNewLocation(7.2906, 80.6337)

	require.NoError(t, d.MoveTo(kandy))

	assert.Equal(t, kandy, d.Location())
	events := d.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, driver.LocationChangedEventName, events[0].EventName())
	assert.Equal(t, kandy, events[0].(driver.StateChangedEvent).Position.Location)

	require.ErrorIs(t, d.MoveTo(kernel.Location{}), kernel.ErrLocationIsNotConstructed)
	assert.Equal(t, kandy, d.Location())
}

func TestDriver_EventsCarryStoredVersion(t *testing.T) {
	registered, err := driver.NewDriver(kernel.NewUUID(), "Kamal", colombo)
	require.NoError(t, err)
	assert.Equal(t, 0, registered.DomainEvents()[0].(driver.StateChangedEvent).Position.Version)

	d, err := driver.RestoreDriver(kernel.NewUUID(), "Kamal", colombo, true, nil, 4)
	require.NoError(t, err)
	require.NoError(t, d.MoveTo(kernel.MustNewLocation(7.2906, 80.6337)))

	assert.Equal(t, 4, d.Position().Version)
	assert.Equal(t, 5, d.DomainEvents()[0].(driver.StateChangedEvent).Position.Version)
}

func TestRestoreDriver(t *testing.T) {
	t.Run("restores busy driver", func(t *testing.T) {
		orders := []kernel.UUID{kernel.NewUUID()}

		d, err := driver.RestoreDriver(kernel.NewUUID(), "Kamal", colombo, false, orders, 7)

		require.NoError(t, err)
		assert.Equal(t, 7, d.Version())
		assert.Equal(t, orders, d.ActiveOrders())
		assert.Empty(t, d.DomainEvents())
	})

	t.Run("rejects available driver with orders", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Kamal", colombo, true, []kernel.UUID{kernel.NewUUID()}, 1)

		require.ErrorIs(t, err, driver.ErrDriverHasActiveOrders)
	})
}
