package restaurant_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestaurant(t *testing.T) {
	addr, err := kernel.NewAddress("45 Duplication Road", "Colombo", "", "", "Sri Lanka")
	require.NoError(t, err)

	r, err := restaurant.NewRestaurant(kernel.NewUUID(), " Hoppers ", addr)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, "Hoppers", r.Name())
	assert.Equal(t, "45 Duplication Road, Colombo, Sri Lanka", r.Address().Text())

	_, err = restaurant.NewRestaurant(kernel.NewUUID(), "", kernel.Address{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, kernel.ErrAddressIsNotConstructed)
}
