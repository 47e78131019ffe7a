package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("renders_non_empty_parts", func(t *testing.T) {
		addr, err := kernel.NewAddress(" 12 Galle Road ", "Colombo", "", "00300", "Sri Lanka")

		require.NoError(t, err)
		assert.Equal(t, "12 Galle Road, Colombo, 00300, Sri Lanka", addr.Text())
		assert.Equal(t, "12 Galle Road", addr.Street())
	})

	t.Run("requires_street_and_city", func(t *testing.T) {
		_, err := kernel.NewAddress("  ", "", "WP", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "street")
		assert.Contains(t, err.Error(), "city")
	})

	t.Run("zero_value_is_invalid", func(t *testing.T) {
		var addr kernel.Address

		require.ErrorIs(t, addr.Validate(), kernel.ErrAddressIsNotConstructed)
	})
}
