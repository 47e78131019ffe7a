package postgres

import (
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/restaurantrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table and index the adapters rely on,
// including the partial unique index that allows one active delivery per order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&restaurantrepo.RestaurantDTO{},
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&deliveryrepo.DeliveryDTO{},
	)
}
