// Package ports declares the contracts the application layer needs from
// infrastructure: repositories, the unit of work, the geocoder and the driver
// spatial index.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

type OrderRepository interface {
	Add(ctx context.Context, aggregate *order.Order) error
	Update(ctx context.Context, aggregate *order.Order) error
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order and locks it until the surrounding transaction
	// ends. Concurrent assignment attempts for one order are serialized on this lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
