package ports

import (
	"context"
)

// UnitOfWorkFactory creates one UnitOfWork per command execution.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories returned by it
// operate inside the transaction opened by Begin. On Commit the domain events
// of every aggregate written through them are published.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DriverRepository() DriverRepository
	DeliveryRepository() DeliveryRepository
	RestaurantRepository() RestaurantRepository
}
