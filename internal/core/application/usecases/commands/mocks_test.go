package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*driver.Driver)
	return d, args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*driver.Driver)
	return d, args.Error(1)
}

func (m *MockDriverRepository) Claim(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*restaurant.Restaurant)
	return r, args.Error(1)
}

// MockUoW implements every unit of work view used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository {
	args := m.Called()
	return args.Get(0).(ports.RestaurantRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockRestaurantUoWFactory struct{ mock.Mock }

func (m *MockRestaurantUoWFactory) Create() commands.RestaurantUoW {
	args := m.Called()
	return args.Get(0).(commands.RestaurantUoW)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.Location, error) {
	args := m.Called(ctx, address)
	loc, _ := args.Get(0).(kernel.Location)
	return loc, args.Error(1)
}

type MockDriverIndex struct{ mock.Mock }

func (m *MockDriverIndex) Nearby(ctx context.Context, center kernel.Location, radiusKm float64) ([]driver.Position, error) {
	args := m.Called(ctx, center, radiusKm)
	positions, _ := args.Get(0).([]driver.Position)
	return positions, args.Error(1)
}

type MockDriverAssigner struct{ mock.Mock }

func (m *MockDriverAssigner) Handle(
	ctx context.Context,
	cmd commands.AssignDriverToDeliveryCommand,
) (commands.AssignmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignmentResult), args.Error(1)
}

type MockAssignDeliveryHandler struct{ mock.Mock }

func (m *MockAssignDeliveryHandler) Handle(
	ctx context.Context,
	cmd commands.AssignDeliveryCommand,
) (commands.AssignmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignmentResult), args.Error(1)
}

type MockQuoteDeliveryFeeHandler struct{ mock.Mock }

func (m *MockQuoteDeliveryFeeHandler) Handle(ctx context.Context, cmd commands.QuoteDeliveryFeeCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// repos bundles a unit of work with its repositories. Rollback is always
// allowed because every handler defers it.
type repos struct {
	uow         *MockUoW
	factory     *MockUoWFactory
	orders      *MockOrderRepository
	drivers     *MockDriverRepository
	deliveries  *MockDeliveryRepository
	restaurants *MockRestaurantRepository
}

func newRepos() repos {
	r := repos{
		uow:         new(MockUoW),
		factory:     new(MockUoWFactory),
		orders:      new(MockOrderRepository),
		drivers:     new(MockDriverRepository),
		deliveries:  new(MockDeliveryRepository),
		restaurants: new(MockRestaurantRepository),
	}
	r.factory.On("Create").Return(r.uow).Maybe()
	r.uow.On("Begin", mock.Anything).Return(nil).Maybe()
	r.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	r.uow.On("OrderRepository").Return(r.orders).Maybe()
	r.uow.On("DriverRepository").Return(r.drivers).Maybe()
	r.uow.On("DeliveryRepository").Return(r.deliveries).Maybe()
	r.uow.On("RestaurantRepository").Return(r.restaurants).Maybe()
	return r
}

func (r repos) assertExpectations(t mock.TestingT) {
	r.orders.AssertExpectations(t)
	r.drivers.AssertExpectations(t)
	r.deliveries.AssertExpectations(t)
	r.restaurants.AssertExpectations(t)
	r.uow.AssertExpectations(t)
}
