package postgres_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// UnitOfWorkIntegrationTestSuite exercises transactions and post-commit event
// publishing against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	publisher *MockEventPublisher
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg

	suite.Require().NoError(postgres_adapter.Migrate(pg.DB))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("orders", "drivers", "deliveries", "restaurants"))

	suite.publisher = new(MockEventPublisher)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(
		suite.pg.DB, suite.publisher, slog.New(slog.DiscardHandler),
	)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIndependentUnits() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.DriverRepository())
	suite.NotNil(uow1.DeliveryRepository())
	suite.NotNil(uow1.RestaurantRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishesEventsOfWrittenAggregates() {
	ctx := context.Background()
	d := suite.newDriver()

	var published []string
	suite.publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for _, e := range args.Get(1).([]ddd.DomainEvent) {
				published = append(published, e.EventName())
			}
		}).
		Return(nil).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal([]string{driver.RegisteredEventName}, published)
	suite.Empty(d.DomainEvents())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishFailureKeepsCommit() {
	ctx := context.Background()
	d := suite.newDriver()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(errs.ErrValueIsInvalid).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	_, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWritesAndEvents() {
	ctx := context.Background()
	d := suite.newDriver()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAssignmentWorkflow_CommitsAllAggregatesTogether() {
	ctx := context.Background()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	r := suite.newRestaurant()
	d := suite.newDriver()
	o := suite.newOrder(r.ID())
	setup := suite.factory.Create()
	suite.Require().NoError(setup.Begin(ctx))
	suite.Require().NoError(setup.RestaurantRepository().Add(ctx, r))
	suite.Require().NoError(setup.DriverRepository().Add(ctx, d))
	suite.Require().NoError(setup.OrderRepository().Add(ctx, o))
	suite.Require().NoError(setup.Commit(ctx))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	for _, next := range []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery} {
		suite.Require().NoError(locked.ChangeStatus(next))
	}
	claimed, err := uow.DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(claimed.AcceptOrder(o.ID()))
	suite.Require().NoError(uow.DriverRepository().Claim(ctx, claimed))
	dl, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), d.ID(), delivery.Route{
		Pickup:        kernel.MustNewLocation(6.9147, 79.8523),
		Dropoff:       kernel.MustNewLocation(6.8935, 79.8553),
		DistanceKm:    2.3,
		EstimatedTime: 6 * time.Minute,
	}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, dl))
	suite.Require().NoError(locked.AssignDriver(d.ID(), dl.ID()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, locked))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	gotOrder, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.AssignmentAssigned, gotOrder.Assignment())
	gotDriver, err := reader.DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(gotDriver.IsAvailable())
	gotDelivery, err := reader.DeliveryRepository().GetActiveByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(dl.ID().IsEqual(gotDelivery.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAssignmentWorkflow_FailedStepLeavesNothingBehind() {
	ctx := context.Background()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	d := suite.newDriver()
	setup := suite.factory.Create()
	suite.Require().NoError(setup.Begin(ctx))
	suite.Require().NoError(setup.DriverRepository().Add(ctx, d))
	suite.Require().NoError(setup.Commit(ctx))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	claimed, err := uow.DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(claimed.AcceptOrder(kernel.NewUUID()))
	suite.Require().NoError(uow.DriverRepository().Claim(ctx, claimed))
	err = uow.OrderRepository().Update(ctx, suite.newOrder(kernel.NewUUID()))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Require().NoError(uow.Rollback(ctx))

	got, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.True(got.IsAvailable())
	suite.Empty(got.ActiveOrders())
}

func (suite *UnitOfWorkIntegrationTestSuite) newDriver() *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), "Nimal", kernel.MustNewLocation(6.9271, 79.8612))
	suite.Require().NoError(err)
	return d
}

func (suite *UnitOfWorkIntegrationTestSuite) newRestaurant() *restaurant.Restaurant {
	addr, err := kernel.NewAddress("5 Flower Rd", "Colombo", "", "", "LK")
	suite.Require().NoError(err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Curry Leaf", addr)
	suite.Require().NoError(err)
	return r
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(restaurantID kernel.UUID) *order.Order {
	addr, err := kernel.NewAddress("12 Galle Rd", "Colombo", "Western", "00300", "LK")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, kernel.NewUUID(), addr, decimal.RequireFromString("2450.00"))
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
