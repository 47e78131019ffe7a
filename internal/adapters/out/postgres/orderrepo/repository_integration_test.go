package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the order repository against a real PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg

	suite.Require().NoError(pg.DB.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("orders"))

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NewOrder_RoundTrips() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()

	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.ID().IsEqual(got.ID()))
	suite.True(o.RestaurantID().IsEqual(got.RestaurantID()))
	suite.True(o.CustomerID().IsEqual(got.CustomerID()))
	suite.Equal(o.ShippingAddress().Text(), got.ShippingAddress().Text())
	suite.True(o.TotalAmount().Equal(got.TotalAmount()))
	suite.Equal(order.Pending, got.Status())
	suite.Equal(order.AssignmentNone, got.Assignment())
	_, hasFee := got.DeliveryFee()
	suite.False(hasFee)
	_, _, hasRoute := got.Route()
	suite.False(hasRoute)
	suite.Nil(got.DriverID())
	suite.Empty(got.DomainEvents())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AssignedOrder_PersistsAssignmentState() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), o).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	pickup := kernel.MustNewLocation(6.9147, 79.8523)
	dropoff := kernel.MustNewLocation(6.8935, 79.8553)
	driverID, deliveryID := kernel.NewUUID(), kernel.NewUUID()
	for _, next := range []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery} {
		suite.Require().NoError(o.ChangeStatus(next))
	}
	_, err := o.FinalizeDeliveryFee(decimal.RequireFromString("530"), order.FeeQuoted)
	suite.Require().NoError(err)
	suite.Require().NoError(o.CacheRoute(pickup, dropoff))
	_, err = o.RecordFailedAssignment("no driver within 5 km", 10)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignDriver(driverID, deliveryID))

	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.OutForDelivery, got.Status())
	suite.Equal(order.AssignmentAssigned, got.Assignment())
	suite.Equal(1, got.AssignmentAttempts())
	fee, ok := got.DeliveryFee()
	suite.Require().True(ok)
	suite.True(decimal.RequireFromString("530").Equal(fee))
	suite.Equal(order.FeeQuoted, got.FeeSource())
	gotPickup, gotDropoff, ok := got.Route()
	suite.Require().True(ok)
	suite.InDelta(pickup.Latitude(), gotPickup.Latitude(), 1e-9)
	suite.InDelta(dropoff.Longitude(), gotDropoff.Longitude(), 1e-9)
	suite.Require().NotNil(got.DriverID())
	suite.True(driverID.IsEqual(*got.DriverID()))
	suite.Require().NotNil(got.DeliveryID())
	suite.True(deliveryID.IsEqual(*got.DeliveryID()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NilID_ReturnsValidationError() {
	_, err := suite.repository.Get(context.Background(), kernel.UUID{})

	suite.ErrorIs(err, kernel.ErrUUIDIsNotConstructed)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newOrder())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first := suite.pg.DB.Begin()
	defer first.Rollback()
	_, err := orderrepo.NewGormOrderRepository(first, suite.tracker).GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)

	acquired := make(chan error, 1)
	go func() {
		second := suite.pg.DB.Begin()
		defer second.Rollback()
		_, err := orderrepo.NewGormOrderRepository(second, suite.tracker).GetForUpdate(ctx, o.ID())
		acquired <- err
	}()

	select {
	case <-acquired:
		suite.Fail("second lock acquired while the first transaction was open")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit().Error)
	select {
	case err := <-acquired:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("second lock not acquired after commit")
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder() *order.Order {
	addr, err := kernel.NewAddress("12 Galle Rd", "Colombo", "Western", "00300", "LK")
	suite.Require().NoError(err)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), addr, decimal.RequireFromString("2450.00"),
	)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
