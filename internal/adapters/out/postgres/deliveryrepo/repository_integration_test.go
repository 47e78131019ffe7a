package deliveryrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *deliveryrepo.GormDeliveryRepository
	tracker    *MockAggregateTracker
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg

	suite.Require().NoError(pg.DB.AutoMigrate(&deliveryrepo.DeliveryDTO{}))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("deliveries"))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.pg.DB, suite.tracker)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_RoundTrips() {
	ctx := context.Background()
	d := suite.newDelivery(kernel.NewUUID())

	suite.Require().NoError(suite.repository.Add(ctx, d))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.True(d.OrderID().IsEqual(got.OrderID()))
	suite.True(d.DriverID().IsEqual(got.DriverID()))
	suite.Equal(delivery.Active, got.Status())
	suite.InDelta(2.3, got.DistanceKm(), 1e-9)
	suite.Equal(6*time.Minute, got.EstimatedTime())
	suite.WithinDuration(d.AssignedAt(), got.AssignedAt(), time.Millisecond)
	suite.Nil(got.DeliveredAt())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", d.ID(), d)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_SecondActiveDeliveryForOrder_Fails() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newDelivery(orderID)))

	err := suite.repository.Add(ctx, suite.newDelivery(orderID))

	suite.ErrorIs(err, deliveryrepo.ErrActiveDeliveryExists)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_AfterCompletion_AllowsNewActiveDelivery() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	first := suite.newDelivery(orderID)
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(first.Complete(time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	second := suite.newDelivery(orderID)
	suite.Require().NoError(suite.repository.Add(ctx, second))

	active, err := suite.repository.GetActiveByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.True(second.ID().IsEqual(active.ID()))

	done, err := suite.repository.Get(ctx, first.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Delivered, done.Status())
	suite.NotNil(done.DeliveredAt())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetActiveByOrder_None_ReturnsNotFound() {
	_, err := suite.repository.GetActiveByOrder(context.Background(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newDelivery(kernel.NewUUID()))

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newDelivery(orderID kernel.UUID) *delivery.Delivery {
	d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, kernel.NewUUID(), delivery.Route{
		Pickup:        kernel.MustNewLocation(6.9147, 79.8523),
		Dropoff:       kernel.MustNewLocation(6.8935, 79.8553),
		DistanceKm:    2.3,
		EstimatedTime: 6 * time.Minute,
	}, time.Now())
	suite.Require().NoError(err)
	return d
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
