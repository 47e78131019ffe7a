package restaurantrepo_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/adapters/out/postgres/restaurantrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"
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

type RestaurantRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *restaurantrepo.GormRestaurantRepository
	tracker    *MockAggregateTracker
}

func (suite *RestaurantRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg

	suite.Require().NoError(pg.DB.AutoMigrate(&restaurantrepo.RestaurantDTO{}))
}

func (suite *RestaurantRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("restaurants"))

	suite.tracker = new(MockAggregateTracker)
	suite.repository = restaurantrepo.NewGormRestaurantRepository(suite.pg.DB, suite.tracker)
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestAdd_RoundTrips() {
	ctx := context.Background()
	addr, err := kernel.NewAddress("5 Flower Rd", "Colombo", "", "", "LK")
	suite.Require().NoError(err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Curry Leaf", addr)
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", r.ID(), r).Once()

	suite.Require().NoError(suite.repository.Add(ctx, r))

	got, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal("Curry Leaf", got.Name())
	suite.Equal(addr.Text(), got.Address().Text())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RestaurantRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestRestaurantRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantRepositoryIntegrationTestSuite))
}
