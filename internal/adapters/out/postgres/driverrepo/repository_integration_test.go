package driverrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
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

type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *driverrepo.GormDriverRepository
	index      *driverrepo.GormDriverIndex
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg

	suite.Require().NoError(pg.DB.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("drivers"))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = driverrepo.NewGormDriverRepository(suite.pg.DB, suite.tracker)
	suite.index = driverrepo.NewGormDriverIndex(suite.pg.DB)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAdd_NewDriver_RoundTrips() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal("Nimal", got.Name())
	suite.True(got.IsAvailable())
	suite.Empty(got.ActiveOrders())
	suite.Equal(0, got.Version())
	same, err := d.Location().IsEqual(got.Location())
	suite.Require().NoError(err)
	suite.True(same)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_BumpsVersion() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	loaded, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.MoveTo(kernel.MustNewLocation(6.9300, 79.8700)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(1, got.Version())
	suite.InDelta(6.9300, got.Location().Latitude(), 1e-9)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionIsInvalid() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	first, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.SetAvailability(false))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.MoveTo(kernel.MustNewLocation(6.9300, 79.8700)))
	err = suite.repository.Update(ctx, second)

	suite.ErrorIs(err, errs.ErrVersionIsInvalid)
	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(got.IsAvailable())
	suite.InDelta(6.9271, got.Location().Latitude(), 1e-9)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	d, err := driver.NewDriver(kernel.NewUUID(), "Ghost", kernel.MustNewLocation(6.9, 79.8))
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), d)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_UnavailableDriver_ReturnsConflict() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	stale, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	offline, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(offline.SetAvailability(false))
	suite.Require().NoError(suite.repository.Update(ctx, offline))

	suite.Require().NoError(stale.AcceptOrder(kernel.NewUUID()))
	err = suite.repository.Claim(ctx, stale)

	suite.ErrorIs(err, ports.ErrAssignmentConflict)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_KeepsLocationStoredAfterLoad() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	claiming, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	pinged, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(pinged.MoveTo(kernel.MustNewLocation(6.9344, 79.8428)))
	suite.Require().NoError(suite.repository.Update(ctx, pinged))

	suite.Require().NoError(claiming.AcceptOrder(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Claim(ctx, claiming))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(got.IsAvailable())
	suite.Len(got.ActiveOrders(), 1)
	suite.Equal(2, got.Version())
	suite.InDelta(6.9344, got.Location().Latitude(), 1e-9)
	suite.InDelta(79.8428, got.Location().Longitude(), 1e-9)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetForUpdate_HoldsConcurrentWritesUntilCommit() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	tx := suite.pg.DB.WithContext(ctx).Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()
	locked, err := driverrepo.NewGormDriverRepository(tx, suite.tracker).GetForUpdate(ctx, d.ID())
	suite.Require().NoError(err)

	written := make(chan error, 1)
	go func() {
		moved, err := suite.repository.Get(ctx, d.ID())
		if err != nil {
			written <- err
			return
		}
		if err = moved.MoveTo(kernel.MustNewLocation(6.9344, 79.8428)); err != nil {
			written <- err
			return
		}
		written <- suite.repository.Update(ctx, moved)
	}()

	select {
	case err := <-written:
		suite.Failf("write passed the row lock", "err: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(locked.SetAvailability(false))
	suite.Require().NoError(driverrepo.NewGormDriverRepository(tx, suite.tracker).Update(ctx, locked))
	suite.Require().NoError(tx.Commit().Error)

	// the waiting write read version 0 before the lock was released
	suite.ErrorIs(<-written, errs.ErrVersionIsInvalid)
	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(got.IsAvailable())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_Concurrent_ExactlyOneWins() {
	ctx := context.Background()
	d := suite.addDriver("Nimal", 6.9271, 79.8612)

	const claimers = 8
	results := make([]error, claimers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = suite.claimInTransaction(ctx, d.ID(), kernel.NewUUID())
		}()
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		// losers either read the claimed row or were rejected by the guarded UPDATE
		suite.True(errors.Is(err, ports.ErrAssignmentConflict) || errors.Is(err, driver.ErrDriverUnavailable), err)
	}
	suite.Equal(1, wins)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.False(got.IsAvailable())
	suite.Len(got.ActiveOrders(), 1)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIndexNearby_ReturnsAvailableDriversInBox() {
	ctx := context.Background()
	near := suite.addDriver("Near", 6.9271, 79.8612)
	suite.addDriver("Far", 7.2906, 80.6337)
	busy := suite.addDriver("Busy", 6.9275, 79.8615)

	loaded, err := suite.repository.Get(ctx, busy.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.SetAvailability(false))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	got, err := suite.index.Nearby(ctx, kernel.MustNewLocation(6.9147, 79.8523), 5)
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.True(near.ID().IsEqual(got[0].DriverID))
	suite.True(got[0].Available)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIndexPositions_ReturnsEveryDriver() {
	suite.addDriver("One", 6.9271, 79.8612)
	suite.addDriver("Two", 7.2906, 80.6337)

	got, err := suite.index.Positions(context.Background())

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIndexExists() {
	d := suite.addDriver("One", 6.9271, 79.8612)

	found, err := suite.index.Exists(context.Background(), d.ID())
	suite.Require().NoError(err)
	suite.True(found)

	found, err = suite.index.Exists(context.Background(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *DriverRepositoryIntegrationTestSuite) claimInTransaction(
	ctx context.Context,
	driverID, orderID kernel.UUID,
) error {
	tx := suite.pg.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
	d, err := repo.Get(ctx, driverID)
	if err != nil {
		return err
	}
	if err := d.AcceptOrder(orderID); err != nil {
		return err
	}
	if err := repo.Claim(ctx, d); err != nil {
		return err
	}
	return tx.Commit().Error
}

func (suite *DriverRepositoryIntegrationTestSuite) addDriver(name string, lat, lng float64) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), name, kernel.MustNewLocation(lat, lng))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), d))
	return d
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
