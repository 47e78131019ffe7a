package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpin "dispatch/internal/adapters/in/http"
	kafkain "dispatch/internal/adapters/in/kafka"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/geocoder"
	"dispatch/internal/adapters/out/geoindex"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/ddd"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot builds the application graph. Domain events of committed
// units of work flow through one mediator to the spatial index, the driver
// hub and, when enabled, the Kafka publisher.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	mediator   *ddd.Mediator
	uowFactory *postgres.GormUnitOfWorkFactory
	sqlIndex   *driverrepo.GormDriverIndex
	geohash    *geoindex.GeohashIndex
	index      ports.DriverSpatialIndex
	geocoder   ports.Geocoder
	quoter     services.DeliveryQuoter
	locator    services.DriverLocator
	hub        *ws.Hub
	publisher  *kafkaout.Publisher
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	fees, err := services.NewFeePolicy(cfg.BaseFee, cfg.PerKmFee, cfg.MaxFee)
	if err != nil {
		return nil, err
	}
	eta, err := services.NewTravelTimeEstimator(cfg.AverageSpeedKmh)
	if err != nil {
		return nil, err
	}
	locator, err := services.NewDriverLocator(cfg.SearchRadiusKm)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		logger:   logger,
		mediator: ddd.NewMediator(),
		sqlIndex: driverrepo.NewGormDriverIndex(gormDB),
		quoter:   services.NewDeliveryQuoter(fees, eta),
		locator:  locator,
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.mediator, logger)

	switch cfg.DriverIndex {
	case IndexSQL:
		c.index = c.sqlIndex
	default:
		c.geohash, err = geoindex.NewGeohashIndex(cfg.GeohashPrecision, logger)
		if err != nil {
			return nil, err
		}
		c.mediator.Subscribe(c.geohash, c.geohash.EventNames()...)
		c.index = c.geohash
	}

	retry := geocoder.DefaultRetryConfig()
	retry.MaxRetries = cfg.GeocoderMaxRetries
	c.geocoder = geocoder.NewRetrying(&geocoder.Client{
		BaseURL: cfg.GeocoderBaseURL,
		Key:     cfg.GeocoderAPIKey,
		Region:  cfg.GeocoderRegion,
		HTTP:    &http.Client{Timeout: cfg.GeocoderTimeout},
	}, retry, logger)

	c.hub = ws.NewHub(c.CreateUpdateDriverLocationCommandHandler(), logger)
	c.mediator.Subscribe(c.hub, c.hub.EventNames()...)

	return c, nil
}

// WarmIndex loads driver positions into the in-memory index. It is a no-op
// for the SQL index.
func (c *CompositionRoot) WarmIndex(ctx context.Context) error {
	if c.geohash == nil {
		return nil
	}
	if err := c.geohash.Warm(ctx, c.sqlIndex); err != nil {
		return fmt.Errorf("warm driver index: %w", err)
	}
	return nil
}

// EnablePublisher forwards integration events to Kafka through producer.
func (c *CompositionRoot) EnablePublisher(producer sarama.SyncProducer) {
	c.publisher = kafkaout.NewPublisher(producer, c.cfg.KafkaTopics, c.logger)
	c.mediator.Subscribe(c.publisher, c.publisher.EventNames()...)
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

func (c *CompositionRoot) CreateCreateRestaurantCommandHandler() commands.CreateRestaurantCommandHandler {
	return commands.NewCreateRestaurantCommandHandler(c.restaurantUoWFactory())
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDriverAvailabilityCommandHandler() commands.UpdateDriverAvailabilityCommandHandler {
	return commands.NewUpdateDriverAvailabilityCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateAssignDriverToDeliveryCommandHandler() commands.AssignDriverToDeliveryCommandHandler {
	return commands.NewAssignDriverToDeliveryCommandHandler(
		c.fullUoWFactory(),
		c.index,
		c.locator,
		c.quoter,
		commands.AssignmentPolicy{
			MaxClaimAttempts:      c.cfg.MaxClaimAttempts,
			MaxAssignmentAttempts: c.cfg.MaxAssignmentAttempts,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(
		c.fullUoWFactory(),
		commands.NewRouteResolver(c.geocoder),
		c.CreateAssignDriverToDeliveryCommandHandler(),
		c.cfg.FallbackFee,
		c.logger,
	)
}

func (c *CompositionRoot) CreateQuoteDeliveryFeeCommandHandler() commands.QuoteDeliveryFeeCommandHandler {
	return commands.NewQuoteDeliveryFeeCommandHandler(
		c.fullUoWFactory(),
		commands.NewRouteResolver(c.geocoder),
		c.quoter,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.fullUoWFactory(),
		c.CreateAssignDeliveryCommandHandler(),
		c.CreateQuoteDeliveryFeeCommandHandler(),
		c.cfg.AssignmentTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersAwaitingDriverQueryHandler() queries.GetOrdersAwaitingDriverQueryHandler {
	return queries.NewGetOrdersAwaitingDriverQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateEcho() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateRestaurant:         c.CreateCreateRestaurantCommandHandler(),
		CreateDriver:             c.CreateCreateDriverCommandHandler(),
		CreateOrder:              c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:        c.CreateUpdateOrderStatusCommandHandler(),
		AssignDelivery:           c.CreateAssignDeliveryCommandHandler(),
		AssignDriverToDelivery:   c.CreateAssignDriverToDeliveryCommandHandler(),
		UpdateDriverLocation:     c.CreateUpdateDriverLocationCommandHandler(),
		UpdateDriverAvailability: c.CreateUpdateDriverAvailabilityCommandHandler(),
		GetAvailableDrivers:      c.CreateGetAvailableDriversQueryHandler(),
		GetActiveDeliveries:      c.CreateGetActiveDeliveriesQueryHandler(),
		GetOrdersAwaitingDriver:  c.CreateGetOrdersAwaitingDriverQueryHandler(),
		Drivers:                  c.sqlIndex,
		Sockets:                  c.hub,
	})
	return httpin.NewEcho(server, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewAssignmentRetryJob(
			c.CreateGetOrdersAwaitingDriverQueryHandler(),
			c.CreateAssignDeliveryCommandHandler(),
			c.cfg.AssignmentRetrySchedule,
			c.cfg.AssignmentRetryBatch,
			c.cfg.AssignmentTimeout,
			c.logger,
		),
	)
}

func (c *CompositionRoot) CreateOrderPlacedConsumer(group sarama.ConsumerGroup) *kafkain.Consumer {
	handler := kafkain.NewOrderPlacedHandler(c.CreateCreateOrderCommandHandler(), c.logger)
	return kafkain.NewConsumer(group, []string{c.cfg.KafkaOrderPlacedTopic}, handler, c.logger)
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) restaurantUoWFactory() commands.RestaurantUoWFactory {
	return FuncRestaurantUoWFactory(func() commands.RestaurantUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncRestaurantUoWFactory func() commands.RestaurantUoW

func (f FuncRestaurantUoWFactory) Create() commands.RestaurantUoW {
	return f()
}
