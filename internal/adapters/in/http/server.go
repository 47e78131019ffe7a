// Package http exposes the dispatch operations as a JSON API on echo.
package http

import (
	"context"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

type (
	RestaurantCreator interface {
		Handle(ctx context.Context, cmd commands.CreateRestaurantCommand) error
	}

	DriverCreator interface {
		Handle(ctx context.Context, cmd commands.CreateDriverCommand) error
	}

	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (commands.UpdateOrderStatusResult, error)
	}

	DeliveryAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (commands.AssignmentResult, error)
	}

	DriverAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignDriverToDeliveryCommand) (commands.AssignmentResult, error)
	}

	DriverLocationUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error
	}

	DriverAvailabilityUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverAvailabilityCommand) error
	}

	AvailableDriversLister interface {
		Handle(ctx context.Context, q queries.GetAvailableDriversQuery) ([]queries.GetAvailableDriversQueryResponse, error)
	}

	ActiveDeliveriesLister interface {
		Handle(ctx context.Context, q queries.GetActiveDeliveriesQuery) ([]queries.GetActiveDeliveriesQueryResponse, error)
	}

	AwaitingOrdersLister interface {
		Handle(
			ctx context.Context,
			q queries.GetOrdersAwaitingDriverQuery,
		) ([]queries.GetOrdersAwaitingDriverQueryResponse, error)
	}

	DriverFinder interface {
		Exists(ctx context.Context, id kernel.UUID) (bool, error)
	}

	// DriverSockets attaches a driver's websocket connection.
	DriverSockets interface {
		ServeDriver(w http.ResponseWriter, r *http.Request, driverID kernel.UUID) error
	}
)

// Handlers groups the use cases served by the API. The websocket route is
// only mounted when Drivers and Sockets are both set.
type Handlers struct {
	CreateRestaurant         RestaurantCreator
	CreateDriver             DriverCreator
	CreateOrder              OrderCreator
	UpdateOrderStatus        OrderStatusUpdater
	AssignDelivery           DeliveryAssigner
	AssignDriverToDelivery   DriverAssigner
	UpdateDriverLocation     DriverLocationUpdater
	UpdateDriverAvailability DriverAvailabilityUpdater
	GetAvailableDrivers      AvailableDriversLister
	GetActiveDeliveries      ActiveDeliveriesLister
	GetOrdersAwaitingDriver  AwaitingOrdersLister
	Drivers                  DriverFinder
	Sockets                  DriverSockets
}

// Server implements servers.ServerInterface on top of the application use
// cases. Request shapes are checked against the OpenAPI document by
// RequestValidator before a handler runs.
type Server struct {
	h Handlers
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the generated API routes plus health and the driver websocket.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	servers.RegisterHandlers(e, s)
	if s.h.Sockets != nil && s.h.Drivers != nil {
		e.GET("/ws/drivers/:id", s.ConnectDriver)
	}
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateRestaurant handles POST /api/v1/restaurants.
func (s *Server) CreateRestaurant(c echo.Context) error {
	var req servers.CreateRestaurantJSONRequestBody
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := idOrNew(req.Id)
	if err != nil {
		return respondError(c, err)
	}
	address, err := toAddress(req.Address)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewCreateRestaurantCommand(id, req.Name, address)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateRestaurant.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, servers.Created{Id: id.Google()})
}

// CreateDriver handles POST /api/v1/drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	var req servers.CreateDriverJSONRequestBody
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := idOrNew(req.Id)
	if err != nil {
		return respondError(c, err)
	}
	location, err := toLocation(req.Location)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewCreateDriverCommand(id, req.Name, location)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateDriver.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, servers.Created{Id: id.Google()})
}

// CreateOrder handles POST /api/v1/orders. Orders normally arrive from the
// checkout feed; this route serves manual entry and tests.
func (s *Server) CreateOrder(c echo.Context) error {
	var req servers.CreateOrderJSONRequestBody
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := idOrNew(req.Id)
	if err != nil {
		return respondError(c, err)
	}
	restaurantID, err := kernel.UUIDFromGoogle(req.RestaurantId)
	if err != nil {
		return respondError(c, err)
	}
	customerID, err := kernel.UUIDFromGoogle(req.CustomerId)
	if err != nil {
		return respondError(c, err)
	}
	address, err := toAddress(req.ShippingAddress)
	if err != nil {
		return respondError(c, err)
	}
	cmd, err := commands.NewCreateOrderCommand(id, restaurantID, customerID, address, req.TotalAmount)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, servers.Created{Id: id.Google()})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{id}/status. When the order
// enters out_for_delivery the response carries the assignment outcome.
func (s *Server) UpdateOrderStatus(c echo.Context, id servers.ID) error {
	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return respondError(c, err)
	}
	var req servers.UpdateOrderStatusJSONRequestBody
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return respondError(c, err)
	}
	result, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	resp := servers.StatusChange{
		OrderId: result.OrderID.Google(),
		Status:  servers.OrderStatus(result.Status.String()),
	}
	if result.Assignment != nil {
		a := newAssignment(*result.Assignment)
		resp.Assignment = &a
	}
	return c.JSON(http.StatusOK, resp)
}

// AssignOrder handles POST /api/v1/orders/{id}/assignment. With pickup and
// dropoff in the body the coordinates are used as given; with an empty body
// the addresses of the order are geocoded first.
func (s *Server) AssignOrder(c echo.Context, id servers.ID) error {
	orderID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return respondError(c, err)
	}
	var req servers.AssignOrderJSONRequestBody
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx := c.Request().Context()
	var result commands.AssignmentResult

	switch {
	case req.Pickup != nil && req.Dropoff != nil:
		pickup, err := toLocation(*req.Pickup)
		if err != nil {
			return respondError(c, err)
		}
		dropoff, err := toLocation(*req.Dropoff)
		if err != nil {
			return respondError(c, err)
		}
		cmd, err := commands.NewAssignDriverToDeliveryCommand(orderID, pickup, dropoff)
		if err != nil {
			return respondError(c, err)
		}
		if result, err = s.h.AssignDriverToDelivery.Handle(ctx, cmd); err != nil {
			return respondError(c, err)
		}
	case req.Pickup == nil && req.Dropoff == nil:
		cmd, err := commands.NewAssignDeliveryCommand(orderID)
		if err != nil {
			return respondError(c, err)
		}
		if result, err = s.h.AssignDelivery.Handle(ctx, cmd); err != nil {
			return respondError(c, err)
		}
	default:
		return badRequest(c, "pickup and dropoff must be given together")
	}

	return c.JSON(http.StatusOK, newAssignment(result))
}

// UpdateDriverLocation handles PUT /api/v1/drivers/{id}/location.
func (s *Server) UpdateDriverLocation(c echo.Context, id servers.ID) error {
	driverID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return respondError(c, err)
	}
	var req servers.UpdateDriverLocationJSONRequestBody
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	location, err := toLocation(req)
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, location)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.UpdateDriverLocation.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateDriverAvailability handles PUT /api/v1/drivers/{id}/availability.
func (s *Server) UpdateDriverAvailability(c echo.Context, id servers.ID) error {
	driverID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return respondError(c, err)
	}
	var req servers.UpdateDriverAvailabilityJSONRequestBody
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUpdateDriverAvailabilityCommand(driverID, req.Available)
	if err != nil {
		return respondError(c, err)
	}
	if err = s.h.UpdateDriverAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetAvailableDrivers handles GET /api/v1/drivers/available.
func (s *Server) GetAvailableDrivers(c echo.Context) error {
	drivers, err := s.h.GetAvailableDrivers.Handle(c.Request().Context(), queries.NewGetAvailableDriversQuery())
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]servers.Driver, len(drivers))
	for i, d := range drivers {
		resp[i] = servers.Driver{Id: d.ID.Google(), Name: d.Name, Location: fromLocation(d.Location)}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(c echo.Context) error {
	deliveries, err := s.h.GetActiveDeliveries.Handle(c.Request().Context(), queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]servers.Delivery, len(deliveries))
	for i, d := range deliveries {
		resp[i] = servers.Delivery{
			Id:               d.ID.Google(),
			OrderId:          d.OrderID.Google(),
			DriverId:         d.DriverID.Google(),
			Pickup:           fromLocation(d.Pickup),
			Dropoff:          fromLocation(d.Dropoff),
			DistanceKm:       d.DistanceKm,
			EstimatedMinutes: minutes(d.EstimatedTime),
			AssignedAt:       d.AssignedAt,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetOrdersAwaitingDriver handles GET /api/v1/orders/awaiting-driver?limit=N.
func (s *Server) GetOrdersAwaitingDriver(c echo.Context, params servers.GetOrdersAwaitingDriverParams) error {
	var limit int
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewGetOrdersAwaitingDriverQuery(limit)
	if err != nil {
		return respondError(c, err)
	}

	orders, err := s.h.GetOrdersAwaitingDriver.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]servers.AwaitingOrder, len(orders))
	for i, o := range orders {
		resp[i] = servers.AwaitingOrder{
			Id:                 o.ID.Google(),
			RestaurantId:       o.RestaurantID.Google(),
			AssignmentAttempts: o.AssignmentAttempts,
			AssignmentNote:     optional(o.AssignmentNote),
			CreatedAt:          o.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// ConnectDriver handles GET /ws/drivers/:id and upgrades to a websocket.
func (s *Server) ConnectDriver(c echo.Context) error {
	driverID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	found, err := s.h.Drivers.Exists(c.Request().Context(), driverID)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, servers.Error{Code: http.StatusNotFound, Message: "driver not found"})
	}
	// the upgrade has written its own response on failure
	_ = s.h.Sockets.ServeDriver(c.Response(), c.Request(), driverID)
	return nil
}
