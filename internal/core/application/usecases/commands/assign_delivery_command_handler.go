package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/restaurant"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
)

// DriverAssigner assigns a driver once the route is known.
type DriverAssigner interface {
	Handle(ctx context.Context, cmd AssignDriverToDeliveryCommand) (AssignmentResult, error)
}

// AssignDeliveryCommandHandler resolves the delivery route and hands over to the
// DriverAssigner. Coordinates cached on the order are reused; otherwise both
// addresses are geocoded. If geocoding fails the order gets the fallback fee
// and is flagged for manual intervention, which is reported as an outcome.
type AssignDeliveryCommandHandler struct {
	uowFactory  UoWFactory
	resolver    RouteResolver
	assigner    DriverAssigner
	fallbackFee decimal.Decimal
	logger      *slog.Logger
}

func NewAssignDeliveryCommandHandler(
	uowFactory UoWFactory,
	resolver RouteResolver,
	assigner DriverAssigner,
	fallbackFee decimal.Decimal,
	logger *slog.Logger,
) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory:  uowFactory,
		resolver:    resolver,
		assigner:    assigner,
		fallbackFee: fallbackFee,
		logger:      logger.With("component", "AssignDelivery"),
	}
}

func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	o, r, err := loadOrderWithRestaurant(ctx, h.uowFactory, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}
	if o.Assignment() == order.AssignmentAssigned {
		return resultFromOrder(o), nil
	}
	if err = o.ValidateAwaitingDriver(); err != nil {
		return AssignmentResult{}, err
	}

	pickup, dropoff, cached := o.Route()
	if !cached {
		pickup, dropoff, err = h.resolver.Resolve(ctx, r.Address(), o.ShippingAddress())
		if errors.Is(err, ports.ErrGeocodeFailure) {
			h.logger.WarnContext(ctx, "geocoding failed, falling back to default fee",
				"orderID", o.ID().String(), "error", err)
			return h.requireManualIntervention(ctx, o.ID(), err.Error())
		}
		if err != nil {
			return AssignmentResult{}, err
		}
	}

	assignCmd, err := NewAssignDriverToDeliveryCommand(o.ID(), pickup, dropoff)
	if err != nil {
		return AssignmentResult{}, err
	}
	return h.assigner.Handle(ctx, assignCmd)
}

func (h AssignDeliveryCommandHandler) requireManualIntervention(
	ctx context.Context,
	orderID kernel.UUID,
	note string,
) (AssignmentResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return AssignmentResult{}, err
	}
	if o.Assignment() == order.AssignmentAssigned {
		return resultFromOrder(o), nil
	}
	if _, err = o.FinalizeDeliveryFee(h.fallbackFee, order.FeeFallback); err != nil {
		return AssignmentResult{}, err
	}
	if err = o.RequireManualIntervention(note); err != nil {
		return AssignmentResult{}, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}
	return resultFromOrder(o), nil
}

// loadOrderWithRestaurant reads an order and its restaurant without holding locks,
// so the slow geocoding step runs outside any transaction.
func loadOrderWithRestaurant(
	ctx context.Context,
	uowFactory UoWFactory,
	orderID kernel.UUID,
) (*order.Order, *restaurant.Restaurant, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	r, err := uow.RestaurantRepository().Get(ctx, o.RestaurantID())
	if err != nil {
		return nil, nil, err
	}
	return o, r, nil
}
