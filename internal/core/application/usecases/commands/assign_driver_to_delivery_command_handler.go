package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

const (
	DefaultMaxClaimAttempts      = 3
	DefaultMaxAssignmentAttempts = 10

	noDriverNote        = "no available driver within search radius"
	claimsExhaustedNote = "every candidate driver was claimed concurrently"
)

// AssignmentPolicy bounds the retries of the coordinator.
type AssignmentPolicy struct {
	// MaxClaimAttempts is how many candidates are tried within one request when
	// claims are lost to concurrent assignments.
	MaxClaimAttempts int
	// MaxAssignmentAttempts is how many unsuccessful requests an order may see
	// before it is flagged for manual intervention. Zero disables escalation.
	MaxAssignmentAttempts int
}

func DefaultAssignmentPolicy() AssignmentPolicy {
	return AssignmentPolicy{
		MaxClaimAttempts:      DefaultMaxClaimAttempts,
		MaxAssignmentAttempts: DefaultMaxAssignmentAttempts,
	}
}

// AssignDriverToDeliveryCommandHandler is the core of the delivery assignment
// coordinator. For an order out for delivery it finalizes the fee, finds the
// nearest available driver, claims them and creates the Delivery, all in one
// transaction holding the order row lock.
//
// Repeated calls for an assigned order return the existing assignment without
// side effects. When no driver qualifies the order stays pending_assignment
// and keeps its fee, so a later call can retry.
type AssignDriverToDeliveryCommandHandler struct {
	uowFactory UoWFactory
	index      ports.DriverSpatialIndex
	locator    services.DriverLocator
	quoter     services.DeliveryQuoter
	policy     AssignmentPolicy
	now        func() time.Time
	logger     *slog.Logger
}

func NewAssignDriverToDeliveryCommandHandler(
	uowFactory UoWFactory,
	index ports.DriverSpatialIndex,
	locator services.DriverLocator,
	quoter services.DeliveryQuoter,
	policy AssignmentPolicy,
	logger *slog.Logger,
) AssignDriverToDeliveryCommandHandler {
	if policy.MaxClaimAttempts <= 0 {
		policy.MaxClaimAttempts = DefaultMaxClaimAttempts
	}
	return AssignDriverToDeliveryCommandHandler{
		uowFactory: uowFactory,
		index:      index,
		locator:    locator,
		quoter:     quoter,
		policy:     policy,
		now:        time.Now,
		logger:     logger.With("component", "AssignDriverToDelivery"),
	}
}

func (h AssignDriverToDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd AssignDriverToDeliveryCommand,
) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	quote, err := h.quoter.Quote(cmd.Pickup(), cmd.Dropoff())
	if err != nil {
		return AssignmentResult{}, err
	}

	var lost []kernel.UUID
	for attempt := 1; attempt <= h.policy.MaxClaimAttempts; attempt++ {
		result, driverID, err := h.tryAssign(ctx, cmd, quote, lost)
		if !errors.Is(err, ports.ErrAssignmentConflict) {
			return result, err
		}
		lost = append(lost, driverID)
		h.logger.InfoContext(ctx, "driver claimed concurrently, trying next candidate",
			"orderID", cmd.OrderID().String(), "driverID", driverID.String(), "attempt", attempt)
	}

	return h.recordFailure(ctx, cmd, quote, claimsExhaustedNote)
}

// tryAssign runs one transaction. On ports.ErrAssignmentConflict it also returns
// the driver that was lost so the next attempt can skip it.
func (h AssignDriverToDeliveryCommandHandler) tryAssign(
	ctx context.Context,
	cmd AssignDriverToDeliveryCommand,
	quote services.Quote,
	exclude []kernel.UUID,
) (AssignmentResult, kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if o.Assignment() == order.AssignmentAssigned {
		return resultFromOrder(o), kernel.UUID{}, nil
	}
	if err = prepareOrder(o, cmd, quote); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}

	candidates, err := h.index.Nearby(ctx, cmd.Pickup(), h.locator.RadiusKm)
	if err != nil {
		return AssignmentResult{}, kernel.UUID{}, fmt.Errorf("query driver index: %w", err)
	}
	best, _, err := h.locator.Nearest(cmd.Pickup(), candidates, exclude...)
	if errors.Is(err, services.ErrDriverNotFound) {
		if _, err = o.RecordFailedAssignment(noDriverNote, h.policy.MaxAssignmentAttempts); err != nil {
			return AssignmentResult{}, kernel.UUID{}, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return AssignmentResult{}, kernel.UUID{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return AssignmentResult{}, kernel.UUID{}, err
		}
		return resultFromOrder(o), kernel.UUID{}, nil
	}
	if err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}

	driverRepo := uow.DriverRepository()
	d, err := driverRepo.Get(ctx, best.DriverID)
	if err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = d.AcceptOrder(o.ID()); err != nil {
		if errors.Is(err, driver.ErrDriverUnavailable) {
			// the index lagged behind storage
			return AssignmentResult{}, d.ID(), ports.ErrAssignmentConflict
		}
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = driverRepo.Claim(ctx, d); err != nil {
		return AssignmentResult{}, d.ID(), err
	}

	dl, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), d.ID(), delivery.Route{
		Pickup:        cmd.Pickup(),
		Dropoff:       cmd.Dropoff(),
		DistanceKm:    quote.DistanceKm,
		EstimatedTime: quote.EstimatedTime,
	}, h.now())
	if err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = uow.DeliveryRepository().Add(ctx, dl); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = o.AssignDriver(d.ID(), dl.ID()); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, kernel.UUID{}, err
	}

	h.logger.InfoContext(ctx, "driver assigned",
		"orderID", o.ID().String(), "driverID", d.ID().String(), "deliveryID", dl.ID().String(),
		"distanceKm", quote.DistanceKm)

	result := resultFromOrder(o)
	result.DistanceKm = quote.DistanceKm
	result.EstimatedTime = quote.EstimatedTime
	return result, kernel.UUID{}, nil
}

func (h AssignDriverToDeliveryCommandHandler) recordFailure(
	ctx context.Context,
	cmd AssignDriverToDeliveryCommand,
	quote services.Quote,
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
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}
	if o.Assignment() == order.AssignmentAssigned {
		return resultFromOrder(o), nil
	}
	if err = prepareOrder(o, cmd, quote); err != nil {
		return AssignmentResult{}, err
	}
	if _, err = o.RecordFailedAssignment(note, h.policy.MaxAssignmentAttempts); err != nil {
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

// prepareOrder finalizes the fee (a no-op if already finalized) and caches the route.
func prepareOrder(o *order.Order, cmd AssignDriverToDeliveryCommand, quote services.Quote) error {
	if err := o.ValidateAwaitingDriver(); err != nil {
		return err
	}
	if _, err := o.FinalizeDeliveryFee(quote.Fee, order.FeeQuoted); err != nil {
		return err
	}
	return o.CacheRoute(cmd.Pickup(), cmd.Dropoff())
}
