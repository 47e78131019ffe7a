package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"
)

const DefaultAssignmentTimeout = 30 * time.Second

type (
	AssignDeliveryHandler interface {
		Handle(ctx context.Context, cmd AssignDeliveryCommand) (AssignmentResult, error)
	}

	QuoteDeliveryFeeHandler interface {
		Handle(ctx context.Context, cmd QuoteDeliveryFeeCommand) error
	}
)

type UpdateOrderStatusResult struct {
	OrderID kernel.UUID
	Status  order.Status
	// Assignment is set when the transition entered out_for_delivery.
	Assignment *AssignmentResult
}

// UpdateOrderStatusCommandHandler applies a status transition and then runs
// what the new state requires: a fee quote on confirmation, driver assignment
// on out_for_delivery. The transition is committed before either runs, and
// their failures are logged without undoing it.
type UpdateOrderStatusCommandHandler struct {
	uowFactory        UoWFactory
	assigner          AssignDeliveryHandler
	quoter            QuoteDeliveryFeeHandler
	assignmentTimeout time.Duration
	now               func() time.Time
	logger            *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	assigner AssignDeliveryHandler,
	quoter QuoteDeliveryFeeHandler,
	assignmentTimeout time.Duration,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	if assignmentTimeout <= 0 {
		assignmentTimeout = DefaultAssignmentTimeout
	}
	return UpdateOrderStatusCommandHandler{
		uowFactory:        uowFactory,
		assigner:          assigner,
		quoter:            quoter,
		assignmentTimeout: assignmentTimeout,
		now:               time.Now,
		logger:            logger.With("component", "UpdateOrderStatus"),
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	events, err := h.transition(ctx, cmd)
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	result := UpdateOrderStatusResult{OrderID: cmd.OrderID(), Status: cmd.Status()}
	for _, event := range events {
		switch e := event.(type) {
		case order.ConfirmedEvent:
			h.quoteFee(ctx, e.OrderID)
		case order.EnteredOutForDeliveryEvent:
			if assignment, ok := h.assign(ctx, e.OrderID); ok {
				result.Assignment = &assignment
			}
		}
	}
	return result, nil
}

// transition commits the status change and returns the events it raised.
func (h UpdateOrderStatusCommandHandler) transition(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) ([]ddd.DomainEvent, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.ChangeStatus(cmd.Status()); err != nil {
		return nil, err
	}
	if cmd.Status() == order.Delivered {
		if err = h.completeDelivery(ctx, uow, o.ID()); err != nil {
			return nil, err
		}
	}
	events := o.DomainEvents()
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// completeDelivery closes the active delivery of the order and releases its
// driver. Orders delivered without a recorded delivery are accepted as is.
func (h UpdateOrderStatusCommandHandler) completeDelivery(ctx context.Context, uow UoW, orderID kernel.UUID) error {
	deliveryRepo := uow.DeliveryRepository()
	dl, err := deliveryRepo.GetActiveByOrder(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err = dl.Complete(h.now()); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, dl); err != nil {
		return err
	}

	return h.releaseDriver(ctx, uow, dl.DriverID(), orderID)
}

// releaseDriver locks the driver row so concurrent location pings queue behind
// this transaction. A version conflict still reloads and reapplies.
func (h UpdateOrderStatusCommandHandler) releaseDriver(
	ctx context.Context,
	uow UoW,
	driverID, orderID kernel.UUID,
) error {
	driverRepo := uow.DriverRepository()
	var err error
	for attempt := 0; attempt < maxDriverUpdateAttempts; attempt++ {
		var d *driver.Driver
		if d, err = driverRepo.GetForUpdate(ctx, driverID); err != nil {
			return err
		}
		if err = d.CompleteOrder(orderID); err != nil {
			return err
		}
		err = driverRepo.Update(ctx, d)
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
	}
	return err
}

func (h UpdateOrderStatusCommandHandler) quoteFee(ctx context.Context, orderID kernel.UUID) {
	if h.quoter == nil {
		return
	}
	quoteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.assignmentTimeout)
	defer cancel()

	cmd, err := NewQuoteDeliveryFeeCommand(orderID)
	if err == nil {
		err = h.quoter.Handle(quoteCtx, cmd)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "delivery fee not quoted at confirmation",
			"orderID", orderID.String(), "error", err)
	}
}

func (h UpdateOrderStatusCommandHandler) assign(ctx context.Context, orderID kernel.UUID) (AssignmentResult, bool) {
	if h.assigner == nil {
		return AssignmentResult{}, false
	}
	assignCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.assignmentTimeout)
	defer cancel()

	cmd, err := NewAssignDeliveryCommand(orderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build assignment command", "orderID", orderID.String(), "error", err)
		return AssignmentResult{}, false
	}
	result, err := h.assigner.Handle(assignCtx, cmd)
	if err != nil {
		h.logger.ErrorContext(ctx, "driver assignment failed, left for retry",
			"orderID", orderID.String(), "error", err)
		return AssignmentResult{}, false
	}
	h.logger.InfoContext(ctx, "assignment finished",
		"orderID", orderID.String(), "outcome", string(result.Outcome))
	return result, true
}
