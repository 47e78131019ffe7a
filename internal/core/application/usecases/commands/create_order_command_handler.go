package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ErrOrderAlreadyExists is returned when an order id is submitted twice, for
// example when the order feed redelivers a message.
var ErrOrderAlreadyExists = errors.New("order already exists")

type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle stores a pending order after checking that its restaurant exists.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.RestaurantRepository().Get(ctx, cmd.RestaurantID()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	_, err := orderRepo.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrOrderAlreadyExists, cmd.OrderID())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(), cmd.RestaurantID(), cmd.CustomerID(), cmd.ShippingAddress(), cmd.TotalAmount(),
	)
	if err != nil {
		return err
	}
	if err = orderRepo.Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
