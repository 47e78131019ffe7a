package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// QuoteDeliveryFeeCommandHandler geocodes a confirmed order and finalizes its fee
// from the computed distance. Geocoding errors are returned unchanged and leave the
// order without a fee; assignment will then retry or fall back.
type QuoteDeliveryFeeCommandHandler struct {
	uowFactory UoWFactory
	resolver   RouteResolver
	quoter     services.DeliveryQuoter
}

func NewQuoteDeliveryFeeCommandHandler(
	uowFactory UoWFactory,
	resolver RouteResolver,
	quoter services.DeliveryQuoter,
) QuoteDeliveryFeeCommandHandler {
	return QuoteDeliveryFeeCommandHandler{uowFactory: uowFactory, resolver: resolver, quoter: quoter}
}

func (h QuoteDeliveryFeeCommandHandler) Handle(ctx context.Context, cmd QuoteDeliveryFeeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, r, err := loadOrderWithRestaurant(ctx, h.uowFactory, cmd.OrderID())
	if err != nil {
		return err
	}
	if _, finalized := o.DeliveryFee(); finalized {
		return nil
	}

	pickup, dropoff, err := h.resolver.Resolve(ctx, r.Address(), o.ShippingAddress())
	if err != nil {
		return err
	}
	quote, err := h.quoter.Quote(pickup, dropoff)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	locked, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	changed, err := locked.FinalizeDeliveryFee(quote.Fee, order.FeeQuoted)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err = locked.CacheRoute(pickup, dropoff); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, locked); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
