package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersAwaitingDriverQueryHandler feeds the assignment retry job. The
// filter and sort match idx_orders_awaiting.
type GetOrdersAwaitingDriverQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersAwaitingDriverQueryHandler(db *gorm.DB) GetOrdersAwaitingDriverQueryHandler {
	return GetOrdersAwaitingDriverQueryHandler{db: db}
}

func (h GetOrdersAwaitingDriverQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersAwaitingDriverQuery,
) ([]GetOrdersAwaitingDriverQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOrdersAwaitingDriverQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id,
			assignment_attempts,
			assignment_note,
			created_at
		FROM orders
		WHERE status = ? AND assignment_status = ?
		ORDER BY created_at, id
		LIMIT ?
	`, order.OutForDelivery.String(), order.AssignmentPending.String(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, restaurantID uuid.UUID
			resp             GetOrdersAwaitingDriverQueryResponse
		)
		err = rows.Scan(&id, &restaurantID, &resp.AssignmentAttempts, &resp.AssignmentNote, &resp.CreatedAt)
		if err != nil {
			return nil, err
		}

		var idErr, restaurantErr error
		resp.ID, idErr = kernel.UUIDFromGoogle(id)
		resp.RestaurantID, restaurantErr = kernel.UUIDFromGoogle(restaurantID)
		if err = errors.Join(idErr, restaurantErr); err != nil {
			return nil, err
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
