package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			driver_id,
			pickup_lat,
			pickup_lng,
			dropoff_lat,
			dropoff_lng,
			distance_km,
			estimated_seconds,
			assigned_at
		FROM deliveries
		WHERE status = 'active'
		ORDER BY assigned_at, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, orderID, driverID  uuid.UUID
			pickupLat, pickupLng   float64
			dropoffLat, dropoffLng float64
			distanceKm             float64
			estimatedSeconds       int64
			assignedAt             time.Time
		)
		err = rows.Scan(
			&id, &orderID, &driverID,
			&pickupLat, &pickupLng,
			&dropoffLat, &dropoffLng,
			&distanceKm, &estimatedSeconds, &assignedAt,
		)
		if err != nil {
			return nil, err
		}

		resp := GetActiveDeliveriesQueryResponse{
			DistanceKm:    distanceKm,
			EstimatedTime: time.Duration(estimatedSeconds) * time.Second,
			AssignedAt:    assignedAt,
		}
		var idErr, orderErr, driverErr, pickupErr, dropoffErr error
		resp.ID, idErr = kernel.UUIDFromGoogle(id)
		resp.OrderID, orderErr = kernel.UUIDFromGoogle(orderID)
		resp.DriverID, driverErr = kernel.UUIDFromGoogle(driverID)
		resp.Pickup, pickupErr = kernel.NewLocation(pickupLat, pickupLng)
		resp.Dropoff, dropoffErr = kernel.NewLocation(dropoffLat, dropoffLng)
		if err = errors.Join(idErr, orderErr, driverErr, pickupErr, dropoffErr); err != nil {
			return nil, err
		}

		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
