// Package deliveryrepo persists delivery aggregates.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the deliveries table. The partial unique index
// idx_deliveries_active_order allows at most one active delivery per order.
type DeliveryDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_deliveries_active_order,unique,where:status = 'active'"`
	DriverID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	PickupLat        float64    `gorm:"not null"`
	PickupLng        float64    `gorm:"not null"`
	DropoffLat       float64    `gorm:"not null"`
	DropoffLng       float64    `gorm:"not null"`
	DistanceKm       float64    `gorm:"not null"`
	EstimatedSeconds int64      `gorm:"not null"`
	Status           string     `gorm:"type:varchar(16);not null;index"`
	AssignedAt       time.Time  `gorm:"not null"`
	DeliveredAt      *time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:               d.ID().Google(),
		OrderID:          d.OrderID().Google(),
		DriverID:         d.DriverID().Google(),
		PickupLat:        d.Pickup().Latitude(),
		PickupLng:        d.Pickup().Longitude(),
		DropoffLat:       d.Dropoff().Latitude(),
		DropoffLng:       d.Dropoff().Longitude(),
		DistanceKm:       d.DistanceKm(),
		EstimatedSeconds: int64(d.EstimatedTime() / time.Second),
		Status:           d.Status().String(),
		AssignedAt:       d.AssignedAt(),
		DeliveredAt:      d.DeliveredAt(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	var ids [3]kernel.UUID
	for i, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.DriverID} {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	pickup, err := kernel.NewLocation(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewLocation(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(ids[0], ids[1], ids[2], delivery.Route{
		Pickup:        pickup,
		Dropoff:       dropoff,
		DistanceKm:    dto.DistanceKm,
		EstimatedTime: time.Duration(dto.EstimatedSeconds) * time.Second,
	}, status, dto.AssignedAt, dto.DeliveredAt)
}
