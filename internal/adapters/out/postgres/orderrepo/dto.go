// Package orderrepo persists order aggregates with GORM.
package orderrepo

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. The composite idx_orders_awaiting index serves
// the retry job, which scans out_for_delivery orders pending assignment.
type OrderDTO struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RestaurantID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerID         uuid.UUID           `gorm:"type:uuid;not null"`
	ShippingAddress    AddressDTO          `gorm:"embedded;embeddedPrefix:shipping_"`
	TotalAmount        decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Status             string              `gorm:"type:varchar(32);not null;index:idx_orders_awaiting,priority:1"`
	DeliveryFee        decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	DeliveryFeeSource  string              `gorm:"type:varchar(16);not null;default:''"`
	PickupLat          *float64
	PickupLng          *float64
	DropoffLat         *float64
	DropoffLng         *float64
	AssignmentStatus   string     `gorm:"type:varchar(32);not null;index:idx_orders_awaiting,priority:2"`
	AssignmentAttempts int        `gorm:"not null;default:0"`
	AssignmentNote     string     `gorm:"type:text;not null;default:''"`
	DriverID           *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryID         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time  `gorm:"not null;index:idx_orders_awaiting,priority:3"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	Street  string `gorm:"type:varchar(255);not null"`
	City    string `gorm:"type:varchar(128);not null"`
	State   string `gorm:"type:varchar(128)"`
	ZipCode string `gorm:"type:varchar(32)"`
	Country string `gorm:"type:varchar(64)"`
}

func fromDomain(o *order.Order) OrderDTO {
	addr := o.ShippingAddress()
	dto := OrderDTO{
		ID:           o.ID().Google(),
		RestaurantID: o.RestaurantID().Google(),
		CustomerID:   o.CustomerID().Google(),
		ShippingAddress: AddressDTO{
			Street:  addr.Street(),
			City:    addr.City(),
			State:   addr.State(),
			ZipCode: addr.ZipCode(),
			Country: addr.Country(),
		},
		TotalAmount:        o.TotalAmount(),
		Status:             o.Status().String(),
		DeliveryFeeSource:  o.FeeSource().String(),
		AssignmentStatus:   o.Assignment().String(),
		AssignmentAttempts: o.AssignmentAttempts(),
		AssignmentNote:     o.AssignmentNote(),
		DriverID:           optionalID(o.DriverID()),
		DeliveryID:         optionalID(o.DeliveryID()),
	}
	if fee, ok := o.DeliveryFee(); ok {
		dto.DeliveryFee = decimal.NewNullDecimal(fee)
	}
	if pickup, dropoff, ok := o.Route(); ok {
		dto.PickupLat, dto.PickupLng = ptr(pickup.Latitude()), ptr(pickup.Longitude())
		dto.DropoffLat, dto.DropoffLng = ptr(dropoff.Latitude()), ptr(dropoff.Longitude())
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := requiredIDs(dto.ID, dto.RestaurantID, dto.CustomerID)
	if err != nil {
		return nil, err
	}
	addr, err := kernel.NewAddress(
		dto.ShippingAddress.Street,
		dto.ShippingAddress.City,
		dto.ShippingAddress.State,
		dto.ShippingAddress.ZipCode,
		dto.ShippingAddress.Country,
	)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	assignment, err := order.ParseAssignmentStatus(dto.AssignmentStatus)
	if err != nil {
		return nil, err
	}
	feeSource, err := order.ParseFeeSource(dto.DeliveryFeeSource)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:                 ids[0],
		RestaurantID:       ids[1],
		CustomerID:         ids[2],
		ShippingAddress:    addr,
		TotalAmount:        dto.TotalAmount,
		Status:             status,
		FeeSource:          feeSource,
		Assignment:         assignment,
		AssignmentAttempts: dto.AssignmentAttempts,
		AssignmentNote:     dto.AssignmentNote,
	}
	if dto.DeliveryFee.Valid {
		fee := dto.DeliveryFee.Decimal
		s.DeliveryFee = &fee
	}
	if s.Pickup, err = optionalLocation(dto.PickupLat, dto.PickupLng); err != nil {
		return nil, fmt.Errorf("pickup: %w", err)
	}
	if s.Dropoff, err = optionalLocation(dto.DropoffLat, dto.DropoffLng); err != nil {
		return nil, fmt.Errorf("dropoff: %w", err)
	}
	if s.DriverID, err = optionalUUID(dto.DriverID); err != nil {
		return nil, err
	}
	if s.DeliveryID, err = optionalUUID(dto.DeliveryID); err != nil {
		return nil, err
	}
	return order.RestoreOrder(s)
}

func requiredIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromGoogle(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Google()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalLocation(lat, lng *float64) (*kernel.Location, error) {
	if lat == nil || lng == nil {
		return nil, nil //nolint:nilnil // route not cached yet
	}
	loc, err := kernel.NewLocation(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func ptr(v float64) *float64 {
	return &v
}
