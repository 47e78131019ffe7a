// Package driverrepo persists driver aggregates and answers proximity
// queries over their last known positions.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DriverDTO is the drivers table. idx_drivers_available_location lets the
// bounding box prefilter scan only available drivers.
type DriverDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:varchar(255);not null"`
	IsAvailable  bool           `gorm:"not null;index:idx_drivers_available_location,priority:1"`
	Location     LocationDTO    `gorm:"embedded;embeddedPrefix:location_"`
	ActiveOrders pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Version      int            `gorm:"not null;default:0"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

type LocationDTO struct {
	Lat float64 `gorm:"not null;index:idx_drivers_available_location,priority:2"`
	Lng float64 `gorm:"not null;index:idx_drivers_available_location,priority:3"`
}

func fromDomain(d *driver.Driver) DriverDTO {
	orders := d.ActiveOrders()
	active := make(pq.StringArray, 0, len(orders))
	for _, id := range orders {
		active = append(active, id.String())
	}
	return DriverDTO{
		ID:           d.ID().Google(),
		Name:         d.Name(),
		IsAvailable:  d.IsAvailable(),
		Location:     LocationDTO{Lat: d.Location().Latitude(), Lng: d.Location().Longitude()},
		ActiveOrders: active,
		Version:      d.Version(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}
	active := make([]kernel.UUID, 0, len(dto.ActiveOrders))
	for _, raw := range dto.ActiveOrders {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, err
		}
		active = append(active, orderID)
	}
	return driver.RestoreDriver(id, dto.Name, loc, dto.IsAvailable, active, dto.Version)
}

// toPosition skips full aggregate restoration; the index only needs coordinates.
func toPosition(dto DriverDTO) (driver.Position, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return driver.Position{}, err
	}
	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return driver.Position{}, err
	}
	return driver.Position{DriverID: id, Location: loc, Available: dto.IsAvailable, Version: dto.Version}, nil
}
