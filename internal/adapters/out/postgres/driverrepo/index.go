package driverrepo

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormDriverIndex is the SQL driver spatial index: a bounding box around the
// center, evaluated over idx_drivers_available_location. Corners of the box lie
// outside the radius, so callers filter by exact distance.
type GormDriverIndex struct {
	db *gorm.DB
}

func NewGormDriverIndex(db *gorm.DB) *GormDriverIndex {
	return &GormDriverIndex{db: db}
}

func (i *GormDriverIndex) Nearby(ctx context.Context, center kernel.Location, radiusKm float64) ([]driver.Position, error) {
	box, err := center.BoundingBox(radiusKm)
	if err != nil {
		return nil, err
	}

	var dtos []DriverDTO
	err = i.db.WithContext(ctx).
		Select("id", "is_available", "location_lat", "location_lng").
		Where("is_available = ?", true).
		Where("location_lat BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("location_lng BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return positions(dtos)
}

// Positions returns the last known position of every driver. It seeds
// in-memory indexes at startup.
func (i *GormDriverIndex) Positions(ctx context.Context) ([]driver.Position, error) {
	var dtos []DriverDTO
	err := i.db.WithContext(ctx).
		Select("id", "is_available", "location_lat", "location_lng").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return positions(dtos)
}

func (i *GormDriverIndex) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	var n int64
	err := i.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", id.Google()).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func positions(dtos []DriverDTO) ([]driver.Position, error) {
	out := make([]driver.Position, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toPosition(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
