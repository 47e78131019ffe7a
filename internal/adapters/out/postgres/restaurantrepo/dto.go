// Package restaurantrepo persists restaurants, the pickup points of deliveries.
package restaurantrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
)

type RestaurantDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name    string     `gorm:"type:varchar(255);not null"`
	Address AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type AddressDTO struct {
	Street  string `gorm:"type:varchar(255);not null"`
	City    string `gorm:"type:varchar(128);not null"`
	State   string `gorm:"type:varchar(128)"`
	ZipCode string `gorm:"type:varchar(32)"`
	Country string `gorm:"type:varchar(64)"`
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	addr := r.Address()
	return RestaurantDTO{
		ID:   r.ID().Google(),
		Name: r.Name(),
		Address: AddressDTO{
			Street:  addr.Street(),
			City:    addr.City(),
			State:   addr.State(),
			ZipCode: addr.ZipCode(),
			Country: addr.Country(),
		},
	}
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	addr, err := kernel.NewAddress(
		dto.Address.Street, dto.Address.City, dto.Address.State, dto.Address.ZipCode, dto.Address.Country,
	)
	if err != nil {
		return nil, err
	}
	return restaurant.NewRestaurant(id, dto.Name, addr)
}
