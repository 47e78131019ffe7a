// Package restaurant holds the Restaurant entity, the pickup side of a delivery.
package restaurant

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrNameIsRequired             = errs.NewValueIsRequiredError("name")
	ErrRestaurantIsNotConstructed = errors.New("restaurant must be created via NewRestaurant")
)

type Restaurant struct {
	id      kernel.UUID
	name    string
	address kernel.Address
	guard   guard.ConstructorGuard
}

func NewRestaurant(id kernel.UUID, name string, address kernel.Address) (*Restaurant, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	if err := errors.Join(id.Validate(), nameErr, address.Validate()); err != nil {
		return nil, err
	}
	return &Restaurant{id: id, name: name, address: address, guard: guard.NewConstructorGuard()}, nil
}

func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

func (r *Restaurant) Name() string {
	return r.name
}

// Address is the pickup address geocoded for deliveries.
func (r *Restaurant) Address() kernel.Address {
	return r.address
}
