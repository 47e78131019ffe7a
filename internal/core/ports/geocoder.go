package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrGeocodeFailure is matched by every error a Geocoder returns.
var ErrGeocodeFailure = errors.New("geocode failure")

// Geocoder resolves a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.Location, error)
}
