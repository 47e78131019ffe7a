package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// RouteResolver geocodes the pickup and dropoff addresses of a delivery concurrently.
type RouteResolver struct {
	geocoder ports.Geocoder
}

func NewRouteResolver(geocoder ports.Geocoder) RouteResolver {
	return RouteResolver{geocoder: geocoder}
}

// Resolve returns both locations or the first geocoding error. When one lookup
// fails the other one is cancelled.
func (r RouteResolver) Resolve(
	ctx context.Context,
	pickupAddress, dropoffAddress kernel.Address,
) (pickup, dropoff kernel.Location, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loc, err := r.geocoder.Geocode(gctx, pickupAddress.Text())
		if err != nil {
			return fmt.Errorf("pickup: %w", err)
		}
		pickup = loc
		return nil
	})
	g.Go(func() error {
		loc, err := r.geocoder.Geocode(gctx, dropoffAddress.Text())
		if err != nil {
			return fmt.Errorf("dropoff: %w", err)
		}
		dropoff = loc
		return nil
	})
	if err = g.Wait(); err != nil {
		return kernel.Location{}, kernel.Location{}, err
	}
	return pickup, dropoff, nil
}
