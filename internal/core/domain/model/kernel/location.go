package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
)

// ErrInvalidCoordinate is matched by every error produced for a latitude or
// longitude that is out of range or not a finite number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location")

// Location is a validated WGS84 point.
//
// Latitude lies in [-90, 90] and longitude in [-180, 180]; NaN and infinities are
// rejected. The zero value is not a valid location (it is not the point 0,0), so
// values must come from NewLocation.
//
// Example:
//
//	colombo, err := kernel.NewLocation(6.9271, 79.8612)
//	if err != nil {
//	    return err
//	}
//	km, err := colombo.Distance(kandy)
type Location struct { //nolint:recvcheck // private setters are used during construction
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{guard: guard.NewConstructorGuard()}

	if err := errors.Join(loc.setLatitude(lat), loc.setLongitude(lng)); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// MustNewLocation panics on invalid input. Intended for fixtures.
func MustNewLocation(lat, lng float64) Location {
	loc, err := NewLocation(lat, lng)
	if err != nil {
		panic(fmt.Sprintf("kernel: %v", err))
	}
	return loc
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Latitude() float64 {
	return l.lat
}

func (l Location) Longitude() float64 {
	return l.lng
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lng)
}

func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return l.lat == other.lat && l.lng == other.lng, nil
}

// Distance returns the great-circle distance to other in kilometres using the
// haversine formula. It is symmetric, never negative and exactly zero for
// identical points.
func (l Location) Distance(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(l.lat)
	lat2 := toRadians(other.lat)
	dLat := lat2 - lat1
	dLng := toRadians(other.lng - l.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push a slightly above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

func (l *Location) setLatitude(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("%w: %w", ErrInvalidCoordinate,
			errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude))
	}
	l.lat = lat
	return nil
}

func (l *Location) setLongitude(lng float64) error {
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < MinLongitude || lng > MaxLongitude {
		return fmt.Errorf("%w: %w", ErrInvalidCoordinate,
			errs.NewValueIsOutOfRangeError("longitude", lng, MinLongitude, MaxLongitude))
	}
	l.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
