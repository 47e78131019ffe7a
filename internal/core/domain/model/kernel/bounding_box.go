package kernel

import (
	"fmt"
	"math"
)

const kmPerDegreeLat = math.Pi * EarthRadiusKm / 180

// BoundingBox is a latitude/longitude rectangle that contains every point
// within some radius of a center. It is used as a cheap prefilter before the
// exact haversine check.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns the rectangle enclosing the circle of radiusKm around l.
// Latitudes are clamped at the poles. When the circle reaches a pole or crosses
// the antimeridian the longitude range widens to the full [-180, 180].
func (l Location) BoundingBox(radiusKm float64) (BoundingBox, error) {
	if err := l.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return BoundingBox{}, fmt.Errorf("radius must be a non-negative number, got %v", radiusKm)
	}

	dLat := radiusKm / kmPerDegreeLat
	box := BoundingBox{
		MinLat: math.Max(MinLatitude, l.lat-dLat),
		MaxLat: math.Min(MaxLatitude, l.lat+dLat),
		MinLng: MinLongitude,
		MaxLng: MaxLongitude,
	}
	if box.MinLat == MinLatitude || box.MaxLat == MaxLatitude {
		return box, nil
	}

	// the widest longitude span is reached at the latitude closest to a pole
	widest := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	dLng := radiusKm / (kmPerDegreeLat * math.Cos(toRadians(widest)))
	if l.lng-dLng < MinLongitude || l.lng+dLng > MaxLongitude {
		return box, nil
	}
	box.MinLng = l.lng - dLng
	box.MaxLng = l.lng + dLng
	return box, nil
}

func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
