package services

import (
	"fmt"
	"math"
	"time"

	"dispatch/internal/pkg/errs"
)

const DefaultAverageSpeedKmh = 25.0

// TravelTimeEstimator converts a distance into travel time at a constant
// average speed, rounded up to the whole minute.
type TravelTimeEstimator struct {
	AverageSpeedKmh float64
}

func NewTravelTimeEstimator(averageSpeedKmh float64) (TravelTimeEstimator, error) {
	if math.IsNaN(averageSpeedKmh) || averageSpeedKmh <= 0 {
		return TravelTimeEstimator{}, errs.NewValueIsInvalidErrorWithCause("averageSpeedKmh",
			fmt.Errorf("%v is not a positive speed", averageSpeedKmh))
	}
	return TravelTimeEstimator{AverageSpeedKmh: averageSpeedKmh}, nil
}

func (e TravelTimeEstimator) Estimate(distanceKm float64) (time.Duration, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is not a valid distance", distanceKm))
	}
	if e.AverageSpeedKmh <= 0 {
		return 0, errs.NewValueIsInvalidError("averageSpeedKmh")
	}
	minutes := math.Ceil(distanceKm / e.AverageSpeedKmh * 60)
	return time.Duration(minutes) * time.Minute, nil
}
