package services

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type Quote struct {
	DistanceKm    float64
	Fee           decimal.Decimal
	EstimatedTime time.Duration
}

// DeliveryQuoter combines distance, fee and travel time for one trip.
type DeliveryQuoter struct {
	fees FeePolicy
	eta  TravelTimeEstimator
}

func NewDeliveryQuoter(fees FeePolicy, eta TravelTimeEstimator) DeliveryQuoter {
	return DeliveryQuoter{fees: fees, eta: eta}
}

func (q DeliveryQuoter) Quote(pickup, dropoff kernel.Location) (Quote, error) {
	km, err := pickup.Distance(dropoff)
	if err != nil {
		return Quote{}, err
	}
	fee, err := q.fees.Calculate(km)
	if err != nil {
		return Quote{}, err
	}
	eta, err := q.eta.Estimate(km)
	if err != nil {
		return Quote{}, err
	}
	return Quote{DistanceKm: km, Fee: fee, EstimatedTime: eta}, nil
}
