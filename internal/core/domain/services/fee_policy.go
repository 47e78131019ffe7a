package services

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	DefaultBaseFee  = decimal.NewFromInt(300)
	DefaultPerKmFee = decimal.NewFromInt(100)
	DefaultMaxFee   = decimal.NewFromInt(2000)

	// DefaultFallbackFee is charged when no distance could be computed.
	DefaultFallbackFee = decimal.NewFromInt(500)
)

// FeePolicy prices a delivery as Base + PerKm × distance, capped at Cap.
// The resulting fee never decreases as the distance grows.
type FeePolicy struct {
	Base  decimal.Decimal
	PerKm decimal.Decimal
	Cap   decimal.Decimal
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{Base: DefaultBaseFee, PerKm: DefaultPerKmFee, Cap: DefaultMaxFee}
}

func NewFeePolicy(base, perKm, maxFee decimal.Decimal) (FeePolicy, error) {
	switch {
	case base.IsNegative():
		return FeePolicy{}, errs.NewValueIsInvalidErrorWithCause("baseFee", fmt.Errorf("%s is negative", base))
	case perKm.IsNegative():
		return FeePolicy{}, errs.NewValueIsInvalidErrorWithCause("perKmFee", fmt.Errorf("%s is negative", perKm))
	case maxFee.LessThan(base):
		return FeePolicy{}, errs.NewValueIsInvalidErrorWithCause("maxFee",
			fmt.Errorf("%s is below the base fee %s", maxFee, base))
	}
	return FeePolicy{Base: base, PerKm: perKm, Cap: maxFee}, nil
}

// Calculate returns the fee for a trip of distanceKm, rounded to cents.
func (p FeePolicy) Calculate(distanceKm float64) (decimal.Decimal, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is not a valid distance", distanceKm))
	}

	fee := p.Base.Add(p.PerKm.Mul(decimal.NewFromFloat(distanceKm)))
	if fee.GreaterThan(p.Cap) {
		fee = p.Cap
	}
	return fee.Round(2), nil
}
