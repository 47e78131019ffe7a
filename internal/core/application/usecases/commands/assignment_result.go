package commands

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type AssignmentOutcome string

const (
	OutcomeAssigned           AssignmentOutcome = "assigned"
	OutcomePendingAssignment  AssignmentOutcome = "pending_assignment"
	OutcomeManualIntervention AssignmentOutcome = "manual_intervention"
)

// AssignmentResult describes where an assignment attempt left the order. A
// missing driver or a failed geocode is reported here, not as an error.
type AssignmentResult struct {
	OrderID       kernel.UUID
	Outcome       AssignmentOutcome
	DriverID      *kernel.UUID
	DeliveryID    *kernel.UUID
	DeliveryFee   *decimal.Decimal
	DistanceKm    float64
	EstimatedTime time.Duration
	Note          string
}

func resultFromOrder(o *order.Order) AssignmentResult {
	r := AssignmentResult{
		OrderID:    o.ID(),
		Outcome:    outcomeOf(o.Assignment()),
		DriverID:   o.DriverID(),
		DeliveryID: o.DeliveryID(),
		Note:       o.AssignmentNote(),
	}
	if fee, ok := o.DeliveryFee(); ok {
		r.DeliveryFee = &fee
	}
	return r
}

func outcomeOf(s order.AssignmentStatus) AssignmentOutcome {
	switch s { //nolint:exhaustive // none and pending both mean "not yet"
	case order.AssignmentAssigned:
		return OutcomeAssigned
	case order.AssignmentManual:
		return OutcomeManualIntervention
	default:
		return OutcomePendingAssignment
	}
}
