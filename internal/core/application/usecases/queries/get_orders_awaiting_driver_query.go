package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultAwaitingDriverLimit = 50
	MaxAwaitingDriverLimit     = 500
)

var (
	ErrGetOrdersAwaitingDriverQueryIsNotConstructed = errors.New(
		"GetOrdersAwaitingDriverQuery must be created via NewGetOrdersAwaitingDriverQuery constructor",
	)
)

// GetOrdersAwaitingDriverQuery lists out_for_delivery orders still pending
// automatic assignment, oldest first. Orders escalated to manual intervention
// are not included.
//
// Example:
//
//	query, err := NewGetOrdersAwaitingDriverQuery(100)
//	if err != nil {
//	    return err
//	}
//	orders, err := NewGetOrdersAwaitingDriverQueryHandler(db).Handle(ctx, query)
type GetOrdersAwaitingDriverQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetOrdersAwaitingDriverQuery accepts limits from 1 to MaxAwaitingDriverLimit.
// Zero selects DefaultAwaitingDriverLimit.
func NewGetOrdersAwaitingDriverQuery(limit int) (GetOrdersAwaitingDriverQuery, error) {
	if limit == 0 {
		limit = DefaultAwaitingDriverLimit
	}
	if limit < 1 || limit > MaxAwaitingDriverLimit {
		return GetOrdersAwaitingDriverQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxAwaitingDriverLimit)
	}
	return GetOrdersAwaitingDriverQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersAwaitingDriverQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersAwaitingDriverQueryIsNotConstructed)
}

func (q GetOrdersAwaitingDriverQuery) Limit() int {
	return q.limit
}

type GetOrdersAwaitingDriverQueryResponse struct {
	ID                 kernel.UUID
	RestaurantID       kernel.UUID
	AssignmentAttempts int
	AssignmentNote     string
	CreatedAt          time.Time
}
