package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetAvailableDriversQueryIsNotConstructed = errors.New(
		"GetAvailableDriversQuery must be created via NewGetAvailableDriversQuery constructor",
	)
)

// GetAvailableDriversQuery lists drivers that can take an order right now,
// with their last known position.
//
// Example:
//
//	query := NewGetAvailableDriversQuery()
//	handler := NewGetAvailableDriversQueryHandler(db)
//
//	drivers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get available drivers: %w", err)
//	}
//	for _, d := range drivers {
//	    fmt.Printf("%s %s at %s\n", d.ID, d.Name, d.Location)
//	}
type GetAvailableDriversQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAvailableDriversQuery() GetAvailableDriversQuery {
	return GetAvailableDriversQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAvailableDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDriversQueryIsNotConstructed)
}

type GetAvailableDriversQueryResponse struct {
	ID       kernel.UUID
	Name     string
	Location kernel.Location
}
