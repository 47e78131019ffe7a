package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDriversQueryHandler reads available drivers straight from the
// drivers table, ordered by id.
type GetAvailableDriversQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableDriversQueryHandler(db *gorm.DB) GetAvailableDriversQueryHandler {
	return GetAvailableDriversQueryHandler{db: db}
}

func (h GetAvailableDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDriversQuery,
) ([]GetAvailableDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers := make([]GetAvailableDriversQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			location_lat,
			location_lng
		FROM drivers
		WHERE is_available = true
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			lat, lng float64
		)
		if err = rows.Scan(&id, &name, &lat, &lng); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromGoogle(id)
		if idErr != nil {
			return nil, idErr
		}
		location, locErr := kernel.NewLocation(lat, lng)
		if locErr != nil {
			return nil, locErr
		}

		drivers = append(drivers, GetAvailableDriversQueryResponse{
			ID:       driverID,
			Name:     name,
			Location: location,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}
