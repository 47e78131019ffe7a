package http

import (
	"math"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toLocation(l servers.Location) (kernel.Location, error) {
	return kernel.NewLocation(l.Lat, l.Lng)
}

func fromLocation(l kernel.Location) servers.Location {
	return servers.Location{Lat: l.Latitude(), Lng: l.Longitude()}
}

func toAddress(a servers.Address) (kernel.Address, error) {
	return kernel.NewAddress(a.Street, a.City, deref(a.State), deref(a.ZipCode), deref(a.Country))
}

func idOrNew(id *openapi_types.UUID) (kernel.UUID, error) {
	if id == nil {
		return kernel.NewUUID(), nil
	}
	return kernel.UUIDFromGoogle(*id)
}

func parseStatus(s servers.OrderStatus) (order.Status, error) {
	if s == "" {
		return order.Unknown, errs.NewValueIsRequiredError("status")
	}
	return order.ParseStatus(string(s))
}

func newAssignment(r commands.AssignmentResult) servers.Assignment {
	resp := servers.Assignment{
		OrderId:          r.OrderID.Google(),
		Outcome:          servers.AssignmentOutcome(r.Outcome),
		DeliveryFee:      r.DeliveryFee,
		DistanceKm:       r.DistanceKm,
		EstimatedMinutes: minutes(r.EstimatedTime),
		Note:             optional(r.Note),
	}
	if r.DriverID != nil {
		id := r.DriverID.Google()
		resp.DriverId = &id
	}
	if r.DeliveryID != nil {
		id := r.DeliveryID.Google()
		resp.DeliveryId = &id
	}
	return resp
}

// minutes rounds up, so a non-zero estimate never reads as zero.
func minutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
