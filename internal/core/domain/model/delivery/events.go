package delivery

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
)

const (
	AssignedEventName  = "delivery.assigned"
	CompletedEventName = "delivery.completed"
)

type AssignedEvent struct {
	ddd.BaseEvent
	DeliveryID    kernel.UUID
	OrderID       kernel.UUID
	DriverID      kernel.UUID
	Pickup        kernel.Location
	Dropoff       kernel.Location
	DistanceKm    float64
	EstimatedTime time.Duration
}

type CompletedEvent struct {
	ddd.BaseEvent
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	DriverID   kernel.UUID
}
