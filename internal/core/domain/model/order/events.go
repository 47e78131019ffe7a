package order

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
)

const (
	StatusChangedEventName         = "order.status_changed"
	ConfirmedEventName             = "order.confirmed"
	EnteredOutForDeliveryEventName = "order.entered_out_for_delivery"
)

type StatusChangedEvent struct {
	ddd.BaseEvent
	OrderID kernel.UUID
	From    Status
	To      Status
}

type ConfirmedEvent struct {
	ddd.BaseEvent
	OrderID kernel.UUID
}

// EnteredOutForDeliveryEvent is the trigger for driver assignment.
type EnteredOutForDeliveryEvent struct {
	ddd.BaseEvent
	OrderID kernel.UUID
}
