package driver

import "dispatch/internal/pkg/ddd"

const (
	RegisteredEventName          = "driver.registered"
	LocationChangedEventName     = "driver.location_changed"
	AvailabilityChangedEventName = "driver.availability_changed"
)

// StateChangedEvent carries the driver position after a change. It is raised under
// RegisteredEventName, LocationChangedEventName or AvailabilityChangedEventName.
type StateChangedEvent struct {
	ddd.BaseEvent
	Position Position
}
