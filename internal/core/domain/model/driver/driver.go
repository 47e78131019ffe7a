package driver

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrDriverIsNotConstructed = errors.New("driver must be created via NewDriver or RestoreDriver")
	ErrDriverUnavailable      = errors.New("driver is not available")
	ErrDriverHasActiveOrders  = errors.New("driver has active orders")
	ErrOrderIsNotActive       = errors.New("order is not active for this driver")
)

type Driver struct {
	ddd.AggregateRoot

	id           kernel.UUID
	name         string
	location     kernel.Location
	available    bool
	activeOrders []kernel.UUID
	// version is the optimistic concurrency counter maintained by storage
	version int
	guard   guard.ConstructorGuard
}

// NewDriver registers an available driver with no active orders.
func NewDriver(id kernel.UUID, name string, location kernel.Location) (*Driver, error) {
	d := &Driver{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(d.setID(id), d.setName(name), d.setLocation(location)); err != nil {
		return nil, err
	}
	d.raise(RegisteredEventName)
	return d, nil
}

func RestoreDriver(
	id kernel.UUID,
	name string,
	location kernel.Location,
	available bool,
	activeOrders []kernel.UUID,
	version int,
) (*Driver, error) {
	d := &Driver{guard: guard.NewConstructorGuard()}
	if err := errors.Join(d.setID(id), d.setName(name), d.setLocation(location)); err != nil {
		return nil, err
	}
	if available && len(activeOrders) > 0 {
		return nil, fmt.Errorf("restore driver %s: %w", id, ErrDriverHasActiveOrders)
	}
	d.available = available
	d.activeOrders = slices.Clone(activeOrders)
	d.version = version
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Location() kernel.Location {
	return d.location
}

func (d *Driver) IsAvailable() bool {
	return d.available
}

func (d *Driver) ActiveOrders() []kernel.UUID {
	return slices.Clone(d.activeOrders)
}

func (d *Driver) Version() int {
	return d.version
}

func (d *Driver) Position() Position {
	return Position{DriverID: d.id, Location: d.location, Available: d.available, Version: d.version}
}

// MoveTo records a new location reported by the driver.
func (d *Driver) MoveTo(location kernel.Location) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := d.setLocation(location); err != nil {
		return err
	}
	d.raise(LocationChangedEventName)
	return nil
}

// SetAvailability toggles the driver on or off shift. Going available while
// still carrying orders is rejected.
func (d *Driver) SetAvailability(available bool) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if available && len(d.activeOrders) > 0 {
		return ErrDriverHasActiveOrders
	}
	if d.available == available {
		return nil
	}
	d.available = available
	d.raise(AvailabilityChangedEventName)
	return nil
}

// AcceptOrder takes an order and makes the driver unavailable.
func (d *Driver) AcceptOrder(orderID kernel.UUID) error {
	if err := errors.Join(d.Validate(), orderID.Validate()); err != nil {
		return err
	}
	if !d.available {
		return ErrDriverUnavailable
	}
	d.activeOrders = append(d.activeOrders, orderID)
	d.available = false
	d.raise(AvailabilityChangedEventName)
	return nil
}

// CompleteOrder drops a delivered order. The driver is available again once
// nothing is left to carry.
func (d *Driver) CompleteOrder(orderID kernel.UUID) error {
	if err := d.Validate(); err != nil {
		return err
	}
	idx := slices.IndexFunc(d.activeOrders, orderID.IsEqual)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrOrderIsNotActive, orderID)
	}
	d.activeOrders = slices.Delete(d.activeOrders, idx, idx+1)
	if len(d.activeOrders) == 0 {
		d.available = true
		d.raise(AvailabilityChangedEventName)
	}
	return nil
}

// raise records a state change. Every write after registration bumps the
// stored version by one, so changes carry the version they will be stored at.
func (d *Driver) raise(name string) {
	p := d.Position()
	if name != RegisteredEventName {
		p.Version = d.version + 1
	}
	d.RaiseDomainEvent(StateChangedEvent{BaseEvent: ddd.NewBaseEvent(name), Position: p})
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}
