package delivery

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("delivery must be created via NewDelivery or RestoreDelivery")
	ErrAlreadyDelivered         = errors.New("delivery is already completed")
)

// Delivery is created exactly once per successful assignment.
type Delivery struct {
	ddd.AggregateRoot

	id            kernel.UUID
	orderID       kernel.UUID
	driverID      kernel.UUID
	pickup        kernel.Location
	dropoff       kernel.Location
	distanceKm    float64
	estimatedTime time.Duration
	status        Status
	assignedAt    time.Time
	deliveredAt   *time.Time
	guard         guard.ConstructorGuard
}

// Route is the computed trip a delivery is created for.
type Route struct {
	Pickup        kernel.Location
	Dropoff       kernel.Location
	DistanceKm    float64
	EstimatedTime time.Duration
}

func NewDelivery(id, orderID, driverID kernel.UUID, route Route, now time.Time) (*Delivery, error) {
	d := &Delivery{
		status:     Active,
		assignedAt: now.UTC(),
		guard:      guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		driverID.Validate(),
		d.setRoute(route),
	); err != nil {
		return nil, err
	}
	d.id, d.orderID, d.driverID = id, orderID, driverID

	d.RaiseDomainEvent(AssignedEvent{
		BaseEvent:     ddd.NewBaseEvent(AssignedEventName),
		DeliveryID:    d.id,
		OrderID:       d.orderID,
		DriverID:      d.driverID,
		Pickup:        d.pickup,
		Dropoff:       d.dropoff,
		DistanceKm:    d.distanceKm,
		EstimatedTime: d.estimatedTime,
	})
	return d, nil
}

func RestoreDelivery(
	id, orderID, driverID kernel.UUID,
	route Route,
	status Status,
	assignedAt time.Time,
	deliveredAt *time.Time,
) (*Delivery, error) {
	d := &Delivery{guard: guard.NewConstructorGuard()}
	if err := errors.Join(id.Validate(), orderID.Validate(), driverID.Validate(), d.setRoute(route)); err != nil {
		return nil, err
	}
	if status != Active && status != Delivered {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%d is not a valid status", status))
	}
	d.id, d.orderID, d.driverID = id, orderID, driverID
	d.status = status
	d.assignedAt = assignedAt
	d.deliveredAt = deliveredAt
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) DriverID() kernel.UUID {
	return d.driverID
}

func (d *Delivery) Pickup() kernel.Location {
	return d.pickup
}

func (d *Delivery) Dropoff() kernel.Location {
	return d.dropoff
}

func (d *Delivery) DistanceKm() float64 {
	return d.distanceKm
}

func (d *Delivery) EstimatedTime() time.Duration {
	return d.estimatedTime
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) AssignedAt() time.Time {
	return d.assignedAt
}

func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// Complete marks the delivery as handed over to the customer.
func (d *Delivery) Complete(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status == Delivered {
		return ErrAlreadyDelivered
	}
	at := now.UTC()
	d.status = Delivered
	d.deliveredAt = &at
	d.RaiseDomainEvent(CompletedEvent{
		BaseEvent:  ddd.NewBaseEvent(CompletedEventName),
		DeliveryID: d.id,
		OrderID:    d.orderID,
		DriverID:   d.driverID,
	})
	return nil
}

func (d *Delivery) setRoute(r Route) error {
	if err := errors.Join(r.Pickup.Validate(), r.Dropoff.Validate()); err != nil {
		return err
	}
	if math.IsNaN(r.DistanceKm) || r.DistanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm", fmt.Errorf("%v is not a distance", r.DistanceKm))
	}
	if r.EstimatedTime < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedTime", fmt.Errorf("%v is negative", r.EstimatedTime))
	}
	d.pickup = r.Pickup
	d.dropoff = r.Dropoff
	d.distanceKm = r.DistanceKm
	d.estimatedTime = r.EstimatedTime
	return nil
}
