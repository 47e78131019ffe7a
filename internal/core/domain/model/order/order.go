package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")

	// ErrNotAwaitingAssignment is returned when a driver is attached to an order
	// that is not out for delivery or already has one.
	ErrNotAwaitingAssignment = errors.New("order is not awaiting a driver")
)

// Order is the aggregate root of the ordering flow.
//
// Invariants:
//   - status only moves along the edges of the transition table
//   - the delivery fee, once finalized, never changes
//   - a driver is attached only while out_for_delivery, and at most once
type Order struct {
	ddd.AggregateRoot

	id              kernel.UUID
	restaurantID    kernel.UUID
	customerID      kernel.UUID
	shippingAddress kernel.Address
	totalAmount     decimal.Decimal
	status          Status

	deliveryFee *decimal.Decimal
	feeSource   FeeSource

	// pickup and dropoff cache geocoding results so retries skip the geocoder
	pickup  *kernel.Location
	dropoff *kernel.Location

	assignment         AssignmentStatus
	assignmentAttempts int
	assignmentNote     string
	driverID           *kernel.UUID
	deliveryID         *kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrder creates an order in the pending state without a delivery fee.
func NewOrder(
	id, restaurantID, customerID kernel.UUID,
	shippingAddress kernel.Address,
	totalAmount decimal.Decimal,
) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setRestaurantID(restaurantID),
		o.setCustomerID(customerID),
		o.setShippingAddress(shippingAddress),
		o.setTotalAmount(totalAmount),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// Snapshot is the persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	RestaurantID       kernel.UUID
	CustomerID         kernel.UUID
	ShippingAddress    kernel.Address
	TotalAmount        decimal.Decimal
	Status             Status
	DeliveryFee        *decimal.Decimal
	FeeSource          FeeSource
	Pickup             *kernel.Location
	Dropoff            *kernel.Location
	Assignment         AssignmentStatus
	AssignmentAttempts int
	AssignmentNote     string
	DriverID           *kernel.UUID
	DeliveryID         *kernel.UUID
}

// RestoreOrder rebuilds an order from storage. No events are raised.
func RestoreOrder(s Snapshot) (*Order, error) {
	o, err := NewOrder(s.ID, s.RestaurantID, s.CustomerID, s.ShippingAddress, s.TotalAmount)
	if err != nil {
		return nil, err
	}
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.DeliveryFee != nil && s.FeeSource == FeeUnset {
		return nil, errs.NewValueIsRequiredError("feeSource")
	}

	o.status = s.Status
	o.deliveryFee = s.DeliveryFee
	o.feeSource = s.FeeSource
	o.pickup = s.Pickup
	o.dropoff = s.Dropoff
	o.assignment = s.Assignment
	o.assignmentAttempts = s.AssignmentAttempts
	o.assignmentNote = s.AssignmentNote
	o.driverID = s.DriverID
	o.deliveryID = s.DeliveryID
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) ShippingAddress() kernel.Address {
	return o.shippingAddress
}

func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) FeeSource() FeeSource {
	return o.feeSource
}

func (o *Order) Assignment() AssignmentStatus {
	return o.assignment
}

func (o *Order) AssignmentAttempts() int {
	return o.assignmentAttempts
}

func (o *Order) AssignmentNote() string {
	return o.assignmentNote
}

func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

func (o *Order) DeliveryID() *kernel.UUID {
	return o.deliveryID
}

// DeliveryFee returns the finalized fee, or false if none was finalized yet.
func (o *Order) DeliveryFee() (decimal.Decimal, bool) {
	if o.deliveryFee == nil {
		return decimal.Zero, false
	}
	return *o.deliveryFee, true
}

// GrandTotal is the order total plus the delivery fee, counting an unset fee as zero.
func (o *Order) GrandTotal() decimal.Decimal {
	fee, _ := o.DeliveryFee()
	return o.totalAmount.Add(fee)
}

// Route returns the cached pickup and dropoff coordinates.
func (o *Order) Route() (pickup, dropoff kernel.Location, ok bool) {
	if o.pickup == nil || o.dropoff == nil {
		return kernel.Location{}, kernel.Location{}, false
	}
	return *o.pickup, *o.dropoff, true
}

// ChangeStatus moves the order along one edge of the state machine. A rejected
// transition leaves the order untouched and returns an *InvalidTransitionError.
func (o *Order) ChangeStatus(next Status) error {
	if err := o.Validate(); err != nil {
		return err
	}
	from := o.status
	to, err := from.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = to
	o.RaiseDomainEvent(StatusChangedEvent{
		BaseEvent: ddd.NewBaseEvent(StatusChangedEventName),
		OrderID:   o.id,
		From:      from,
		To:        to,
	})

	switch to { //nolint:exhaustive // only these states have side effects
	case Confirmed:
		o.RaiseDomainEvent(ConfirmedEvent{
			BaseEvent: ddd.NewBaseEvent(ConfirmedEventName),
			OrderID:   o.id,
		})
	case OutForDelivery:
		o.assignment = AssignmentPending
		o.RaiseDomainEvent(EnteredOutForDeliveryEvent{
			BaseEvent: ddd.NewBaseEvent(EnteredOutForDeliveryEventName),
			OrderID:   o.id,
		})
	}
	return nil
}

// FinalizeDeliveryFee stores the fee unless one is already finalized, in which
// case it reports false and keeps the existing fee.
func (o *Order) FinalizeDeliveryFee(fee decimal.Decimal, source FeeSource) (bool, error) {
	if fee.IsNegative() {
		return false, errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("%s is negative", fee.String()))
	}
	if source == FeeUnset {
		return false, errs.NewValueIsRequiredError("feeSource")
	}
	if o.deliveryFee != nil {
		return false, nil
	}
	if o.status.IsTerminal() {
		return false, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot set a delivery fee on a %s order", o.status))
	}

	o.deliveryFee = &fee
	o.feeSource = source
	return true, nil
}

// CacheRoute remembers the geocoded pickup and dropoff points.
func (o *Order) CacheRoute(pickup, dropoff kernel.Location) error {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return err
	}
	o.pickup = &pickup
	o.dropoff = &dropoff
	return nil
}

// ValidateAwaitingDriver checks that a driver may be attached now.
func (o *Order) ValidateAwaitingDriver() error {
	if o.status != OutForDelivery || o.assignment == AssignmentAssigned {
		return fmt.Errorf("%w: status %s, assignment %s", ErrNotAwaitingAssignment, o.status, o.assignment)
	}
	return nil
}

// RecordFailedAssignment notes an unsuccessful automatic attempt. Once
// maxAttempts is reached (when positive) the order needs manual intervention.
func (o *Order) RecordFailedAssignment(note string, maxAttempts int) (AssignmentStatus, error) {
	if err := o.ValidateAwaitingDriver(); err != nil {
		return o.assignment, err
	}
	o.assignmentAttempts++
	o.assignmentNote = note
	o.assignment = AssignmentPending
	if maxAttempts > 0 && o.assignmentAttempts >= maxAttempts {
		o.assignment = AssignmentManual
	}
	return o.assignment, nil
}

// RequireManualIntervention flags the order for an operator.
func (o *Order) RequireManualIntervention(note string) error {
	if err := o.ValidateAwaitingDriver(); err != nil {
		return err
	}
	o.assignment = AssignmentManual
	o.assignmentNote = note
	return nil
}

// AssignDriver attaches the driver and the delivery created for it.
func (o *Order) AssignDriver(driverID, deliveryID kernel.UUID) error {
	if err := errors.Join(driverID.Validate(), deliveryID.Validate()); err != nil {
		return err
	}
	if err := o.ValidateAwaitingDriver(); err != nil {
		return err
	}
	o.assignment = AssignmentAssigned
	o.assignmentNote = ""
	o.driverID = &driverID
	o.deliveryID = &deliveryID
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setShippingAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.shippingAddress = address
	return nil
}

func (o *Order) setTotalAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%s is negative", amount.String()))
	}
	o.totalAmount = amount
	return nil
}
