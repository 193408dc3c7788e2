package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for order construction.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through a constructor function.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrCustomerNameIsRequired is returned when the customer name is empty.
	ErrCustomerNameIsRequired = errs.NewValueIsRequiredError("customerName")
	// ErrPhoneIsRequired is returned when the customer phone is empty.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrAddressIsRequired is returned when the delivery address text is empty.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	// ErrItemsAreRequired is returned when the item list is empty.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root for a delivery order. It carries the customer
// contact, the load the order consumes against a courier's capacity (demand),
// the delivery coordinate, and the lifecycle state.
//
// Invariants:
//   - demand is positive
//   - status transitions are strictly forward (see Status)
//   - courierID is non-nil for every status except Pending
//   - pickupTime and deliveryTime are each set exactly once, by Pick and
//     Deliver respectively
type Order struct {
	id           kernel.UUID
	customerName string
	phone        string
	items        []string
	demand       int
	address      string
	location     kernel.GeoPoint
	courierID    *kernel.UUID
	status       Status
	pickupTime   *time.Time
	deliveryTime *time.Time
	guard        guard.ConstructorGuard
}

// NewOrder creates a fresh Pending order with no courier assigned.
// All inputs are validated; errors are aggregated.
func NewOrder(
	id kernel.UUID,
	customerName string,
	phone string,
	items []string,
	demand int,
	address string,
	location kernel.GeoPoint,
) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setPhone(phone),
		o.setItems(items),
		o.setDemand(demand),
		o.setAddress(address),
		o.setLocation(location),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistent storage, including its
// lifecycle state and timestamps. The status/courier consistency invariant is
// re-checked so corrupt rows cannot produce an invalid aggregate.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	phone string,
	items []string,
	demand int,
	address string,
	location kernel.GeoPoint,
	courierID *kernel.UUID,
	status Status,
	pickupTime *time.Time,
	deliveryTime *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setPhone(phone),
		o.setItems(items),
		o.setDemand(demand),
		o.setAddress(address),
		o.setLocation(location),
		o.setStatus(status, courierID),
	); err != nil {
		return nil, err
	}

	o.pickupTime = pickupTime
	o.deliveryTime = deliveryTime
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerName returns the recipient's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// Phone returns the recipient's phone number.
func (o *Order) Phone() string {
	return o.phone
}

// Items returns a copy of the ordered item list.
func (o *Order) Items() []string {
	out := make([]string, len(o.items))
	copy(out, o.items)
	return out
}

// Demand returns the load this order consumes against a courier's capacity.
func (o *Order) Demand() int {
	return o.demand
}

// Address returns the delivery address text.
func (o *Order) Address() string {
	return o.address
}

// Location returns the delivery coordinate.
func (o *Order) Location() kernel.GeoPoint {
	return o.location
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil while Pending.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// PickupTime returns when the order was picked, or nil.
func (o *Order) PickupTime() *time.Time {
	return o.pickupTime
}

// DeliveryTime returns when the order was delivered, or nil.
func (o *Order) DeliveryTime() *time.Time {
	return o.deliveryTime
}

// ValidateAssign reports whether the order may enter an assignment run.
func (o *Order) ValidateAssign() error {
	return o.status.ValidateAssign()
}

// Assign attaches the order to a courier's route. Only Pending orders can be
// assigned; the courier reference is set exactly once here.
func (o *Order) Assign(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	return nil
}

// Pick records the depot pickup at the given time.
// Fails with an InvalidTransitionError unless the order is Assigned.
func (o *Order) Pick(now time.Time) error {
	newStatus, err := o.status.Pick()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickupTime = &now
	return nil
}

// Deliver records the delivery at the given time.
// Fails with an InvalidTransitionError unless the order is Picked.
func (o *Order) Deliver(now time.Time) error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryTime = &now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerName(name string) error {
	if name == "" {
		return ErrCustomerNameIsRequired
	}
	o.customerName = name
	return nil
}

func (o *Order) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	o.phone = phone
	return nil
}

func (o *Order) setItems(items []string) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	o.items = make([]string, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDemand(demand int) error {
	if demand <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("demand is invalid", fmt.Errorf("%d is not greater than 0", demand))
	}
	o.demand = demand
	return nil
}

func (o *Order) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	o.address = address
	return nil
}

func (o *Order) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
	}

	o.status = status
	o.courierID = courierID
	return nil
}
