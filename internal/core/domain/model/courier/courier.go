package courier

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a courier without a phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New(
		"Courier must be created via NewCourier or RestoreCourier constructor")
)

// Courier is the aggregate root for a delivery courier. It owns the ordered
// route of stops produced by an assignment run and the availability pair that
// tracks whether the courier is idle at the depot or out on a route.
//
// Invariants:
//   - capacity is positive
//   - available and atDepot flip together: (true,true) when idle at the
//     depot, (false,false) while a route is in progress
//   - the assigned order set is exactly the route's not-yet-delivered stops,
//     in solver-assigned visiting order
type Courier struct {
	id              kernel.UUID
	name            string
	phone           string
	capacity        int
	available       bool
	atDepot         bool
	route           []*RouteStop
	currentLocation *kernel.GeoPoint
	lastActive      time.Time
	guard           guard.ConstructorGuard
}

// NewCourier creates a courier idle at the depot with an empty route.
func NewCourier(id kernel.UUID, name string, phone string, capacity int) (*Courier, error) {
	c := &Courier{
		available:  true,
		atDepot:    true,
		lastActive: time.Now().UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier aggregate from persistent storage,
// including its route and availability state.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	capacity int,
	available bool,
	atDepot bool,
	route []*RouteStop,
	currentLocation *kernel.GeoPoint,
	lastActive time.Time,
) (*Courier, error) {
	c := &Courier{
		available:  available,
		atDepot:    atDepot,
		lastActive: lastActive,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setCapacity(capacity),
		c.setRoute(route),
		c.setCurrentLocation(currentLocation),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's phone number.
func (c *Courier) Phone() string {
	return c.phone
}

// Capacity returns the maximum total demand the courier can carry.
func (c *Courier) Capacity() int {
	return c.capacity
}

// Available reports whether the courier can receive a new route.
func (c *Courier) Available() bool {
	return c.available
}

// IsAtDepot reports whether the courier is at the depot.
func (c *Courier) IsAtDepot() bool {
	return c.atDepot
}

// Route returns a copy of the current route's stop list.
func (c *Courier) Route() []*RouteStop {
	out := make([]*RouteStop, len(c.route))
	copy(out, c.route)
	return out
}

// CurrentLocation returns the courier's last known position, or nil.
func (c *Courier) CurrentLocation() *kernel.GeoPoint {
	return c.currentLocation
}

// LastActive returns when the courier last acted on its route.
func (c *Courier) LastActive() time.Time {
	return c.lastActive
}

// AssignedOrders returns the order IDs the courier still has to deliver, in
// route order. Delivered stops drop out of this set while remaining in the
// route until the round completes.
func (c *Courier) AssignedOrders() []kernel.UUID {
	out := make([]kernel.UUID, 0, len(c.route))
	for _, stop := range c.route {
		if stop.Status() != StopDelivered {
			out = append(out, stop.OrderID())
		}
	}
	return out
}

// RoundOrderIDs returns every order ID in the current route regardless of
// progress. This is the order set a DeliveryHistory record captures.
func (c *Courier) RoundOrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, 0, len(c.route))
	for _, stop := range c.route {
		out = append(out, stop.OrderID())
	}
	return out
}

// HasUndeliveredStops reports whether any stop is still pending or picked.
func (c *Courier) HasUndeliveredStops() bool {
	for _, stop := range c.route {
		if stop.Status() != StopDelivered {
			return true
		}
	}
	return false
}

// AssignRoute hands the courier a new route produced by an assignment run.
// The courier must be available and the served demand must fit its capacity.
// On success the courier leaves the depot: available=false, atDepot=false.
func (c *Courier) AssignRoute(stops []*RouteStop, demandServed int) error {
	if !c.available {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier is invalid",
			fmt.Errorf("courier %s is not available for a new route", c.id))
	}
	if demandServed > c.capacity {
		return errs.NewValueIsOutOfRangeError("demandServed", demandServed, 0, c.capacity)
	}
	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return err
		}
	}

	c.route = make([]*RouteStop, len(stops))
	copy(c.route, stops)
	c.available = false
	c.atDepot = false
	return nil
}

// ResetRoute clears the route and returns the courier to the depot:
// available=true, atDepot=true. Used for couriers left without orders by an
// assignment run and when a round completes.
func (c *Courier) ResetRoute() {
	c.route = nil
	c.available = true
	c.atDepot = true
}

// MarkStopPicked records the depot pickup of the given order on the route.
// Returns an ObjectNotFoundError if the order has no stop on this route.
func (c *Courier) MarkStopPicked(orderID kernel.UUID, now time.Time) error {
	stop, err := c.findStop(orderID)
	if err != nil {
		return err
	}
	if err := stop.markPicked(); err != nil {
		return err
	}

	c.lastActive = now
	return nil
}

// MarkStopDelivered records the delivery of the given order on the route and
// moves the courier's last known position to the stop coordinate.
// Returns an ObjectNotFoundError if the order has no stop on this route.
func (c *Courier) MarkStopDelivered(orderID kernel.UUID, now time.Time) error {
	stop, err := c.findStop(orderID)
	if err != nil {
		return err
	}
	if err := stop.markDelivered(); err != nil {
		return err
	}

	location := stop.Location()
	c.currentLocation = &location
	c.lastActive = now
	return nil
}

func (c *Courier) findStop(orderID kernel.UUID) (*RouteStop, error) {
	for _, stop := range c.route {
		if stop.OrderID().IsEqual(orderID) {
			return stop, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID.String())
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	c.phone = phone
	return nil
}

func (c *Courier) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"capacity is invalid", fmt.Errorf("%d is not greater than 0", capacity))
	}
	c.capacity = capacity
	return nil
}

func (c *Courier) setRoute(route []*RouteStop) error {
	for _, stop := range route {
		if err := stop.Validate(); err != nil {
			return err
		}
	}
	c.route = make([]*RouteStop, len(route))
	copy(c.route, route)
	return nil
}

func (c *Courier) setCurrentLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	c.currentLocation = location
	return nil
}
