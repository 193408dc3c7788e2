package courier

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrRouteStopIsNotConstructed is returned when using an improperly
// initialized RouteStop.
var ErrRouteStopIsNotConstructed = errors.New(
	"RouteStop must be created via NewRouteStop or RestoreRouteStop constructor")

// StopStatus mirrors the pickup/delivery progress of the order a stop points
// at. A stop starts pending, becomes picked when the courier collects the
// order at the depot, and delivered when it is dropped off.
type StopStatus int

const (
	// StopUnknown represents an invalid or undefined stop status.
	StopUnknown StopStatus = iota

	// StopPending means the order has not been picked up yet.
	StopPending

	// StopPicked means the order is on board.
	StopPicked

	// StopDelivered means the order reached its destination.
	StopDelivered
)

func getStopStatusStrings() map[StopStatus]string {
	return map[StopStatus]string{
		StopUnknown:   "Unknown",
		StopPending:   "pending",
		StopPicked:    "picked",
		StopDelivered: "delivered",
	}
}

// Validate checks if the StopStatus is one of the three valid states.
func (s StopStatus) Validate() error {
	if s != StopPending && s != StopPicked && s != StopDelivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"stop status is invalid", fmt.Errorf("%d is not a valid stop status", s))
	}
	return nil
}

// String returns the lowercase wire name of the status, or "Unknown" for
// invalid values. Implements fmt.Stringer.
func (s StopStatus) String() string {
	if str, ok := getStopStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StopStatusFromString parses the lowercase wire name of a stop status.
func StopStatusFromString(s string) (StopStatus, error) {
	for status, str := range getStopStatusStrings() {
		if status != StopUnknown && str == s {
			return status, nil
		}
	}
	return StopUnknown, errs.NewValueIsInvalidErrorWithCause(
		"stop status is invalid", fmt.Errorf("%q is not a valid stop status", s))
}

// RouteStop is a single point in a courier's route: the coordinate of one
// order's delivery address, carrying its own progress status. Stops are owned
// by the Courier aggregate and only mutated through it.
type RouteStop struct {
	orderID  kernel.UUID
	location kernel.GeoPoint
	address  string
	status   StopStatus
	guard    guard.ConstructorGuard
}

// NewRouteStop creates a pending stop for the given order.
func NewRouteStop(orderID kernel.UUID, location kernel.GeoPoint, address string) (*RouteStop, error) {
	stop := &RouteStop{
		status: StopPending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setOrderID(orderID),
		stop.setLocation(location),
	); err != nil {
		return nil, err
	}

	stop.address = address
	return stop, nil
}

// RestoreRouteStop reconstructs a stop from persistent storage with its
// persisted progress status.
func RestoreRouteStop(
	orderID kernel.UUID,
	location kernel.GeoPoint,
	address string,
	status StopStatus,
) (*RouteStop, error) {
	stop := &RouteStop{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setOrderID(orderID),
		stop.setLocation(location),
		stop.setStatus(status),
	); err != nil {
		return nil, err
	}

	stop.address = address
	return stop, nil
}

// Validate ensures the RouteStop was created through a constructor.
func (s *RouteStop) Validate() error {
	if s == nil {
		return ErrRouteStopIsNotConstructed
	}
	return s.guard.Validate(ErrRouteStopIsNotConstructed)
}

// OrderID returns the order this stop delivers.
func (s *RouteStop) OrderID() kernel.UUID {
	return s.orderID
}

// Location returns the stop coordinate.
func (s *RouteStop) Location() kernel.GeoPoint {
	return s.location
}

// Address returns the stop address text.
func (s *RouteStop) Address() string {
	return s.address
}

// Status returns the stop's progress status.
func (s *RouteStop) Status() StopStatus {
	return s.status
}

// markPicked advances the stop to picked. Called by the owning Courier.
func (s *RouteStop) markPicked() error {
	if s.status != StopPending {
		return errs.NewValueIsInvalidErrorWithCause(
			"stop status is invalid",
			fmt.Errorf("%s is not a valid status to pick from", s.status))
	}
	s.status = StopPicked
	return nil
}

// markDelivered advances the stop to delivered. Called by the owning Courier.
func (s *RouteStop) markDelivered() error {
	if s.status != StopPicked {
		return errs.NewValueIsInvalidErrorWithCause(
			"stop status is invalid",
			fmt.Errorf("%s is not a valid status to deliver from", s.status))
	}
	s.status = StopDelivered
	return nil
}

func (s *RouteStop) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.orderID = orderID
	return nil
}

func (s *RouteStop) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	s.location = location
	return nil
}

func (s *RouteStop) setStatus(status StopStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}
