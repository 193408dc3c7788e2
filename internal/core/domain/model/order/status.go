package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel wrapped by every InvalidTransitionError.
// Use errors.Is(err, ErrInvalidTransition) to classify lifecycle guard
// violations.
var ErrInvalidTransition = errors.New("invalid order status transition")

// InvalidTransitionError reports a rejected order lifecycle transition.
// The order is left unchanged when this error is returned.
type InvalidTransitionError struct {
	From    Status
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s (current status: %s)", e.Message, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status represents the lifecycle state of an order.
//
// State transitions are strictly forward:
//
//	Pending ──> Assigned ──> Picked ──> Delivered
//
// Delivered is terminal. Status is a value object that validates transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a newly created order,
	// waiting for an assignment run to pick it up.
	Pending

	// Assigned indicates the order belongs to a courier's current route.
	Assigned

	// Picked indicates the courier has collected the order at the depot.
	Picked

	// Delivered indicates the order reached its destination. Terminal.
	Delivered
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		Picked:    "picked",
		Delivered: "delivered",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Assigned:  "assigned",
		Picked:    "picked",
		Delivered: "delivered",
	}
}

// Validate checks if the Status value is one of the four lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire name of the status, or "Unknown" for
// invalid values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses the lowercase wire name of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// ValidateAssign checks that the status allows assignment without performing
// the transition. Only Pending orders can be assigned; there is no
// reassignment once an order entered a route.
func (s Status) ValidateAssign() error {
	if s != Pending {
		return &InvalidTransitionError{From: s, Message: "order must be pending before assignment"}
	}
	return nil
}

// ValidateCanHaveCourier validates the consistency between the order status
// and courier assignment: a Pending order must have no courier, every other
// status must have one.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && s != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}

// Assign transitions Pending -> Assigned.
//
// Returns:
//   - (Assigned, nil) on a valid transition
//   - (0, *InvalidTransitionError) from any other status
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Assigned, nil
}

// Pick transitions Assigned -> Picked.
//
// Returns:
//   - (Picked, nil) on a valid transition
//   - (0, *InvalidTransitionError) from any other status
func (s Status) Pick() (Status, error) {
	if s != Assigned {
		return 0, &InvalidTransitionError{From: s, Message: "order must be assigned before picking"}
	}

	return Picked, nil
}

// Deliver transitions Picked -> Delivered. Delivered is terminal; no further
// transitions are possible.
//
// Returns:
//   - (Delivered, nil) on a valid transition
//   - (0, *InvalidTransitionError) from any other status
func (s Status) Deliver() (Status, error) {
	if s != Picked {
		return 0, &InvalidTransitionError{From: s, Message: "order must be picked before delivery"}
	}

	return Delivered, nil
}
