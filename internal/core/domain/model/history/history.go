// Package history provides the immutable DeliveryHistory record written once
// per completed round: the span from a courier's assignment until all of its
// orders reach delivered status.
package history

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// OnTimeWindow is how long after pickup a delivery still counts as on time
// in the performance block.
const OnTimeWindow = 45 * time.Minute

// ErrRecordIsNotConstructed is returned when using an improperly initialized Record.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")

// Performance summarizes a completed round.
type Performance struct {
	// OrdersDelivered is the number of orders completed in the round.
	OrdersDelivered int
	// OnTimeDeliveries counts deliveries within OnTimeWindow of their pickup.
	OnTimeDeliveries int
	// AverageDeliveryMin is the mean pickup-to-delivery span in minutes.
	AverageDeliveryMin float64
}

// Record is the immutable snapshot of one completed round. It captures the
// courier, the full order set of the round, the route as it stood immediately
// before the courier's reset, totals, and a performance block. Records are
// created exactly once per round and never mutated.
type Record struct {
	id              kernel.UUID
	courierID       kernel.UUID
	orderIDs        []kernel.UUID
	route           []*courier.RouteStop
	totalDistanceKm float64
	totalTimeMin    float64
	completedAt     time.Time
	performance     Performance
	guard           guard.ConstructorGuard
}

// NewRecord creates the history record for a completed round.
// The order set must be non-empty; the route is the courier's route snapshot
// taken before ResetRoute.
func NewRecord(
	id kernel.UUID,
	courierID kernel.UUID,
	orderIDs []kernel.UUID,
	route []*courier.RouteStop,
	totalDistanceKm float64,
	totalTimeMin float64,
	completedAt time.Time,
	performance Performance,
) (*Record, error) {
	r := &Record{
		totalDistanceKm: totalDistanceKm,
		totalTimeMin:    totalTimeMin,
		completedAt:     completedAt,
		performance:     performance,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setCourierID(courierID),
		r.setOrderIDs(orderIDs),
		r.setRoute(route),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRecord reconstructs a history record from persistent storage.
func RestoreRecord(
	id kernel.UUID,
	courierID kernel.UUID,
	orderIDs []kernel.UUID,
	route []*courier.RouteStop,
	totalDistanceKm float64,
	totalTimeMin float64,
	completedAt time.Time,
	performance Performance,
) (*Record, error) {
	return NewRecord(id, courierID, orderIDs, route, totalDistanceKm, totalTimeMin, completedAt, performance)
}

// Validate ensures the Record was created through a constructor.
func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// CourierID returns the courier that completed the round.
func (r *Record) CourierID() kernel.UUID {
	return r.courierID
}

// OrderIDs returns a copy of the round's full order set.
func (r *Record) OrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(r.orderIDs))
	copy(out, r.orderIDs)
	return out
}

// Route returns a copy of the route snapshot taken at completion time.
func (r *Record) Route() []*courier.RouteStop {
	out := make([]*courier.RouteStop, len(r.route))
	copy(out, r.route)
	return out
}

// TotalDistanceKm returns the round's total travel distance.
func (r *Record) TotalDistanceKm() float64 {
	return r.totalDistanceKm
}

// TotalTimeMin returns the round's total travel time in minutes.
func (r *Record) TotalTimeMin() float64 {
	return r.totalTimeMin
}

// CompletedAt returns when the last order of the round was delivered.
func (r *Record) CompletedAt() time.Time {
	return r.completedAt
}

// Performance returns the computed performance block.
func (r *Record) Performance() Performance {
	return r.performance
}

func (r *Record) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Record) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	r.courierID = courierID
	return nil
}

func (r *Record) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return errs.NewValueIsRequiredError("orderIDs")
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return fmt.Errorf("order ID in history record: %w", err)
		}
	}
	r.orderIDs = make([]kernel.UUID, len(orderIDs))
	copy(r.orderIDs, orderIDs)
	return nil
}

func (r *Record) setRoute(route []*courier.RouteStop) error {
	for _, stop := range route {
		if err := stop.Validate(); err != nil {
			return err
		}
	}
	r.route = make([]*courier.RouteStop, len(route))
	copy(r.route, route)
	return nil
}
