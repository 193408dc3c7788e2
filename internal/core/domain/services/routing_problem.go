package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Validation errors reported before a solver run is attempted.
var (
	// ErrNoPendingOrders is returned when an assignment run finds nothing to route.
	ErrNoPendingOrders = errors.New("no pending orders to assign")
	// ErrNoAvailableCouriers is returned when the whole fleet is out on routes.
	ErrNoAvailableCouriers = errors.New("no available couriers")
	// ErrNoActiveDepot is returned when no depot has been configured yet.
	ErrNoActiveDepot = errors.New("no active depot configured")
)

// CapacityExceededError is returned when the pending demand cannot fit into
// the available fleet even in the best case.
type CapacityExceededError struct {
	TotalDemand   int
	FleetCapacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("total demand %d exceeds fleet capacity %d", e.TotalDemand, e.FleetCapacity)
}

// RoutingProblem is a validated snapshot of one assignment run's input: the
// active depot, the pending orders and the available couriers. The courier
// slice order defines the vehicle numbering handed to the solver, so the
// mapping from vehicle index back to courier is explicit and survives any
// later change to the courier set.
type RoutingProblem struct {
	depot    kernel.GeoPoint
	orders   []*order.Order
	couriers []*courier.Courier
}

// NewRoutingProblem validates the run input and freezes the vehicle-to-courier
// numbering. Orders must all be pending, couriers must all be available, and
// the total demand must fit the summed fleet capacity.
func NewRoutingProblem(
	activeDepot *depot.Depot,
	orders []*order.Order,
	couriers []*courier.Courier,
) (*RoutingProblem, error) {
	if err := activeDepot.Validate(); err != nil {
		return nil, ErrNoActiveDepot
	}
	if len(orders) == 0 {
		return nil, ErrNoPendingOrders
	}
	if len(couriers) == 0 {
		return nil, ErrNoAvailableCouriers
	}

	totalDemand := 0
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if err := o.ValidateAssign(); err != nil {
			return nil, err
		}
		totalDemand += o.Demand()
	}

	fleetCapacity := 0
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.Available() {
			return nil, fmt.Errorf("courier %s: %w", c.ID(), ErrNoAvailableCouriers)
		}
		fleetCapacity += c.Capacity()
	}

	if totalDemand > fleetCapacity {
		return nil, &CapacityExceededError{TotalDemand: totalDemand, FleetCapacity: fleetCapacity}
	}

	p := &RoutingProblem{
		depot:    activeDepot.Location(),
		orders:   make([]*order.Order, len(orders)),
		couriers: make([]*courier.Courier, len(couriers)),
	}
	copy(p.orders, orders)
	copy(p.couriers, couriers)
	return p, nil
}

// Depot returns the coordinate all routes start and end at.
func (p *RoutingProblem) Depot() kernel.GeoPoint {
	return p.depot
}

// Orders returns the pending orders of the run.
func (p *RoutingProblem) Orders() []*order.Order {
	return p.orders
}

// OrderByID finds an order of the run by its identifier.
func (p *RoutingProblem) OrderByID(id kernel.UUID) (*order.Order, bool) {
	for _, o := range p.orders {
		if o.ID().IsEqual(id) {
			return o, true
		}
	}
	return nil, false
}

// VehicleCount returns the number of vehicles presented to the solver.
func (p *RoutingProblem) VehicleCount() int {
	return len(p.couriers)
}

// VehicleCapacities returns the per-vehicle capacities in vehicle order.
func (p *RoutingProblem) VehicleCapacities() []int {
	out := make([]int, len(p.couriers))
	for i, c := range p.couriers {
		out[i] = c.Capacity()
	}
	return out
}

// CourierForVehicle resolves a solver vehicle index back to its courier.
func (p *RoutingProblem) CourierForVehicle(vehicle int) (*courier.Courier, bool) {
	if vehicle < 0 || vehicle >= len(p.couriers) {
		return nil, false
	}
	return p.couriers[vehicle], true
}

// Couriers returns the available couriers of the run in vehicle order.
func (p *RoutingProblem) Couriers() []*courier.Courier {
	return p.couriers
}
