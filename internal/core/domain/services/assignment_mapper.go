package services

import (
	"fmt"
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// CourierPlan is the applied outcome of one vehicle route: the courier with
// its new route assigned and the orders moved to assigned status. The command
// layer persists exactly these aggregates.
type CourierPlan struct {
	Courier      *courier.Courier
	Orders       []*order.Order
	DistanceKm   float64
	DemandServed int
}

// MappingWarning records a vehicle route that was skipped instead of applied.
// The orders of a skipped route stay pending and enter the next run.
type MappingWarning struct {
	Vehicle    int
	OrderCount int
	Reason     string
}

// AssignmentOutcome is the result of mapping a solver solution onto the
// aggregates of its routing problem.
type AssignmentOutcome struct {
	Plans           []CourierPlan
	Warnings        []MappingWarning
	TotalDistanceKm float64
}

// AssignmentMapper turns a solver solution back into aggregate mutations.
type AssignmentMapper interface {
	// MapSolution assigns each solved route to its courier. A vehicle index
	// the problem does not know is skipped with a warning; an order ID the
	// problem does not know fails the whole mapping, because that means the
	// solver answered a different problem. Each route's demand is recomputed
	// from its orders, so an answer that underreports demand_served still
	// fails the capacity check. Couriers left without orders are reset to
	// idle at the depot.
	MapSolution(problem *RoutingProblem, solution Solution) (*AssignmentOutcome, error)
}

type assignmentMapper struct{}

// NewAssignmentMapper creates the default mapper.
func NewAssignmentMapper() AssignmentMapper {
	return assignmentMapper{}
}

func (assignmentMapper) MapSolution(problem *RoutingProblem, solution Solution) (*AssignmentOutcome, error) {
	vehicles := make([]int, 0, len(solution.Routes))
	for vehicle := range solution.Routes {
		vehicles = append(vehicles, vehicle)
	}
	sort.Ints(vehicles)

	outcome := &AssignmentOutcome{TotalDistanceKm: solution.TotalDistanceKm}
	routed := make(map[kernel.UUID]struct{}, len(vehicles))

	for _, vehicle := range vehicles {
		route := solution.Routes[vehicle]
		if len(route.Stops) == 0 {
			continue
		}

		assignee, ok := problem.CourierForVehicle(vehicle)
		if !ok {
			outcome.Warnings = append(outcome.Warnings, MappingWarning{
				Vehicle:    vehicle,
				OrderCount: len(route.Stops),
				Reason:     "vehicle index has no matching courier",
			})
			continue
		}

		plan := CourierPlan{
			Courier:    assignee,
			DistanceKm: route.DistanceKm,
		}
		stops := make([]*courier.RouteStop, 0, len(route.Stops))
		routeDemand := 0

		for _, solved := range route.Stops {
			assigned, found := problem.OrderByID(solved.OrderID)
			if !found {
				return nil, fmt.Errorf("solution references order %s that is not part of the problem", solved.OrderID)
			}

			stop, err := courier.NewRouteStop(assigned.ID(), assigned.Location(), assigned.Address())
			if err != nil {
				return nil, err
			}
			stops = append(stops, stop)
			routeDemand += assigned.Demand()

			if err := assigned.Assign(assignee.ID()); err != nil {
				return nil, err
			}
			plan.Orders = append(plan.Orders, assigned)
		}

		// The wire demand_served is advisory; the orders themselves decide
		// whether the route fits the courier.
		plan.DemandServed = routeDemand
		if err := assignee.AssignRoute(stops, routeDemand); err != nil {
			return nil, err
		}
		routed[assignee.ID()] = struct{}{}
		outcome.Plans = append(outcome.Plans, plan)
	}

	for _, unrouted := range problem.Couriers() {
		if _, ok := routed[unrouted.ID()]; !ok {
			unrouted.ResetRoute()
		}
	}

	return outcome, nil
}
