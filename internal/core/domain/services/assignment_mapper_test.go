package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solutionFor(orders []*order.Order, vehicle int, distanceKm float64) services.Solution {
	stops := make([]services.SolutionStop, 0, len(orders))
	demand := 0
	for _, o := range orders {
		stops = append(stops, services.SolutionStop{OrderID: o.ID(), Location: o.Location()})
		demand += o.Demand()
	}
	return services.Solution{
		Routes: map[int]services.VehicleRoute{
			vehicle: {Stops: stops, DistanceKm: distanceKm, DemandServed: demand},
		},
		TotalDistanceKm: distanceKm,
	}
}

func TestAssignmentMapper_MapSolution(t *testing.T) {
	mapper := services.NewAssignmentMapper()

	t.Run("should assign route and orders to the vehicle's courier", func(t *testing.T) {
		assignee := newTestCourier(t, "Alice", 10)
		orders := []*order.Order{newTestOrder(t, 3), newTestOrder(t, 4)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{assignee})
		require.NoError(t, err)

		outcome, err := mapper.MapSolution(problem, solutionFor(orders, 0, 12.5))

		require.NoError(t, err)
		require.Len(t, outcome.Plans, 1)
		assert.Empty(t, outcome.Warnings)

		plan := outcome.Plans[0]
		assert.True(t, plan.Courier.IsEqual(assignee))
		assert.Equal(t, 7, plan.DemandServed)
		assert.InDelta(t, 12.5, plan.DistanceKm, 1e-9)

		assert.False(t, assignee.Available())
		assert.False(t, assignee.IsAtDepot())
		require.Len(t, assignee.Route(), 2)
		assert.True(t, assignee.Route()[0].OrderID().IsEqual(orders[0].ID()))

		for _, o := range orders {
			assert.Equal(t, order.Assigned, o.Status())
			require.NotNil(t, o.Courier())
			assert.True(t, o.Courier().IsEqual(assignee.ID()))
		}
	})

	t.Run("should skip unknown vehicle index with a warning", func(t *testing.T) {
		assignee := newTestCourier(t, "Alice", 10)
		orders := []*order.Order{newTestOrder(t, 2)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{assignee})
		require.NoError(t, err)

		outcome, err := mapper.MapSolution(problem, solutionFor(orders, 7, 3.0))

		require.NoError(t, err)
		assert.Empty(t, outcome.Plans)
		require.Len(t, outcome.Warnings, 1)
		assert.Equal(t, 7, outcome.Warnings[0].Vehicle)
		assert.Equal(t, 1, outcome.Warnings[0].OrderCount)

		// Skipped orders stay pending and the courier stays idle.
		assert.Equal(t, order.Pending, orders[0].Status())
		assert.True(t, assignee.Available())
	})

	t.Run("should fail on order ID the problem does not know", func(t *testing.T) {
		assignee := newTestCourier(t, "Alice", 10)
		orders := []*order.Order{newTestOrder(t, 2)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{assignee})
		require.NoError(t, err)

		stranger := newTestOrder(t, 1)
		_, err = mapper.MapSolution(problem, solutionFor([]*order.Order{stranger}, 0, 1.0))

		assert.Error(t, err)
	})

	t.Run("should fail when route demand exceeds courier capacity", func(t *testing.T) {
		assignee := newTestCourier(t, "Alice", 10)
		big := newTestCourier(t, "Bob", 100)
		orders := []*order.Order{newTestOrder(t, 9), newTestOrder(t, 8)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{assignee, big})
		require.NoError(t, err)

		// Solver answer crams 17 units onto the 10 capacity vehicle.
		_, err = mapper.MapSolution(problem, solutionFor(orders, 0, 5.0))

		assert.Error(t, err)
	})

	t.Run("should recompute demand from orders, not trust demand_served", func(t *testing.T) {
		assignee := newTestCourier(t, "Alice", 10)
		big := newTestCourier(t, "Bob", 100)
		orders := []*order.Order{newTestOrder(t, 9), newTestOrder(t, 8)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{assignee, big})
		require.NoError(t, err)

		// 17 units of real demand hidden behind a claimed 5.
		solution := solutionFor(orders, 0, 5.0)
		route := solution.Routes[0]
		route.DemandServed = 5
		solution.Routes[0] = route

		_, err = mapper.MapSolution(problem, solution)

		assert.Error(t, err)
	})

	t.Run("should reset couriers left without routes", func(t *testing.T) {
		busyToBe := newTestCourier(t, "Alice", 10)
		idle := newTestCourier(t, "Bob", 10)
		orders := []*order.Order{newTestOrder(t, 3)}
		problem, err := services.NewRoutingProblem(
			newTestDepot(t), orders, []*courier.Courier{busyToBe, idle})
		require.NoError(t, err)

		outcome, err := mapper.MapSolution(problem, solutionFor(orders, 0, 2.0))

		require.NoError(t, err)
		require.Len(t, outcome.Plans, 1)
		assert.True(t, idle.Available())
		assert.True(t, idle.IsAtDepot())
		assert.Empty(t, idle.Route())
		assert.Empty(t, idle.AssignedOrders())
	})
}
