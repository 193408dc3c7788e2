package commands_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func testGeoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func testDepot(t *testing.T) *depot.Depot {
	t.Helper()
	d, err := depot.NewDepot(
		kernel.NewUUID(), "Main", "1 Warehouse Way", testGeoPoint(t, 55.7558, 37.6173))
	require.NoError(t, err)
	return d
}

func testPendingOrder(t *testing.T, demand int) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "Ann Customer", "+15550001", []string{"box"},
		demand, "5 Oak St", testGeoPoint(t, 55.76, 37.62))
	require.NoError(t, err)
	return o
}

func testCourier(t *testing.T, name string, capacity int) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "+15550002", capacity)
	require.NoError(t, err)
	return c
}

func courierList(couriers ...*courier.Courier) []*courier.Courier {
	return couriers
}

// testAssignedPair returns an order assigned to a courier whose route holds
// the matching stop. Both aggregates are consistent with each other.
func testAssignedPair(t *testing.T) (*order.Order, *courier.Courier) {
	t.Helper()
	o := testPendingOrder(t, 3)
	c := testCourier(t, "Alice", 10)

	stop, err := courier.NewRouteStop(o.ID(), o.Location(), o.Address())
	require.NoError(t, err)
	require.NoError(t, c.AssignRoute([]*courier.RouteStop{stop}, o.Demand()))
	require.NoError(t, o.Assign(c.ID()))
	return o, c
}
