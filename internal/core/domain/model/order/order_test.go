package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) kernel.GeoPoint {
	t.Helper()
	location, err := kernel.NewGeoPoint(55.76, 37.62)
	require.NoError(t, err)
	return location
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "Ann Customer", "+15550001",
		[]string{"box", "envelope"}, 3, "5 Oak St", testLocation(t))
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order without courier", func(t *testing.T) {
		o := newPendingOrder(t)

		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Courier())
		assert.Nil(t, o.PickupTime())
		assert.Nil(t, o.DeliveryTime())
		assert.Equal(t, 3, o.Demand())
		assert.Equal(t, []string{"box", "envelope"}, o.Items())
		require.NoError(t, o.Validate())
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		location := testLocation(t)
		testCases := []struct {
			name     string
			customer string
			phone    string
			items    []string
			demand   int
			address  string
			wantErr  error
		}{
			{"empty customer name", "", "+1", []string{"box"}, 1, "addr", order.ErrCustomerNameIsRequired},
			{"empty phone", "Ann", "", []string{"box"}, 1, "addr", order.ErrPhoneIsRequired},
			{"no items", "Ann", "+1", nil, 1, "addr", order.ErrItemsAreRequired},
			{"empty address", "Ann", "+1", []string{"box"}, 1, "", order.ErrAddressIsRequired},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := order.NewOrder(
					kernel.NewUUID(), tc.customer, tc.phone, tc.items,
					tc.demand, tc.address, location)
				require.ErrorIs(t, err, tc.wantErr)
			})
		}
	})

	t.Run("rejects non-positive demand", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 0, "addr", testLocation(t))
		require.Error(t, err)
	})

	t.Run("copies the item list", func(t *testing.T) {
		items := []string{"box"}
		o, err := order.NewOrder(
			kernel.NewUUID(), "Ann", "+1", items, 1, "addr", testLocation(t))
		require.NoError(t, err)

		items[0] = "mutated"
		assert.Equal(t, []string{"box"}, o.Items())
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("walks the full forward path", func(t *testing.T) {
		o := newPendingOrder(t)
		courierID := kernel.NewUUID()

		require.NoError(t, o.Assign(courierID))
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, o.Courier().IsEqual(courierID))

		pickedAt := time.Now().UTC()
		require.NoError(t, o.Pick(pickedAt))
		assert.Equal(t, order.Picked, o.Status())
		require.NotNil(t, o.PickupTime())
		assert.Equal(t, pickedAt, *o.PickupTime())

		deliveredAt := pickedAt.Add(20 * time.Minute)
		require.NoError(t, o.Deliver(deliveredAt))
		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.DeliveryTime())
		assert.Equal(t, deliveredAt, *o.DeliveryTime())
	})

	t.Run("rejects assignment of a non-pending order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID()))

		err := o.Assign(kernel.NewUUID())
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("rejects pick before assignment", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Pick(time.Now().UTC())
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.PickupTime())
	})

	t.Run("rejects delivery before pick", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID()))

		err := o.Deliver(time.Now().UTC())
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID()))
		require.NoError(t, o.Pick(time.Now().UTC()))
		require.NoError(t, o.Deliver(time.Now().UTC()))

		require.ErrorIs(t, o.Pick(time.Now().UTC()), order.ErrInvalidTransition)
		require.ErrorIs(t, o.Deliver(time.Now().UTC()), order.ErrInvalidTransition)
		require.ErrorIs(t, o.Assign(kernel.NewUUID()), order.ErrInvalidTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores a picked order with courier and timestamp", func(t *testing.T) {
		courierID := kernel.NewUUID()
		pickedAt := time.Now().UTC()

		o, err := order.RestoreOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr",
			testLocation(t), &courierID, order.Picked, &pickedAt, nil)

		require.NoError(t, err)
		assert.Equal(t, order.Picked, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, o.Courier().IsEqual(courierID))
	})

	t.Run("rejects a pending order with a courier", func(t *testing.T) {
		courierID := kernel.NewUUID()

		_, err := order.RestoreOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr",
			testLocation(t), &courierID, order.Pending, nil, nil)

		require.Error(t, err)
	})

	t.Run("rejects an assigned order without a courier", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr",
			testLocation(t), nil, order.Assigned, nil, nil)

		require.Error(t, err)
	})
}

func TestStatus_Strings(t *testing.T) {
	t.Run("round trips every valid status", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Assigned, order.Picked, order.Delivered,
		} {
			parsed, err := order.StatusFromString(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := order.StatusFromString("teleported")
		require.Error(t, err)
	})
}
