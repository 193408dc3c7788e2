package history_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStop(t *testing.T) *courier.RouteStop {
	t.Helper()
	location, err := kernel.NewGeoPoint(55.76, 37.62)
	require.NoError(t, err)
	stop, err := courier.NewRouteStop(kernel.NewUUID(), location, "5 Oak St")
	require.NoError(t, err)
	return stop
}

func TestNewRecord(t *testing.T) {
	t.Run("captures the completed round", func(t *testing.T) {
		stop := newStop(t)
		courierID := kernel.NewUUID()
		completedAt := time.Now().UTC()
		performance := history.Performance{
			OrdersDelivered:    1,
			OnTimeDeliveries:   1,
			AverageDeliveryMin: 18.5,
		}

		record, err := history.NewRecord(
			kernel.NewUUID(), courierID, []kernel.UUID{stop.OrderID()},
			[]*courier.RouteStop{stop}, 12.3, 24.6, completedAt, performance)

		require.NoError(t, err)
		assert.True(t, record.CourierID().IsEqual(courierID))
		require.Len(t, record.OrderIDs(), 1)
		assert.True(t, record.OrderIDs()[0].IsEqual(stop.OrderID()))
		require.Len(t, record.Route(), 1)
		assert.InDelta(t, 12.3, record.TotalDistanceKm(), 1e-9)
		assert.InDelta(t, 24.6, record.TotalTimeMin(), 1e-9)
		assert.Equal(t, completedAt, record.CompletedAt())
		assert.Equal(t, performance, record.Performance())
		require.NoError(t, record.Validate())
	})

	t.Run("rejects an empty order set", func(t *testing.T) {
		_, err := history.NewRecord(
			kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			0, 0, time.Now().UTC(), history.Performance{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects an unconstructed order ID", func(t *testing.T) {
		_, err := history.NewRecord(
			kernel.NewUUID(), kernel.NewUUID(), []kernel.UUID{{}}, nil,
			0, 0, time.Now().UTC(), history.Performance{})

		require.Error(t, err)
	})

	t.Run("copies the order set", func(t *testing.T) {
		orderIDs := []kernel.UUID{kernel.NewUUID()}
		record, err := history.NewRecord(
			kernel.NewUUID(), kernel.NewUUID(), orderIDs, nil,
			0, 0, time.Now().UTC(), history.Performance{})
		require.NoError(t, err)

		orderIDs[0] = kernel.NewUUID()
		assert.False(t, record.OrderIDs()[0].IsEqual(orderIDs[0]))
	})
}
