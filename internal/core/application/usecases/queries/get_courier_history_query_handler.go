package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetCourierHistoryQueryHandler retrieves a courier's completed rounds from
// the database, newest first.
type GetCourierHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierHistoryQueryHandler creates a handler for history queries.
func NewGetCourierHistoryQueryHandler(db *gorm.DB) GetCourierHistoryQueryHandler {
	return GetCourierHistoryQueryHandler{db: db}
}

// Handle executes the history query. A courier with no completed rounds
// yields an empty slice, not an error.
func (h GetCourierHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetCourierHistoryQuery,
) ([]GetCourierHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetCourierHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_ids,
			total_distance_km,
			total_time_min,
			completed_at,
			orders_delivered,
			on_time_deliveries,
			average_delivery_min
		FROM delivery_history
		WHERE courier_id = ?
		ORDER BY completed_at DESC
	`, query.CourierID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetCourierHistoryQueryResponse
		var id uuid.UUID
		var orderIDs pq.StringArray

		err = rows.Scan(
			&id,
			&orderIDs,
			&resp.TotalDistanceKm,
			&resp.TotalTimeMin,
			&resp.CompletedAt,
			&resp.OrdersDelivered,
			&resp.OnTimeDeliveries,
			&resp.AverageDeliveryMin,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = recordID
		resp.OrderIDs = []string(orderIDs)
		records = append(records, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
