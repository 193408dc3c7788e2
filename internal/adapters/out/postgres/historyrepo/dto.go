// Package historyrepo provides data transfer objects and mapping functions
// for delivery history persistence. Records are written once at round
// completion and never updated.
package historyrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// HistoryDTO represents the database structure for persisting delivery
// history records. The route snapshot is stored as jsonb since it is only
// ever read back whole.
type HistoryDTO struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CourierID          uuid.UUID      `gorm:"type:uuid;index;not null"`
	OrderIDs           pq.StringArray `gorm:"type:text[];not null"`
	Route              []byte         `gorm:"type:jsonb"`
	TotalDistanceKm    float64        `gorm:"not null"`
	TotalTimeMin       float64        `gorm:"not null"`
	CompletedAt        time.Time      `gorm:"index;not null"`
	OrdersDelivered    int            `gorm:"not null"`
	OnTimeDeliveries   int            `gorm:"not null"`
	AverageDeliveryMin float64        `gorm:"not null"`
	CreatedAt          time.Time
}

// TableName specifies the database table name for history entities.
func (HistoryDTO) TableName() string {
	return "delivery_history"
}

// routeStopJSON is the jsonb shape of one snapshotted route stop.
type routeStopJSON struct {
	OrderID string  `json:"orderId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Status  string  `json:"status"`
}

// fromDomain converts a history record to its database representation.
func fromDomain(record *history.Record) (HistoryDTO, error) {
	orderIDs := make(pq.StringArray, 0, len(record.OrderIDs()))
	for _, id := range record.OrderIDs() {
		orderIDs = append(orderIDs, id.String())
	}

	stops := make([]routeStopJSON, 0, len(record.Route()))
	for _, stop := range record.Route() {
		stops = append(stops, routeStopJSON{
			OrderID: stop.OrderID().String(),
			Lat:     stop.Location().Lat(),
			Lng:     stop.Location().Lng(),
			Address: stop.Address(),
			Status:  stop.Status().String(),
		})
	}
	route, err := json.Marshal(stops)
	if err != nil {
		return HistoryDTO{}, err
	}

	performance := record.Performance()
	return HistoryDTO{
		ID:                 record.ID().Bytes(),
		CourierID:          record.CourierID().Bytes(),
		OrderIDs:           orderIDs,
		Route:              route,
		TotalDistanceKm:    record.TotalDistanceKm(),
		TotalTimeMin:       record.TotalTimeMin(),
		CompletedAt:        record.CompletedAt(),
		OrdersDelivered:    performance.OrdersDelivered,
		OnTimeDeliveries:   performance.OnTimeDeliveries,
		AverageDeliveryMin: performance.AverageDeliveryMin,
	}, nil
}

// toDomain converts a database DTO back to a history record.
func toDomain(dto HistoryDTO) (*history.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(dto.OrderIDs))
	for _, raw := range dto.OrderIDs {
		orderID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return nil, idErr
		}
		orderIDs = append(orderIDs, orderID)
	}

	var stops []routeStopJSON
	if len(dto.Route) > 0 {
		if err = json.Unmarshal(dto.Route, &stops); err != nil {
			return nil, err
		}
	}

	route := make([]*courier.RouteStop, 0, len(stops))
	for _, raw := range stops {
		stop, stopErr := stopToDomain(raw)
		if stopErr != nil {
			return nil, stopErr
		}
		route = append(route, stop)
	}

	return history.RestoreRecord(
		id,
		courierID,
		orderIDs,
		route,
		dto.TotalDistanceKm,
		dto.TotalTimeMin,
		dto.CompletedAt,
		history.Performance{
			OrdersDelivered:    dto.OrdersDelivered,
			OnTimeDeliveries:   dto.OnTimeDeliveries,
			AverageDeliveryMin: dto.AverageDeliveryMin,
		},
	)
}

func stopToDomain(raw routeStopJSON) (*courier.RouteStop, error) {
	orderID, err := kernel.UUIDFromString(raw.OrderID)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(raw.Lat, raw.Lng)
	if err != nil {
		return nil, err
	}

	status, err := courier.StopStatusFromString(raw.Status)
	if err != nil {
		return nil, err
	}

	return courier.RestoreRouteStop(orderID, location, raw.Address, status)
}
