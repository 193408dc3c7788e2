// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It handles the conversion between the order aggregate
// and its relational representation.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status for the pending-order scans assignment runs perform and
// by courier for route lookups.
type OrderDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerName string         `gorm:"not null"`
	Phone        string         `gorm:"not null"`
	Items        pq.StringArray `gorm:"type:text[]"`
	Demand       int            `gorm:"not null"`
	Address      string         `gorm:"not null"`
	Lat          float64        `gorm:"not null"`
	Lng          float64        `gorm:"not null"`
	CourierID    *uuid.UUID     `gorm:"type:uuid;index"`
	Status       string         `gorm:"index;not null"`
	PickupTime   *time.Time
	DeliveryTime *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerName: aggregate.CustomerName(),
		Phone:        aggregate.Phone(),
		Items:        pq.StringArray(aggregate.Items()),
		Demand:       aggregate.Demand(),
		Address:      aggregate.Address(),
		Lat:          aggregate.Location().Lat(),
		Lng:          aggregate.Location().Lng(),
		CourierID:    courierID,
		Status:       aggregate.Status().String(),
		PickupTime:   aggregate.PickupTime(),
		DeliveryTime: aggregate.DeliveryTime(),
	}
}

// toDomain converts a database DTO back to an order aggregate via RestoreOrder,
// re-running the aggregate's invariant checks.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		dto.Phone,
		[]string(dto.Items),
		dto.Demand,
		dto.Address,
		location,
		courierID,
		status,
		dto.PickupTime,
		dto.DeliveryTime,
	)
}
