// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence, including the courier's owned route stops.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. Route stops live in their own table keyed by courier and
// sequence so visiting order survives round trips.
type CourierDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	Phone      string    `gorm:"not null"`
	Capacity   int       `gorm:"not null"`
	Available  bool      `gorm:"index;not null"`
	AtDepot    bool      `gorm:"not null"`
	CurrentLat *float64
	CurrentLng *float64
	LastActive time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	RouteStops []RouteStopDTO `gorm:"foreignKey:CourierID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// RouteStopDTO represents one stop of a courier's current route.
type RouteStopDTO struct {
	CourierID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Lat       float64   `gorm:"not null"`
	Lng       float64   `gorm:"not null"`
	Address   string    `gorm:"not null"`
	Status    string    `gorm:"not null"`
}

// TableName specifies the database table name for route stop entities.
func (RouteStopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	var currentLat, currentLng *float64
	if location := aggregate.CurrentLocation(); location != nil {
		lat, lng := location.Lat(), location.Lng()
		currentLat, currentLng = &lat, &lng
	}

	dto := CourierDTO{
		ID:         aggregate.ID().Bytes(),
		Name:       aggregate.Name(),
		Phone:      aggregate.Phone(),
		Capacity:   aggregate.Capacity(),
		Available:  aggregate.Available(),
		AtDepot:    aggregate.IsAtDepot(),
		CurrentLat: currentLat,
		CurrentLng: currentLng,
		LastActive: aggregate.LastActive(),
	}

	for seq, stop := range aggregate.Route() {
		dto.RouteStops = append(dto.RouteStops, RouteStopDTO{
			CourierID: dto.ID,
			Seq:       seq,
			OrderID:   stop.OrderID().Bytes(),
			Lat:       stop.Location().Lat(),
			Lng:       stop.Location().Lng(),
			Address:   stop.Address(),
			Status:    stop.Status().String(),
		})
	}

	return dto
}

// toDomain converts a database DTO back to a courier aggregate via
// RestoreCourier. Stops must already be ordered by sequence.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var currentLocation *kernel.GeoPoint
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		location, locErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if locErr != nil {
			return nil, locErr
		}
		currentLocation = &location
	}

	route := make([]*courier.RouteStop, 0, len(dto.RouteStops))
	for _, stopDTO := range dto.RouteStops {
		stop, stopErr := stopToDomain(stopDTO)
		if stopErr != nil {
			return nil, stopErr
		}
		route = append(route, stop)
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		dto.Capacity,
		dto.Available,
		dto.AtDepot,
		route,
		currentLocation,
		dto.LastActive,
	)
}

func stopToDomain(dto RouteStopDTO) (*courier.RouteStop, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	status, err := courier.StopStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return courier.RestoreRouteStop(orderID, location, dto.Address, status)
}
