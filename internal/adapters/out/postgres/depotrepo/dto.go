// Package depotrepo provides data transfer objects and mapping functions for
// depot persistence.
package depotrepo

import (
	"time"

	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DepotDTO represents the database structure for persisting depot aggregates.
type DepotDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Address   string    `gorm:"not null"`
	Lat       float64   `gorm:"not null"`
	Lng       float64   `gorm:"not null"`
	IsActive  bool      `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for depot entities.
func (DepotDTO) TableName() string {
	return "depots"
}

func fromDomain(aggregate *depot.Depot) DepotDTO {
	return DepotDTO{
		ID:       aggregate.ID().Bytes(),
		Name:     aggregate.Name(),
		Address:  aggregate.Address(),
		Lat:      aggregate.Location().Lat(),
		Lng:      aggregate.Location().Lng(),
		IsActive: aggregate.IsActive(),
	}
}

func toDomain(dto DepotDTO) (*depot.Depot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	return depot.RestoreDepot(id, dto.Name, dto.Address, location, dto.IsActive)
}
