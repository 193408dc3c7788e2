package depotrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDepotRepository implements DepotRepository using GORM.
type GormDepotRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDepotRepository creates a new GORM depot repository.
func NewGormDepotRepository(db *gorm.DB, tracker aggregateTracker) *GormDepotRepository {
	return &GormDepotRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new depot to the database.
func (r *GormDepotRepository) Add(ctx context.Context, aggregate *depot.Depot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing depot to the database.
func (r *GormDepotRepository) Update(ctx context.Context, aggregate *depot.Depot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DepotDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetActive retrieves the active depot. The set-depot flow keeps at most one
// row active; the newest wins if data predates that guarantee.
func (r *GormDepotRepository) GetActive(ctx context.Context) (*depot.Depot, error) {
	var dto DepotDTO
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&dto, "is_active = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("depot", "active")
		}
		return nil, err
	}

	return toDomain(dto)
}
