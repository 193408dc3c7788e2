package courierrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier with its route stops to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
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

// Update saves an existing courier and rewrites its route stops. The stop
// rows are replaced wholesale; routes are short so this stays cheap and keeps
// sequence numbering trivially correct.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	tx := r.db.WithContext(ctx)

	result := tx.Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at", "RouteStops").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := tx.Where("courier_id = ?", dto.ID).Delete(&RouteStopDTO{}).Error; err != nil {
		return err
	}
	if len(dto.RouteStops) > 0 {
		if err := tx.Create(&dto.RouteStops).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID with its route stops in visiting order.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a courier and locks its row until the surrounding
// transaction ends. Route stops are read under the same transaction.
func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(ctx, id, true)
}

func (r *GormCourierRepository) get(ctx context.Context, id kernel.UUID, lock bool) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var dto CourierDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	if err := r.loadStops(ctx, &dto); err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves couriers idle at the depot ordered by creation
// time, so vehicle numbering is stable between runs over the same fleet.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "available = ?", true).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for i := range dtos {
		if err := r.loadStops(ctx, &dtos[i]); err != nil {
			return nil, err
		}
		c, err := toDomain(dtos[i])
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

func (r *GormCourierRepository) loadStops(ctx context.Context, dto *CourierDTO) error {
	return r.db.WithContext(ctx).
		Where("courier_id = ?", dto.ID).
		Order("seq").
		Find(&dto.RouteStops).Error
}
