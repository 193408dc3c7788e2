package ports

import (
	"context"

	"dispatch/internal/core/domain/model/depot"
)

// DepotRepository defines the persistence contract for depot aggregates.
// At most one depot is active at a time.
type DepotRepository interface {
	// Add persists a new depot aggregate to storage.
	Add(ctx context.Context, aggregate *depot.Depot) error

	// Update persists changes to an existing depot aggregate.
	Update(ctx context.Context, aggregate *depot.Depot) error

	// GetActive retrieves the currently active depot.
	// Returns an ObjectNotFoundError when no depot has been configured.
	GetActive(ctx context.Context) (*depot.Depot, error)
}
