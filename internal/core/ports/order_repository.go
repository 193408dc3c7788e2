package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and takes a row lock on it for the
	// duration of the surrounding transaction. Used by the pick and deliver
	// commands so two requests cannot advance the same order concurrently.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllPending retrieves every order awaiting assignment, oldest first.
	GetAllPending(ctx context.Context) ([]*order.Order, error)
}
