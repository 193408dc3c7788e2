package ports

import (
	"context"

	"dispatch/internal/core/domain/model/history"
)

// HistoryRepository defines the persistence contract for delivery history
// records. Records are append-only; reads go through the query layer.
type HistoryRepository interface {
	// Add persists a completed round's history record.
	Add(ctx context.Context, record *history.Record) error
}
