// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest interface that covers the aggregates
// it touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// DepotRepoFactory provides access to the depot repository within a transaction.
	DepotRepoFactory interface {
		DepotRepository() ports.DepotRepository
	}

	// HistoryRepoFactory provides access to the history repository within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// DepotUoW manages transactions for depot-only operations.
	DepotUoW interface {
		TxManager
		DepotRepoFactory
	}

	// DepotUoWFactory creates new depot unit of work instances.
	DepotUoWFactory interface {
		Create() DepotUoW
	}

	// AssignmentUoW spans the aggregates an assignment run reads and writes:
	// the depot and order set it routes and the couriers it hands routes to.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		DepotRepoFactory
	}

	// AssignmentUoWFactory creates new assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// LifecycleUoW spans the order and its courier for pickup progress.
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// DeliveryUoW spans everything a delivery can touch: the order, its
	// courier, the depot for route totals and the history store for the
	// record a completed round writes.
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		DepotRepoFactory
		HistoryRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}
)
