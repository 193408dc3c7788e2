package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetAllPending(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if orders := args.Get(0); orders != nil {
		return orders.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*courier.Courier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*courier.Courier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if couriers := args.Get(0); couriers != nil {
		return couriers.([]*courier.Courier), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDepotRepository struct{ mock.Mock }

func (m *MockDepotRepository) Add(ctx context.Context, d *depot.Depot) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDepotRepository) Update(ctx context.Context, d *depot.Depot) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDepotRepository) GetActive(ctx context.Context) (*depot.Depot, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.(*depot.Depot), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Add(ctx context.Context, r *history.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) DepotRepository() ports.DepotRepository {
	args := m.Called()
	return args.Get(0).(ports.DepotRepository)
}

func (m *MockUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

type MockSolver struct{ mock.Mock }

func (m *MockSolver) Solve(
	ctx context.Context, problem *services.RoutingProblem,
) (services.Solution, error) {
	args := m.Called(ctx, problem)
	return args.Get(0).(services.Solution), args.Error(1)
}

type stubOrderUoWFactory struct{ uow commands.OrderUoW }

func (f stubOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type stubCourierUoWFactory struct{ uow commands.CourierUoW }

func (f stubCourierUoWFactory) Create() commands.CourierUoW { return f.uow }

type stubDepotUoWFactory struct{ uow commands.DepotUoW }

func (f stubDepotUoWFactory) Create() commands.DepotUoW { return f.uow }

type stubAssignmentUoWFactory struct{ uow commands.AssignmentUoW }

func (f stubAssignmentUoWFactory) Create() commands.AssignmentUoW { return f.uow }

type stubLifecycleUoWFactory struct{ uow commands.LifecycleUoW }

func (f stubLifecycleUoWFactory) Create() commands.LifecycleUoW { return f.uow }

type stubDeliveryUoWFactory struct{ uow commands.DeliveryUoW }

func (f stubDeliveryUoWFactory) Create() commands.DeliveryUoW { return f.uow }
