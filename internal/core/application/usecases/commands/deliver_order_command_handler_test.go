package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveryHandler(uow commands.DeliveryUoW) commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(
		stubDeliveryUoWFactory{uow: uow}, services.NewHaversineEstimator(), discardLogger())
}

func deliveryWorld(uow *MockUoW) (*MockOrderRepository, *MockCourierRepository, *MockDepotRepository, *MockHistoryRepository) {
	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	depotRepo := new(MockDepotRepository)
	historyRepo := new(MockHistoryRepository)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	// Only round-completing deliveries touch the depot and history repos.
	uow.On("DepotRepository").Return(depotRepo).Maybe()
	uow.On("HistoryRepository").Return(historyRepo).Maybe()
	return orderRepo, courierRepo, depotRepo, historyRepo
}

func TestDeliverOrderCommandHandler_Handle_MidRound(t *testing.T) {
	ctx := t.Context()
	now := time.Now().UTC()

	// A round of two orders, both picked; delivering the first must not
	// complete the round.
	first := testPendingOrder(t, 2)
	second := testPendingOrder(t, 2)
	assignee := testCourier(t, "Alice", 10)
	stopOne, err := courier.NewRouteStop(first.ID(), first.Location(), first.Address())
	require.NoError(t, err)
	stopTwo, err := courier.NewRouteStop(second.ID(), second.Location(), second.Address())
	require.NoError(t, err)
	require.NoError(t, assignee.AssignRoute([]*courier.RouteStop{stopOne, stopTwo}, 4))
	require.NoError(t, first.Assign(assignee.ID()))
	require.NoError(t, second.Assign(assignee.ID()))
	require.NoError(t, first.Pick(now))
	require.NoError(t, assignee.MarkStopPicked(first.ID(), now))
	require.NoError(t, second.Pick(now))
	require.NoError(t, assignee.MarkStopPicked(second.ID(), now))

	uow := new(MockUoW)
	orderRepo, courierRepo, _, historyRepo := deliveryWorld(uow)
	orderRepo.On("GetForUpdate", mock.Anything, first.ID()).Return(first, nil).Once()
	courierRepo.On("GetForUpdate", mock.Anything, assignee.ID()).Return(assignee, nil).Once()
	orderRepo.On("Update", mock.Anything, first).Return(nil).Once()
	courierRepo.On("Update", mock.Anything, assignee).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewDeliverOrderCommand(first.ID())
	require.NoError(t, err)
	h := deliveryHandler(uow)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Delivered, first.Status())
	assert.False(t, assignee.Available(), "courier stays on route until the last delivery")
	assert.Len(t, assignee.AssignedOrders(), 1)
	historyRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestDeliverOrderCommandHandler_Handle_CompletesRound(t *testing.T) {
	ctx := t.Context()
	now := time.Now().UTC()

	assignedOrder, assignee := testAssignedPair(t)
	require.NoError(t, assignedOrder.Pick(now))
	require.NoError(t, assignee.MarkStopPicked(assignedOrder.ID(), now))

	uow := new(MockUoW)
	orderRepo, courierRepo, depotRepo, historyRepo := deliveryWorld(uow)
	orderRepo.On("GetForUpdate", mock.Anything, assignedOrder.ID()).Return(assignedOrder, nil).Once()
	courierRepo.On("GetForUpdate", mock.Anything, assignee.ID()).Return(assignee, nil).Once()
	depotRepo.On("GetActive", mock.Anything).Return(testDepot(t), nil).Once()

	var written *history.Record
	historyRepo.On("Add", mock.Anything, mock.AnythingOfType("*history.Record")).
		Run(func(args mock.Arguments) {
			written = args.Get(1).(*history.Record)
		}).Return(nil).Once()
	orderRepo.On("Update", mock.Anything, assignedOrder).Return(nil).Once()
	courierRepo.On("Update", mock.Anything, assignee).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewDeliverOrderCommand(assignedOrder.ID())
	require.NoError(t, err)
	h := deliveryHandler(uow)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Delivered, assignedOrder.Status())
	assert.True(t, assignee.Available())
	assert.True(t, assignee.IsAtDepot())
	assert.Empty(t, assignee.Route())

	require.NotNil(t, written)
	assert.True(t, written.CourierID().IsEqual(assignee.ID()))
	require.Len(t, written.OrderIDs(), 1)
	assert.True(t, written.OrderIDs()[0].IsEqual(assignedOrder.ID()))
	require.Len(t, written.Route(), 1)
	assert.Positive(t, written.TotalDistanceKm())
	assert.Equal(t, 1, written.Performance().OrdersDelivered)
	assert.Equal(t, 1, written.Performance().OnTimeDeliveries)
	uow.AssertExpectations(t)
}

func TestDeliverOrderCommandHandler_Handle_DeliverBeforePickFails(t *testing.T) {
	ctx := t.Context()
	assignedOrder, assignee := testAssignedPair(t)

	uow := new(MockUoW)
	orderRepo, courierRepo, _, historyRepo := deliveryWorld(uow)
	orderRepo.On("GetForUpdate", mock.Anything, assignedOrder.ID()).Return(assignedOrder, nil).Once()
	courierRepo.On("GetForUpdate", mock.Anything, assignee.ID()).Return(assignee, nil).Once()

	cmd, err := commands.NewDeliverOrderCommand(assignedOrder.ID())
	require.NoError(t, err)
	h := deliveryHandler(uow)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Assigned, assignedOrder.Status())
	historyRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
