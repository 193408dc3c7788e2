package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// DeliverOrderCommandHandler records the delivery of a picked order. When the
// delivery completes the courier's last stop, the whole round is closed in
// the same transaction: a history record is written with the route snapshot
// and totals, and the courier returns to the depot available for the next
// run.
type DeliverOrderCommandHandler struct {
	uowFactory DeliveryUoWFactory
	estimator  services.RouteEstimator
	logger     *slog.Logger
}

// NewDeliverOrderCommandHandler creates a handler for order deliveries.
func NewDeliverOrderCommandHandler(
	uowFactory DeliveryUoWFactory,
	estimator services.RouteEstimator,
	logger *slog.Logger,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		estimator:  estimator,
		logger:     logger,
	}
}

// Handle processes the delivery command.
func (h *DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveredOrder, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if deliveredOrder.Courier() == nil {
		return errs.NewObjectNotFoundError("courier for order", cmd.OrderID().String())
	}

	assignee, err := uow.CourierRepository().GetForUpdate(ctx, *deliveredOrder.Courier())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = deliveredOrder.Deliver(now); err != nil {
		return err
	}
	if err = assignee.MarkStopDelivered(deliveredOrder.ID(), now); err != nil {
		return err
	}

	if !assignee.HasUndeliveredStops() {
		if err = h.completeRound(ctx, uow, assignee, deliveredOrder, now); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, deliveredOrder); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, assignee); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// completeRound snapshots the finished route, writes the history record and
// resets the courier. Runs inside the delivery transaction so the record and
// the courier's return to the depot commit together.
func (h *DeliverOrderCommandHandler) completeRound(
	ctx context.Context,
	uow DeliveryUoW,
	assignee *courier.Courier,
	deliveredOrder *order.Order,
	now time.Time,
) error {
	roundOrderIDs := assignee.RoundOrderIDs()
	routeSnapshot := assignee.Route()

	activeDepot, err := uow.DepotRepository().GetActive(ctx)
	if err != nil {
		return err
	}

	points := make([]kernel.GeoPoint, 0, len(routeSnapshot)+2)
	points = append(points, activeDepot.Location())
	for _, stop := range routeSnapshot {
		points = append(points, stop.Location())
	}
	points = append(points, activeDepot.Location())
	plan := h.estimator.Estimate(points)

	performance, err := h.measureRound(ctx, uow, roundOrderIDs, deliveredOrder)
	if err != nil {
		return err
	}

	record, err := history.NewRecord(
		kernel.NewUUID(),
		assignee.ID(),
		roundOrderIDs,
		routeSnapshot,
		plan.TotalDistanceKm,
		plan.TotalDurationMin,
		now,
		performance,
	)
	if err != nil {
		return err
	}

	if err = uow.HistoryRepository().Add(ctx, record); err != nil {
		return err
	}

	assignee.ResetRoute()
	h.logger.Info("delivery round completed",
		"courier", assignee.ID().String(),
		"orders", len(roundOrderIDs),
		"distanceKm", plan.TotalDistanceKm)
	return nil
}

// measureRound computes the performance block from the round's pickup and
// delivery timestamps. The just-delivered order is measured from memory, the
// rest are read back inside the transaction.
func (h *DeliverOrderCommandHandler) measureRound(
	ctx context.Context,
	uow DeliveryUoW,
	roundOrderIDs []kernel.UUID,
	deliveredOrder *order.Order,
) (history.Performance, error) {
	var performance history.Performance
	var totalMin float64

	for _, orderID := range roundOrderIDs {
		measured := deliveredOrder
		if !orderID.IsEqual(deliveredOrder.ID()) {
			var err error
			measured, err = uow.OrderRepository().Get(ctx, orderID)
			if err != nil {
				return history.Performance{}, err
			}
		}

		pickedAt, deliveredAt := measured.PickupTime(), measured.DeliveryTime()
		if pickedAt == nil || deliveredAt == nil {
			continue
		}

		span := deliveredAt.Sub(*pickedAt)
		performance.OrdersDelivered++
		if span <= history.OnTimeWindow {
			performance.OnTimeDeliveries++
		}
		totalMin += span.Minutes()
	}

	if performance.OrdersDelivered > 0 {
		performance.AverageDeliveryMin = totalMin / float64(performance.OrdersDelivered)
	}
	return performance, nil
}
