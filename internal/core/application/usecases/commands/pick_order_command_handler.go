package commands

import (
	"context"
	"time"

	"dispatch/internal/pkg/errs"
)

// PickOrderCommandHandler records the depot pickup of an assigned order.
// The order row and its courier row are locked for the transaction, so two
// concurrent requests for the same order serialize and the loser fails its
// status transition instead of double-applying it.
type PickOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewPickOrderCommandHandler creates a handler for order pickups.
func NewPickOrderCommandHandler(uowFactory LifecycleUoWFactory) PickOrderCommandHandler {
	return PickOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the pickup command. Advances the order to picked and the
// matching route stop on the courier in one transaction.
func (h *PickOrderCommandHandler) Handle(ctx context.Context, cmd PickOrderCommand) error {
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

	pickedOrder, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if pickedOrder.Courier() == nil {
		return errs.NewObjectNotFoundError("courier for order", cmd.OrderID().String())
	}

	assignee, err := uow.CourierRepository().GetForUpdate(ctx, *pickedOrder.Courier())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = pickedOrder.Pick(now); err != nil {
		return err
	}
	if err = assignee.MarkStopPicked(pickedOrder.ID(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, pickedOrder); err != nil {
		return err
	}
	if err = uow.CourierRepository().Update(ctx, assignee); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
