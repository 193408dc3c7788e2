package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/pkg/errs"
)

// SetDepotCommandHandler handles depot configuration. The previous active
// depot, if any, is deactivated in the same transaction that stores the new
// one, so exactly one depot is ever active.
type SetDepotCommandHandler struct {
	uowFactory DepotUoWFactory
}

// NewSetDepotCommandHandler creates a handler for depot configuration.
func NewSetDepotCommandHandler(uowFactory DepotUoWFactory) SetDepotCommandHandler {
	return SetDepotCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the depot configuration command.
func (h *SetDepotCommandHandler) Handle(ctx context.Context, cmd SetDepotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newDepot, err := depot.NewDepot(cmd.DepotID(), cmd.Name(), cmd.Address(), cmd.Location())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	depotRepo := uow.DepotRepository()

	current, err := depotRepo.GetActive(ctx)
	switch {
	case err == nil:
		current.Deactivate()
		if err = depotRepo.Update(ctx, current); err != nil {
			return err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		// First depot ever configured.
	default:
		return err
	}

	if err = depotRepo.Add(ctx, newDepot); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
