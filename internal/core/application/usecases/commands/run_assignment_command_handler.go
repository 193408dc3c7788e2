package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrAssignmentRunInProgress is returned when a run is requested while
// another one is still executing. Runs are strictly serialized.
var ErrAssignmentRunInProgress = errors.New("an assignment run is already in progress")

// RunAssignmentResult summarizes an applied assignment run.
type RunAssignmentResult struct {
	// RoutesAssigned is the number of couriers that received a route.
	RoutesAssigned int
	// OrdersAssigned is the number of orders moved to assigned status.
	OrdersAssigned int
	// OrdersSkipped counts orders left pending because their vehicle route
	// could not be mapped to a courier.
	OrdersSkipped int
	// TotalDistanceKm is the solver's total route length.
	TotalDistanceKm float64
}

// RunAssignmentCommandHandler orchestrates one assignment cycle: snapshot the
// pending orders, the available couriers and the active depot, hand the
// problem to the routing solver, and apply the solution to the aggregates.
//
// Everything happens in a single transaction. A validation failure, a solver
// failure or an infeasible answer aborts the run before any write, leaving
// all orders pending and all couriers available. Concurrent runs are rejected
// rather than queued.
type RunAssignmentCommandHandler struct {
	uowFactory AssignmentUoWFactory
	solver     ports.Solver
	mapper     services.AssignmentMapper
	logger     *slog.Logger

	running sync.Mutex
}

// NewRunAssignmentCommandHandler creates a handler for assignment runs.
func NewRunAssignmentCommandHandler(
	uowFactory AssignmentUoWFactory,
	solver ports.Solver,
	mapper services.AssignmentMapper,
	logger *slog.Logger,
) *RunAssignmentCommandHandler {
	return &RunAssignmentCommandHandler{
		uowFactory: uowFactory,
		solver:     solver,
		mapper:     mapper,
		logger:     logger,
	}
}

// Handle processes the assignment run command.
func (h *RunAssignmentCommandHandler) Handle(
	ctx context.Context, cmd RunAssignmentCommand,
) (RunAssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return RunAssignmentResult{}, err
	}

	if !h.running.TryLock() {
		return RunAssignmentResult{}, ErrAssignmentRunInProgress
	}
	defer h.running.Unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RunAssignmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	problem, err := h.buildProblem(ctx, uow)
	if err != nil {
		return RunAssignmentResult{}, err
	}

	solution, err := h.solver.Solve(ctx, problem)
	if err != nil {
		return RunAssignmentResult{}, err
	}

	outcome, err := h.mapper.MapSolution(problem, solution)
	if err != nil {
		return RunAssignmentResult{}, err
	}

	result := RunAssignmentResult{TotalDistanceKm: outcome.TotalDistanceKm}
	for _, warning := range outcome.Warnings {
		result.OrdersSkipped += warning.OrderCount
		h.logger.Warn("skipping solver route with no matching courier",
			"vehicle", warning.Vehicle,
			"orders", warning.OrderCount,
			"reason", warning.Reason)
	}

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()
	for _, plan := range outcome.Plans {
		if err = courierRepo.Update(ctx, plan.Courier); err != nil {
			return RunAssignmentResult{}, err
		}
		for _, assigned := range plan.Orders {
			if err = orderRepo.Update(ctx, assigned); err != nil {
				return RunAssignmentResult{}, err
			}
		}
		result.RoutesAssigned++
		result.OrdersAssigned += len(plan.Orders)
	}

	if err = uow.Commit(ctx); err != nil {
		return RunAssignmentResult{}, err
	}

	h.logger.Info("assignment run applied",
		"routes", result.RoutesAssigned,
		"orders", result.OrdersAssigned,
		"skipped", result.OrdersSkipped,
		"totalDistanceKm", result.TotalDistanceKm)
	return result, nil
}

func (h *RunAssignmentCommandHandler) buildProblem(
	ctx context.Context, uow AssignmentUoW,
) (*services.RoutingProblem, error) {
	activeDepot, err := uow.DepotRepository().GetActive(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, services.ErrNoActiveDepot
		}
		return nil, err
	}

	pendingOrders, err := uow.OrderRepository().GetAllPending(ctx)
	if err != nil {
		return nil, err
	}

	availableCouriers, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	return services.NewRoutingProblem(activeDepot, pendingOrders, availableCouriers)
}
