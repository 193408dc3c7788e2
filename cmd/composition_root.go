package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/cvrp"
	"dispatch/internal/adapters/out/osrm"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot builds every handler of the application with its concrete
// dependencies wired in.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	solver     ports.Solver
	directions ports.DirectionsProvider
	estimator  services.RouteEstimator
	logger     *slog.Logger

	// A single run handler instance is shared between the HTTP route and the
	// scheduled job so runs stay serialized process-wide.
	runAssignmentHandler *commands.RunAssignmentCommandHandler
}

// NewCompositionRoot wires the application. The solver is mandatory; failing
// to build it is a startup error.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	solver, err := cvrp.NewProcessSolver(
		configs.SolverCommand, configs.SolverArgs, configs.SolverTimeout)
	if err != nil {
		return CompositionRoot{}, err
	}

	root := CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		solver:     solver,
		directions: osrm.NewDirectionsClient(configs.OSRMBaseURL, configs.DirectionsTimeout),
		estimator:  services.NewHaversineEstimator(),
		logger:     logger,
	}

	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return root.uowFactory.Create()
	})
	root.runAssignmentHandler = commands.NewRunAssignmentCommandHandler(
		f, root.solver, services.NewAssignmentMapper(), logger)

	return root, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateSetDepotCommandHandler() commands.SetDepotCommandHandler {
	var f commands.DepotUoWFactory = FuncDepotUoWFactory(func() commands.DepotUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetDepotCommandHandler(f)
}

func (c *CompositionRoot) CreateRunAssignmentCommandHandler() *commands.RunAssignmentCommandHandler {
	return c.runAssignmentHandler
}

func (c *CompositionRoot) CreatePickOrderCommandHandler() commands.PickOrderCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPickOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeliverOrderCommandHandler(f, c.estimator, c.logger)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierRouteQueryHandler() queries.GetCourierRouteQueryHandler {
	return queries.NewGetCourierRouteQueryHandler(c.gormDB, c.directions, c.estimator, c.logger)
}

func (c *CompositionRoot) CreateGetCourierHistoryQueryHandler() queries.GetCourierHistoryQueryHandler {
	return queries.NewGetCourierHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(schedule string) *jobs.JobManager {
	return jobs.NewJobManager(c.runAssignmentHandler, schedule, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncDepotUoWFactory func() commands.DepotUoW

func (f FuncDepotUoWFactory) Create() commands.DepotUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
