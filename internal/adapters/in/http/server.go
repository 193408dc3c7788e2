// Package http exposes the dispatch API over REST. Handlers translate JSON
// requests into commands and queries and map domain errors onto HTTP status
// codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application's command and query
// handlers.
type Server struct {
	createOrderHandler   commands.CreateOrderCommandHandler
	createCourierHandler commands.CreateCourierCommandHandler
	setDepotHandler      commands.SetDepotCommandHandler
	runAssignmentHandler *commands.RunAssignmentCommandHandler
	pickOrderHandler     commands.PickOrderCommandHandler
	deliverOrderHandler  commands.DeliverOrderCommandHandler

	getPendingOrdersHandler  queries.GetPendingOrdersQueryHandler
	getCourierRouteHandler   queries.GetCourierRouteQueryHandler
	getCourierHistoryHandler queries.GetCourierHistoryQueryHandler
}

// NewServer creates the HTTP server facade over the use case handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	setDepotHandler commands.SetDepotCommandHandler,
	runAssignmentHandler *commands.RunAssignmentCommandHandler,
	pickOrderHandler commands.PickOrderCommandHandler,
	deliverOrderHandler commands.DeliverOrderCommandHandler,
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	getCourierRouteHandler queries.GetCourierRouteQueryHandler,
	getCourierHistoryHandler queries.GetCourierHistoryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		createCourierHandler:     createCourierHandler,
		setDepotHandler:          setDepotHandler,
		runAssignmentHandler:     runAssignmentHandler,
		pickOrderHandler:         pickOrderHandler,
		deliverOrderHandler:      deliverOrderHandler,
		getPendingOrdersHandler:  getPendingOrdersHandler,
		getCourierRouteHandler:   getCourierRouteHandler,
		getCourierHistoryHandler: getCourierHistoryHandler,
	}
}

// RegisterRoutes attaches all API routes to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/pending", s.GetPendingOrders)
	api.POST("/orders/:id/pick", s.PickOrder)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.POST("/couriers", s.CreateCourier)
	api.GET("/couriers/:id/route", s.GetCourierRoute)
	api.GET("/couriers/:id/history", s.GetCourierHistory)
	api.PUT("/depot", s.SetDepot)
	api.POST("/assignments/run", s.RunAssignment)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func fail(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}

// failDomain maps a command or query error onto an HTTP status.
func failDomain(ctx echo.Context, err error) error {
	var infeasibleErr *ports.SolverInfeasibleError
	var capacityErr *services.CapacityExceededError
	var processErr *ports.SolverProcessError
	var outputErr *ports.SolverOutputError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, commands.ErrAssignmentRunInProgress):
		return fail(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoPendingOrders),
		errors.Is(err, services.ErrNoAvailableCouriers),
		errors.Is(err, services.ErrNoActiveDepot),
		errors.As(err, &capacityErr),
		errors.As(err, &infeasibleErr):
		return fail(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ports.ErrSolverTimeout),
		errors.As(err, &processErr),
		errors.As(err, &outputErr):
		return fail(ctx, http.StatusBadGateway, err.Error())
	default:
		return fail(ctx, http.StatusInternalServerError, err.Error())
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerName string   `json:"customerName"`
	Phone        string   `json:"phone"`
	Items        []string `json:"items"`
	Demand       int      `json:"demand"`
	Address      string   `json:"address"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
}

// CreatedResponse carries the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(request.Lat, request.Lng)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, request.CustomerName, request.Phone,
		request.Items, request.Demand, request.Address, location)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return failDomain(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// PendingOrderResponse is one element of GET /api/v1/orders/pending.
type PendingOrderResponse struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Phone        string    `json:"phone"`
	Items        []string  `json:"items"`
	Demand       int       `json:"demand"`
	Address      string    `json:"address"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	pending, err := s.getPendingOrdersHandler.Handle(
		ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return failDomain(ctx, err)
	}

	response := make([]PendingOrderResponse, len(pending))
	for i, p := range pending {
		response[i] = PendingOrderResponse{
			ID:           p.ID.String(),
			CustomerName: p.CustomerName,
			Phone:        p.Phone,
			Items:        p.Items,
			Demand:       p.Demand,
			Address:      p.Address,
			Lat:          p.Location.Lat(),
			Lng:          p.Location.Lng(),
			CreatedAt:    p.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateCourierRequest is the body of POST /api/v1/couriers.
type CreateCourierRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Capacity int    `json:"capacity"`
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var request CreateCourierRequest
	if err := ctx.Bind(&request); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(
		courierID, request.Name, request.Phone, request.Capacity)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return failDomain(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: courierID.String()})
}

// SetDepotRequest is the body of PUT /api/v1/depot.
type SetDepotRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// SetDepot handles PUT /api/v1/depot. The new depot becomes active and any
// previous one is deactivated.
func (s *Server) SetDepot(ctx echo.Context) error {
	var request SetDepotRequest
	if err := ctx.Bind(&request); err != nil {
		return fail(ctx, http.StatusBadRequest, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(request.Lat, request.Lng)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	depotID := kernel.NewUUID()
	cmd, err := commands.NewSetDepotCommand(depotID, request.Name, request.Address, location)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.setDepotHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return failDomain(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CreatedResponse{ID: depotID.String()})
}

// RunAssignmentResponse is the body of a successful POST /api/v1/assignments/run.
type RunAssignmentResponse struct {
	RoutesAssigned  int     `json:"routesAssigned"`
	OrdersAssigned  int     `json:"ordersAssigned"`
	OrdersSkipped   int     `json:"ordersSkipped"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
}

// RunAssignment handles POST /api/v1/assignments/run.
func (s *Server) RunAssignment(ctx echo.Context) error {
	cmd, err := commands.NewRunAssignmentCommand()
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.runAssignmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return failDomain(ctx, err)
	}

	return ctx.JSON(http.StatusOK, RunAssignmentResponse{
		RoutesAssigned:  result.RoutesAssigned,
		OrdersAssigned:  result.OrdersAssigned,
		OrdersSkipped:   result.OrdersSkipped,
		TotalDistanceKm: result.TotalDistanceKm,
	})
}

// PickOrder handles POST /api/v1/orders/:id/pick.
func (s *Server) PickOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewPickOrderCommand(orderID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.pickOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return failDomain(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewDeliverOrderCommand(orderID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.deliverOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return failDomain(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RouteStopResponse is one stop of GET /api/v1/couriers/:id/route.
type RouteStopResponse struct {
	OrderID string  `json:"orderId"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Status  string  `json:"status"`
}

// CourierRouteResponse is the body of GET /api/v1/couriers/:id/route.
type CourierRouteResponse struct {
	CourierID        string              `json:"courierId"`
	CourierName      string              `json:"courierName"`
	Available        bool                `json:"available"`
	Stops            []RouteStopResponse `json:"stops"`
	TotalDistanceKm  float64             `json:"totalDistanceKm"`
	TotalDurationMin float64             `json:"totalDurationMin"`
	Source           string              `json:"source,omitempty"`
}

// GetCourierRoute handles GET /api/v1/couriers/:id/route.
func (s *Server) GetCourierRoute(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetCourierRouteQuery(courierID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	route, err := s.getCourierRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failDomain(ctx, err)
	}

	response := CourierRouteResponse{
		CourierID:        route.CourierID.String(),
		CourierName:      route.CourierName,
		Available:        route.Available,
		Stops:            make([]RouteStopResponse, len(route.Stops)),
		TotalDistanceKm:  route.TotalDistanceKm,
		TotalDurationMin: route.TotalDurationMin,
		Source:           route.Source,
	}
	for i, stop := range route.Stops {
		response.Stops[i] = RouteStopResponse{
			OrderID: stop.OrderID.String(),
			Address: stop.Address,
			Lat:     stop.Location.Lat(),
			Lng:     stop.Location.Lng(),
			Status:  stop.Status,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// HistoryRecordResponse is one element of GET /api/v1/couriers/:id/history.
type HistoryRecordResponse struct {
	ID                 string    `json:"id"`
	OrderIDs           []string  `json:"orderIds"`
	TotalDistanceKm    float64   `json:"totalDistanceKm"`
	TotalTimeMin       float64   `json:"totalTimeMin"`
	CompletedAt        time.Time `json:"completedAt"`
	OrdersDelivered    int       `json:"ordersDelivered"`
	OnTimeDeliveries   int       `json:"onTimeDeliveries"`
	AverageDeliveryMin float64   `json:"averageDeliveryMin"`
}

// GetCourierHistory handles GET /api/v1/couriers/:id/history.
func (s *Server) GetCourierHistory(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetCourierHistoryQuery(courierID)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, err.Error())
	}

	records, err := s.getCourierHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return failDomain(ctx, err)
	}

	response := make([]HistoryRecordResponse, len(records))
	for i, record := range records {
		response[i] = HistoryRecordResponse{
			ID:                 record.ID.String(),
			OrderIDs:           record.OrderIDs,
			TotalDistanceKm:    record.TotalDistanceKm,
			TotalTimeMin:       record.TotalTimeMin,
			CompletedAt:        record.CompletedAt,
			OrdersDelivered:    record.OrdersDelivered,
			OnTimeDeliveries:   record.OnTimeDeliveries,
			AverageDeliveryMin: record.AverageDeliveryMin,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
