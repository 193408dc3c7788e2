package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adapterhttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/depot"
	"dispatch/internal/core/domain/model/history"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUoW is an in-memory unit of work backing the handler tests. Writes
// are applied immediately; Commit and Rollback are no-ops.
type memoryUoW struct {
	orders   map[string]*order.Order
	couriers map[string]*courier.Courier
	depots   []*depot.Depot
	records  []*history.Record
}

func newMemoryUoW() *memoryUoW {
	return &memoryUoW{
		orders:   make(map[string]*order.Order),
		couriers: make(map[string]*courier.Courier),
	}
}

func (u *memoryUoW) Begin(context.Context) error    { return nil }
func (u *memoryUoW) Commit(context.Context) error   { return nil }
func (u *memoryUoW) Rollback(context.Context) error { return nil }

func (u *memoryUoW) OrderRepository() ports.OrderRepository     { return (*memoryOrderRepo)(u) }
func (u *memoryUoW) CourierRepository() ports.CourierRepository { return (*memoryCourierRepo)(u) }
func (u *memoryUoW) DepotRepository() ports.DepotRepository     { return (*memoryDepotRepo)(u) }
func (u *memoryUoW) HistoryRepository() ports.HistoryRepository { return (*memoryHistoryRepo)(u) }

type memoryOrderRepo memoryUoW

func (r *memoryOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.orders[aggregate.ID().String()] = aggregate
	return nil
}

func (r *memoryOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.orders[aggregate.ID().String()] = aggregate
	return nil
}

func (r *memoryOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	found, ok := r.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id.String())
	}
	return found, nil
}

func (r *memoryOrderRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *memoryOrderRepo) GetAllPending(context.Context) ([]*order.Order, error) {
	pending := make([]*order.Order, 0)
	for _, o := range r.orders {
		if o.Status() == order.Pending {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

type memoryCourierRepo memoryUoW

func (r *memoryCourierRepo) Add(_ context.Context, aggregate *courier.Courier) error {
	r.couriers[aggregate.ID().String()] = aggregate
	return nil
}

func (r *memoryCourierRepo) Update(_ context.Context, aggregate *courier.Courier) error {
	r.couriers[aggregate.ID().String()] = aggregate
	return nil
}

func (r *memoryCourierRepo) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	found, ok := r.couriers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierID", id.String())
	}
	return found, nil
}

func (r *memoryCourierRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.Get(ctx, id)
}

func (r *memoryCourierRepo) GetAllAvailable(context.Context) ([]*courier.Courier, error) {
	available := make([]*courier.Courier, 0)
	for _, c := range r.couriers {
		if c.Available() {
			available = append(available, c)
		}
	}
	return available, nil
}

type memoryDepotRepo memoryUoW

func (r *memoryDepotRepo) Add(_ context.Context, aggregate *depot.Depot) error {
	r.depots = append(r.depots, aggregate)
	return nil
}

func (r *memoryDepotRepo) Update(context.Context, *depot.Depot) error { return nil }

func (r *memoryDepotRepo) GetActive(context.Context) (*depot.Depot, error) {
	for _, d := range r.depots {
		if d.IsActive() {
			return d, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("depot", "active")
}

type memoryHistoryRepo memoryUoW

func (r *memoryHistoryRepo) Add(_ context.Context, record *history.Record) error {
	r.records = append(r.records, record)
	return nil
}

type orderUoWFactory struct{ uow *memoryUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type courierUoWFactory struct{ uow *memoryUoW }

func (f courierUoWFactory) Create() commands.CourierUoW { return f.uow }

type depotUoWFactory struct{ uow *memoryUoW }

func (f depotUoWFactory) Create() commands.DepotUoW { return f.uow }

type assignmentUoWFactory struct{ uow *memoryUoW }

func (f assignmentUoWFactory) Create() commands.AssignmentUoW { return f.uow }

type lifecycleUoWFactory struct{ uow *memoryUoW }

func (f lifecycleUoWFactory) Create() commands.LifecycleUoW { return f.uow }

type deliveryUoWFactory struct{ uow *memoryUoW }

func (f deliveryUoWFactory) Create() commands.DeliveryUoW { return f.uow }

// stubSolver answers with an empty feasible solution.
type stubSolver struct{}

func (stubSolver) Solve(context.Context, *services.RoutingProblem) (services.Solution, error) {
	return services.Solution{Routes: map[int]services.VehicleRoute{}}, nil
}

type fixture struct {
	echo *echo.Echo
	uow  *memoryUoW
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	uow := newMemoryUoW()
	logger := slog.New(slog.DiscardHandler)
	estimator := services.NewHaversineEstimator()

	// The query handlers read straight from the database and are exercised
	// by their own integration suite; a nil gorm handle is fine for routes
	// these tests never hit.
	server := adapterhttp.NewServer(
		commands.NewCreateOrderCommandHandler(orderUoWFactory{uow}),
		commands.NewCreateCourierCommandHandler(courierUoWFactory{uow}),
		commands.NewSetDepotCommandHandler(depotUoWFactory{uow}),
		commands.NewRunAssignmentCommandHandler(
			assignmentUoWFactory{uow}, stubSolver{}, services.NewAssignmentMapper(), logger),
		commands.NewPickOrderCommandHandler(lifecycleUoWFactory{uow}),
		commands.NewDeliverOrderCommandHandler(deliveryUoWFactory{uow}, estimator, logger),
		queries.NewGetPendingOrdersQueryHandler(nil),
		queries.NewGetCourierRouteQueryHandler(nil, nil, estimator, logger),
		queries.NewGetCourierHistoryQueryHandler(nil),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return fixture{echo: e, uow: uow}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateOrder(t *testing.T) {
	t.Run("creates and returns the new id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{
			"customerName": "Ann Customer",
			"phone": "+15550001",
			"items": ["box"],
			"demand": 2,
			"address": "5 Oak St",
			"lat": 55.76,
			"lng": 37.62
		}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created adapterhttp.CreatedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		stored, ok := f.uow.orders[created.ID]
		require.True(t, ok)
		assert.Equal(t, order.Pending, stored.Status())
	})

	t.Run("rejects missing fields with 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{
			"phone": "+15550001", "items": ["box"], "demand": 2,
			"address": "5 Oak St", "lat": 55.76, "lng": 37.62
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.uow.orders)
	})

	t.Run("rejects out-of-range coordinates with 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{
			"customerName": "Ann", "phone": "+15550001", "items": ["box"],
			"demand": 2, "address": "5 Oak St", "lat": 555.76, "lng": 37.62
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateCourier(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/couriers", `{
		"name": "Alice", "phone": "+15550002", "capacity": 10
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created adapterhttp.CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	stored, ok := f.uow.couriers[created.ID]
	require.True(t, ok)
	assert.True(t, stored.Available())
}

func TestSetDepot(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/v1/depot", `{
		"name": "Main", "address": "1 Warehouse Way", "lat": 55.7558, "lng": 37.6173
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, f.uow.depots, 1)
	assert.True(t, f.uow.depots[0].IsActive())
}

func TestRunAssignment_NoDepot(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/assignments/run", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestPickOrder(t *testing.T) {
	t.Run("unknown order returns 404", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/pick", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/not-a-uuid/pick", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pending order returns 404 for its courier", func(t *testing.T) {
		f := newFixture(t)
		location, err := kernel.NewGeoPoint(55.76, 37.62)
		require.NoError(t, err)
		pending, err := order.NewOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr", location)
		require.NoError(t, err)
		f.uow.orders[pending.ID().String()] = pending

		rec := f.do(http.MethodPost,
			"/api/v1/orders/"+pending.ID().String()+"/pick", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("double pick returns 409", func(t *testing.T) {
		f := newFixture(t)
		location, err := kernel.NewGeoPoint(55.76, 37.62)
		require.NoError(t, err)
		assigned, err := order.NewOrder(
			kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr", location)
		require.NoError(t, err)

		assignee, err := courier.NewCourier(kernel.NewUUID(), "Alice", "+2", 10)
		require.NoError(t, err)
		stop, err := courier.NewRouteStop(assigned.ID(), location, "addr")
		require.NoError(t, err)
		require.NoError(t, assignee.AssignRoute([]*courier.RouteStop{stop}, 2))
		require.NoError(t, assigned.Assign(assignee.ID()))

		f.uow.orders[assigned.ID().String()] = assigned
		f.uow.couriers[assignee.ID().String()] = assignee

		path := "/api/v1/orders/" + assigned.ID().String() + "/pick"
		first := f.do(http.MethodPost, path, "")
		require.Equal(t, http.StatusNoContent, first.Code, first.Body.String())

		second := f.do(http.MethodPost, path, "")
		assert.Equal(t, http.StatusConflict, second.Code)
	})
}

func TestDeliverOrder_CompletesRound(t *testing.T) {
	f := newFixture(t)
	location, err := kernel.NewGeoPoint(55.76, 37.62)
	require.NoError(t, err)
	depotLocation, err := kernel.NewGeoPoint(55.7558, 37.6173)
	require.NoError(t, err)

	warehouse, err := depot.NewDepot(kernel.NewUUID(), "Main", "1 Warehouse Way", depotLocation)
	require.NoError(t, err)
	f.uow.depots = append(f.uow.depots, warehouse)

	routed, err := order.NewOrder(
		kernel.NewUUID(), "Ann", "+1", []string{"box"}, 2, "addr", location)
	require.NoError(t, err)
	assignee, err := courier.NewCourier(kernel.NewUUID(), "Alice", "+2", 10)
	require.NoError(t, err)
	stop, err := courier.NewRouteStop(routed.ID(), location, "addr")
	require.NoError(t, err)
	require.NoError(t, assignee.AssignRoute([]*courier.RouteStop{stop}, 2))
	require.NoError(t, routed.Assign(assignee.ID()))

	f.uow.orders[routed.ID().String()] = routed
	f.uow.couriers[assignee.ID().String()] = assignee

	pick := f.do(http.MethodPost, "/api/v1/orders/"+routed.ID().String()+"/pick", "")
	require.Equal(t, http.StatusNoContent, pick.Code, pick.Body.String())

	deliver := f.do(http.MethodPost, "/api/v1/orders/"+routed.ID().String()+"/deliver", "")
	require.Equal(t, http.StatusNoContent, deliver.Code, deliver.Body.String())

	assert.Equal(t, order.Delivered, routed.Status())
	assert.True(t, assignee.Available(), "courier returns to the depot")
	require.Len(t, f.uow.records, 1)
	assert.True(t, f.uow.records[0].CourierID().IsEqual(assignee.ID()))
}
